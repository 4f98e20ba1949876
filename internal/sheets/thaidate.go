package sheets

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// buddhistEraOffset converts between Buddhist Era and Gregorian years.
const buddhistEraOffset = 543

var thaiMonthAbbreviations = [12]string{
	"ม.ค.", "ก.พ.", "มี.ค.", "เม.ย.", "พ.ค.", "มิ.ย.",
	"ก.ค.", "ส.ค.", "ก.ย.", "ต.ค.", "พ.ย.", "ธ.ค.",
}

var thaiMonthIndex = func() map[string]time.Month {
	m := make(map[string]time.Month, len(thaiMonthAbbreviations))
	for i, abbr := range thaiMonthAbbreviations {
		m[abbr] = time.Month(i + 1)
	}
	return m
}()

// FormatThaiDate renders t in loc as "D MMM YYYY HH:MM" with a Buddhist Era
// year, e.g. "15 มี.ค. 2567 14:30".
func FormatThaiDate(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	return fmt.Sprintf("%d %s %d %02d:%02d",
		t.Day(), thaiMonthAbbreviations[t.Month()-1], t.Year()+buddhistEraOffset, t.Hour(), t.Minute())
}

// FormatThaiDay renders the date part only: "15 มี.ค. 2567".
func FormatThaiDay(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	return fmt.Sprintf("%d %s %d", t.Day(), thaiMonthAbbreviations[t.Month()-1], t.Year()+buddhistEraOffset)
}

// FormatThaiMonth renders a month heading: "มี.ค. 2567".
func FormatThaiMonth(t time.Time, loc *time.Location) string {
	t = t.In(loc)
	return fmt.Sprintf("%s %d", thaiMonthAbbreviations[t.Month()-1], t.Year()+buddhistEraOffset)
}

// ParseThaiDate parses "D MMM YYYY" with an optional "HH:MM" into loc.
// The year is Buddhist Era. Invalid calendar dates are rejected.
func ParseThaiDate(s string, loc *time.Location) (time.Time, error) {
	parts := strings.Fields(s)
	if len(parts) < 3 {
		return time.Time{}, fmt.Errorf("date %q: expected day, month and year", s)
	}

	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: bad day: %w", s, err)
	}
	month, ok := thaiMonthIndex[parts[1]]
	if !ok {
		return time.Time{}, fmt.Errorf("date %q: unknown month %q", s, parts[1])
	}
	beYear, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q: bad year: %w", s, err)
	}
	year := beYear - buddhistEraOffset

	var hour, minute int
	if len(parts) >= 4 && strings.Contains(parts[3], ":") {
		hh, mm, _ := strings.Cut(parts[3], ":")
		if hour, err = strconv.Atoi(hh); err != nil || hour < 0 || hour > 23 {
			return time.Time{}, fmt.Errorf("date %q: bad hour", s)
		}
		if minute, err = strconv.Atoi(mm); err != nil || minute < 0 || minute > 59 {
			return time.Time{}, fmt.Errorf("date %q: bad minute", s)
		}
	}

	t := time.Date(year, month, day, hour, minute, 0, 0, loc)
	if t.Day() != day || t.Month() != month {
		return time.Time{}, fmt.Errorf("date %q: day out of range", s)
	}
	return t, nil
}
