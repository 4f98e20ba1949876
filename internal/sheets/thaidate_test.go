package sheets

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/unikonkon/ceasflow/internal/testutil"
)

func TestParseThaiDate(t *testing.T) {
	tests := []struct {
		want time.Time
		in   string
	}{
		{in: "15 มี.ค. 2567", want: time.Date(2024, time.March, 15, 0, 0, 0, 0, testutil.Bangkok)},
		{in: "1 ม.ค. 2569 09:05", want: time.Date(2026, time.January, 1, 9, 5, 0, 0, testutil.Bangkok)},
		{in: "  31 ธ.ค. 2566   23:59 ", want: time.Date(2023, time.December, 31, 23, 59, 0, 0, testutil.Bangkok)},
		{in: "29 ก.พ. 2567", want: time.Date(2024, time.February, 29, 0, 0, 0, 0, testutil.Bangkok)},
		{in: "5 ต.ค. 2567 extra", want: time.Date(2024, time.October, 5, 0, 0, 0, 0, testutil.Bangkok)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseThaiDate(tt.in, testutil.Bangkok)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestParseThaiDate_Rejects(t *testing.T) {
	for _, in := range []string{
		"",
		"15 มี.ค.",
		"15 March 2567",
		"x มี.ค. 2567",
		"15 มี.ค. year",
		"30 ก.พ. 2567",
		"15 มี.ค. 2567 25:00",
		"15 มี.ค. 2567 10:61",
		"2024-03-15",
	} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseThaiDate(in, testutil.Bangkok)
			assert.Error(t, err)
		})
	}
}

func TestFormatThaiDate(t *testing.T) {
	d := time.Date(2024, time.March, 5, 7, 3, 0, 0, testutil.Bangkok)
	assert.Equal(t, "5 มี.ค. 2567 07:03", FormatThaiDate(d, testutil.Bangkok))
	assert.Equal(t, "5 มี.ค. 2567", FormatThaiDay(d, testutil.Bangkok))
	assert.Equal(t, "มี.ค. 2567", FormatThaiMonth(d, testutil.Bangkok))

	utc := time.Date(2024, time.March, 31, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "1 เม.ย. 2567 03:00", FormatThaiDate(utc, testutil.Bangkok))
}

func TestThaiDate_RoundTripEveryMonth(t *testing.T) {
	for m := time.January; m <= time.December; m++ {
		d := time.Date(2025, m, 28, 18, 45, 0, 0, testutil.Bangkok)
		got, err := ParseThaiDate(FormatThaiDate(d, testutil.Bangkok), testutil.Bangkok)
		require.NoError(t, err)
		assert.True(t, d.Equal(got), m.String())
	}
}
