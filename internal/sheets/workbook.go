package sheets

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// maxSheetNameLength is Excel's sheet name limit in characters.
const maxSheetNameLength = 31

const defaultSheet = "Sheet1"

// Built-in number format 4 is "#,##0.00".
const moneyNumFmt = 4

type workbook struct {
	f          *excelize.File
	used       map[string]bool
	sheetNames []string
	titleStyle int
	headStyle  int
	moneyStyle int
}

func newWorkbook(f *excelize.File) (*workbook, error) {
	wb := &workbook{f: f, used: make(map[string]bool)}

	var err error
	if wb.titleStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	}); err != nil {
		return nil, fmt.Errorf("failed to create title style: %w", err)
	}
	if wb.headStyle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#6366F1"}, Pattern: 1},
	}); err != nil {
		return nil, fmt.Errorf("failed to create header style: %w", err)
	}
	if wb.moneyStyle, err = f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt}); err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}
	return wb, nil
}

// sheet adds a sheet named after want, sanitized and made unique.
func (wb *workbook) sheet(want string) (*sheetWriter, error) {
	name := wb.uniqueName(SanitizeSheetName(want))

	if len(wb.sheetNames) == 0 {
		if err := wb.f.SetSheetName(defaultSheet, name); err != nil {
			return nil, fmt.Errorf("failed to rename sheet %q: %w", name, err)
		}
	} else if _, err := wb.f.NewSheet(name); err != nil {
		return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
	}

	wb.used[strings.ToLower(name)] = true
	wb.sheetNames = append(wb.sheetNames, name)
	return &sheetWriter{wb: wb, name: name, next: 1}, nil
}

func (wb *workbook) uniqueName(base string) string {
	if !wb.used[strings.ToLower(base)] {
		return base
	}
	for n := 2; ; n++ {
		suffix := fmt.Sprintf(" (%d)", n)
		candidate := truncateGraphemes(base, maxSheetNameLength-utf8.RuneCountInString(suffix)) + suffix
		if !wb.used[strings.ToLower(candidate)] {
			return candidate
		}
	}
}

// SanitizeSheetName applies Excel's sheet name rules: no []:*?/\ characters,
// no leading or trailing apostrophe, at most 31 characters.
func SanitizeSheetName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', ':', '*', '?', '/', '\\':
			return -1
		}
		return r
	}, name)
	cleaned = strings.Trim(strings.TrimSpace(cleaned), "'")
	cleaned = truncateGraphemes(strings.TrimSpace(cleaned), maxSheetNameLength)
	if cleaned == "" {
		return "Sheet"
	}
	return cleaned
}

// sheetWriter appends rows to one sheet. The first error sticks and turns
// later calls into no-ops.
type sheetWriter struct {
	wb   *workbook
	err  error
	name string
	next int
}

func (s *sheetWriter) cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}

func (s *sheetWriter) row(values ...any) {
	if s.err != nil {
		return
	}
	if err := s.wb.f.SetSheetRow(s.name, s.cell("A", s.next), &values); err != nil {
		s.err = fmt.Errorf("failed to write row %d of %q: %w", s.next, s.name, err)
		return
	}
	s.next++
}

func (s *sheetWriter) blank() {
	if s.err == nil {
		s.next++
	}
}

func (s *sheetWriter) title(text string) {
	s.row(text)
	s.style(s.next-1, "A", "A", s.wb.titleStyle)
}

func (s *sheetWriter) header(labels ...string) {
	values := make([]any, len(labels))
	for i, l := range labels {
		values[i] = l
	}
	s.row(values...)

	last, err := excelize.ColumnNumberToName(len(labels))
	if err != nil && s.err == nil {
		s.err = err
		return
	}
	s.style(s.next-1, "A", last, s.wb.headStyle)
}

func (s *sheetWriter) moneyRow(label string, amount decimal.Decimal) {
	s.row(label, amountCell(amount))
	s.style(s.next-1, "B", "B", s.wb.moneyStyle)
}

func (s *sheetWriter) moneyColumns(firstRow, lastRow int, fromCol, toCol string) {
	if s.err != nil || lastRow < firstRow {
		return
	}
	if err := s.wb.f.SetCellStyle(s.name, s.cell(fromCol, firstRow), s.cell(toCol, lastRow), s.wb.moneyStyle); err != nil {
		s.err = fmt.Errorf("failed to style %q: %w", s.name, err)
	}
}

func (s *sheetWriter) style(row int, fromCol, toCol string, style int) {
	if s.err != nil {
		return
	}
	if err := s.wb.f.SetCellStyle(s.name, s.cell(fromCol, row), s.cell(toCol, row), style); err != nil {
		s.err = fmt.Errorf("failed to style %q: %w", s.name, err)
	}
}

func (s *sheetWriter) widths(cols map[string]float64) {
	for col, width := range cols {
		if s.err != nil {
			return
		}
		if err := s.wb.f.SetColWidth(s.name, col, col, width); err != nil {
			s.err = fmt.Errorf("failed to size column %s of %q: %w", col, s.name, err)
		}
	}
}
