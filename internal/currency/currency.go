// Package currency formats and parses money amounts for display and for
// spreadsheet cells.
package currency

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/unikonkon/ceasflow/internal/common"
)

// DefaultSymbol is the baht sign.
const DefaultSymbol = "฿"

var printer = message.NewPrinter(language.Thai)

// Format renders d with thousands separators and two decimals: 1,234.50.
func Format(d decimal.Decimal) string {
	f := d.Round(2).InexactFloat64()
	return printer.Sprint(number.Decimal(f, number.Scale(2)))
}

// FormatWithSymbol prefixes Format with symbol, keeping the sign in front.
func FormatWithSymbol(d decimal.Decimal, symbol string) string {
	if d.IsNegative() {
		return "-" + symbol + Format(d.Neg())
	}
	return symbol + Format(d)
}

// Percent renders ratio as a whole percentage, rounding half away from zero.
func Percent(ratio decimal.Decimal) string {
	return ratio.Mul(decimal.NewFromInt(100)).Round(0).String() + "%"
}

// Parse reads an amount that may carry a currency symbol, thousands
// separators or surrounding whitespace.
func Parse(s string) (decimal.Decimal, error) {
	return ParseWithSymbol(s, "")
}

// ParseWithSymbol is Parse that also strips symbol, for symbols such as
// "Rp" or "US$" that are not made of currency-sign runes.
func ParseWithSymbol(s, symbol string) (decimal.Decimal, error) {
	raw := s
	if symbol != "" {
		s = strings.ReplaceAll(s, symbol, "")
	}
	cleaned := Clean(s)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("%w: empty amount", common.ErrInvalidInput)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: amount %q", common.ErrInvalidInput, raw)
	}
	return d, nil
}

// Clean strips currency signs (any Unicode Sc rune), the ISO code THB,
// commas and all whitespace.
func Clean(s string) string {
	s = strings.ReplaceAll(s, "THB", "")
	return strings.Map(func(r rune) rune {
		if r == ',' || unicode.IsSpace(r) || unicode.Is(unicode.Sc, r) {
			return -1
		}
		return r
	}, s)
}
