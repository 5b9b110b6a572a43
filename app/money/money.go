// Package money handles the comma grouped amounts operators type and read.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrNotNumeric = errors.New("not a number")

// Strip removes thousands separators and surrounding blanks.
func Strip(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), ",", "")
}

// Parse reads a possibly comma grouped amount.
func Parse(s string) (decimal.Decimal, error) {
	raw := Strip(s)
	if raw == "" {
		return decimal.Zero, ErrNotNumeric
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, ErrNotNumeric
	}
	return d, nil
}

// ParseFloat is Parse for callers that carry amounts as float64 on the wire.
func ParseFloat(s string) (float64, error) {
	d, err := Parse(s)
	if err != nil {
		return 0, err
	}
	return d.InexactFloat64(), nil
}

// Format groups the integer part of d in threes, e.g. 1234567 -> "1,234,567".
func Format(d decimal.Decimal) string {
	return group(d.String())
}

// group inserts separators into a plain decimal string.
func group(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i := 0; i < len(whole); i++ {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(whole[i])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

// FormatFloat formats a wire amount for display.
func FormatFloat(f float64) string {
	return Format(decimal.NewFromFloat(f))
}

// FormatInput reformats what an operator typed into a currency field.
// Input that is not numeric is returned untouched so validation can report it.
func FormatInput(s string) string {
	d, err := Parse(s)
	if err != nil {
		return s
	}
	// keep the fraction digits as typed, trailing zeros included
	raw := Strip(s)
	if _, frac, ok := strings.Cut(raw, "."); ok && !strings.ContainsAny(raw, "eE") {
		return group(d.StringFixed(int32(len(frac))))
	}
	return Format(d)
}
