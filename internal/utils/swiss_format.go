package utils

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// FormatSwissAmount renders an amount with de-CH conventions: apostrophe
// thousands separators and two decimal places, e.g. 1234567.5 -> "1'234'567.50".
func FormatSwissAmount(amount decimal.Decimal) string {
	s := amount.StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, digit := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('\'')
		}
		b.WriteRune(digit)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}

// ParseSwissAmount parses an amount formatted by FormatSwissAmount.
func ParseSwissAmount(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(s, "'", ""))
}

// FormatSwissDate renders a date as dd.mm.yyyy.
func FormatSwissDate(t time.Time) string {
	return t.Format("02.01.2006")
}
