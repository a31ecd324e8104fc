package domain

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

const CurrencySymbol = "R"

// FormatPrice renders an amount with two decimals, e.g. R12.50.
func FormatPrice(p float64) string {
	return CurrencySymbol + decimal.NewFromFloat(p).StringFixed(2)
}

// FormatAverage renders a course average, or a dash for an empty course.
func FormatAverage(s CourseStats) string {
	if s.Count == 0 {
		return "—"
	}
	return FormatPrice(s.AveragePrice)
}

// Initials takes the first letter of up to two words, upper-cased.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) > 2 {
		words = words[:2]
	}
	var b strings.Builder
	for _, word := range words {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
