// Package format renders monetary and quantity values for reports.
package format

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Currency returns a Brazilian-style currency string with thousands
// separators (e.g., "R$ 1.234,56", "-R$ 1.234,56").
func Currency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	formatted := formatGrouped(d.Abs().StringFixed(2))
	if d.IsNegative() {
		return "-R$ " + formatted
	}
	return "R$ " + formatted
}

// Quantity returns a whole-number quantity string with thousands separators
// (e.g., "12.345").
func Quantity(value float64) string {
	d := decimal.NewFromFloat(value).Round(0)
	grouped := groupThousands(d.Abs().StringFixed(0))
	if d.IsNegative() {
		return "-" + grouped
	}
	return grouped
}

// Percent returns a percentage string with one decimal (e.g., "98,7%").
func Percent(value float64) string {
	d := decimal.NewFromFloat(value).Round(1)
	return strings.ReplaceAll(d.StringFixed(1), ".", ",") + "%"
}

// formatGrouped converts a fixed two-decimal string ("1234.56") to Brazilian
// notation ("1.234,56").
func formatGrouped(fixed string) string {
	parts := strings.SplitN(fixed, ".", 2)
	intPart := groupThousands(parts[0])
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}
	return intPart + "," + decPart
}

func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var builder strings.Builder
	for i, digit := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			builder.WriteByte('.')
		}
		builder.WriteRune(digit)
	}
	return builder.String()
}
