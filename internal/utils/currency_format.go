package utils

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatAmount formats a foreign amount with 2 decimals, dropping a ".00" tail.
// Example: 100 returns "100", 12.5 returns "12.50"
func FormatAmount(amount decimal.Decimal) string {
	return strings.TrimSuffix(amount.StringFixed(2), ".00")
}

// FormatRate formats a rate with exactly 2 decimals.
func FormatRate(rate decimal.Decimal) string {
	return rate.StringFixed(2)
}

// FormatGrouped formats an MKD value with comma thousands separators and 2 decimals.
// Example: 8950 returns "8,950.00"
func FormatGrouped(amount decimal.Decimal) string {
	fixed := amount.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var sb strings.Builder
	if amount.IsNegative() {
		sb.WriteByte('-')
	}
	lead := len(intPart) % 3
	if lead == 0 {
		lead = 3
	}
	sb.WriteString(intPart[:lead])
	for i := lead; i < len(intPart); i += 3 {
		sb.WriteByte(',')
		sb.WriteString(intPart[i : i+3])
	}
	sb.WriteByte('.')
	sb.WriteString(frac)
	return sb.String()
}
