package utils

import "fmt"

// FormatSigned formats a value with an explicit sign, for P&L-style
// output.
func FormatSigned(value float64) string {
	if value > 0 {
		return fmt.Sprintf("+%.4f", value)
	}
	return fmt.Sprintf("%.4f", value)
}

// FormatPercent formats a percentage with sign.
func FormatPercent(value float64) string {
	sign := ""
	if value > 0 {
		sign = "+"
	}
	return fmt.Sprintf("%s%.2f%%", sign, value)
}
