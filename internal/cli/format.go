// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatKcal formats an energy value in kcal, rounded to whole calories
// with comma separators. e.g., 2345.6 -> "2,346 kcal"
func FormatKcal(v float64) string {
	return FormatNumber(int64(math.Round(v))) + " kcal"
}

// FormatKg formats a mass in kilograms with one decimal.
func FormatKg(v float64) string {
	return fmt.Sprintf("%.1f kg", v)
}

// FormatKgPerWeek formats a weekly weight slope with sign and two decimals.
// e.g., -0.35 -> "-0.35 kg/wk"
func FormatKgPerWeek(v float64) string {
	return fmt.Sprintf("%+.2f kg/wk", v)
}

// FormatSignedKcal formats a signed kcal delta, always carrying the sign.
// e.g., 500 -> "+500 kcal", -160 -> "-160 kcal"
func FormatSignedKcal(v float64) string {
	n := int64(math.Round(v))
	if n >= 0 {
		return "+" + FormatNumber(n) + " kcal"
	}
	return "-" + FormatNumber(-n) + " kcal"
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatDayOfWeek returns a 3-letter day abbreviation from a weekday
// number, 1=Sunday through 7=Saturday.
func FormatDayOfWeek(weekday int) string {
	days := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	if weekday >= 1 && weekday <= 7 {
		return days[weekday-1]
	}
	return "???"
}

// FormatConfidence renders a confidence score as a percent with a
// coarse qualitative label.
func FormatConfidence(v float64) string {
	switch {
	case v >= 0.8:
		return FormatPercent(v) + " (high)"
	case v >= 0.4:
		return FormatPercent(v) + " (medium)"
	default:
		return FormatPercent(v) + " (low)"
	}
}
