package plot

import (
	"strconv"
	"strings"
)

// FormatSize renders a plot size such as "12,500 sqft".
func FormatSize(f *float64) string {
	if f == nil {
		return "—"
	}
	return formatNumber(*f) + " sqft"
}

// FormatPrice renders a price per square foot such as "$45.5".
func FormatPrice(f *float64) string {
	if f == nil {
		return "—"
	}
	return "$" + formatNumber(*f)
}

// formatNumber groups the integer part with commas and keeps up to two
// decimals, dropping trailing zeros.
func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")

	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := formatWithCommas(intPart)
	if hasFrac {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}

func formatWithCommas(s string) string {
	if len(s) <= 3 {
		return s
	}
	var parts []string
	for len(s) > 3 {
		parts = append([]string{s[len(s)-3:]}, parts...)
		s = s[:len(s)-3]
	}
	parts = append([]string{s}, parts...)
	return strings.Join(parts, ",")
}
