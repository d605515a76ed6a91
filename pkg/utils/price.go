package utils

import (
	"math"
	"strconv"
	"strings"
)

// ParseAmount converts a typed number such as "50000", "50,000" or " 1.5e3 "
// to float64. Anything that is not entirely numeric reports false.
func ParseAmount(s string) (float64, bool) {
	clean := strings.ReplaceAll(s, ",", "")
	clean = strings.TrimSpace(clean)
	if clean == "" {
		return 0, false
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// ParseWhole is ParseAmount restricted to integral values (years, mileage).
func ParseWhole(s string) (int, bool) {
	v, ok := ParseAmount(s)
	if !ok || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
		return 0, false
	}
	return int(v), true
}

// SplitList splits a comma separated field such as image_url, dropping blanks.
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Round2 rounds to two decimals, the precision used by the analytics API.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
