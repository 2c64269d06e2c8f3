package calc

import (
	"math"
	"strconv"
	"strings"
)

const (
	expSmall = 1e-6
	expLarge = 999999999
)

// Format renders a result for display. Very small and very large
// magnitudes use exponent notation with six fraction digits and an
// unpadded exponent (1.234560e+9); everything else is rounded to ten
// decimal places with trailing zeros dropped.
func Format(x float64) string {
	if x == 0 {
		return "0"
	}
	if abs := math.Abs(x); abs < expSmall || abs > expLarge {
		return formatExp(x)
	}
	if x == math.Trunc(x) {
		return strconv.FormatFloat(x, 'f', -1, 64)
	}

	s := strconv.FormatFloat(x, 'f', 10, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}

func formatExp(x float64) string {
	s := strconv.FormatFloat(x, 'e', 6, 64)
	mant, exp, _ := strings.Cut(s, "e")
	sign, digits := exp[:1], strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + sign + digits
}
