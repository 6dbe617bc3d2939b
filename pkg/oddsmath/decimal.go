package oddsmath

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseDecimal parses decimal odds text into a positive float
// "1.85" → 1.85
func ParseDecimal(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid decimal odds %q: %w", s, err)
	}
	if v <= 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("invalid decimal odds %q: must be positive", s)
	}
	return v, nil
}

// Round2 rounds to 2 decimal places, half away from zero
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Format renders odds the way the form displays them, 2 decimals
// 3.885 → "3.89"
func Format(v float64) string {
	return strconv.FormatFloat(Round2(v), 'f', 2, 64)
}

// Parlay multiplies the leg odds into combined decimal odds.
// A leg that fails to parse counts as 1.0 so a half-typed form still
// previews a stable number. ok is false for an empty leg set: zero legs
// have no combined price, not a price of 1.00.
func Parlay(legOdds []string) (combined float64, ok bool) {
	if len(legOdds) == 0 {
		return 0, false
	}

	product := 1.0
	for _, raw := range legOdds {
		v, err := ParseDecimal(raw)
		if err != nil {
			continue
		}
		product *= v
	}

	if math.IsInf(product, 0) || math.IsNaN(product) {
		return 0, false
	}
	return product, true
}
