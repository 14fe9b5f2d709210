package extract

import (
	"math"
	"strconv"
	"strings"
)

// parseNumber parses a finite decimal attribute or text value, ignoring
// surrounding whitespace. NaN and infinities are rejected.
func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
