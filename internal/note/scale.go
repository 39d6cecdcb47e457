package note

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// leadingAmount splits a note into amount, unit and remainder. The
// amount accepts decimal comma/point and simple a/b fractions.
var leadingAmount = regexp.MustCompile(`^([\d.,/]+)(\s?[a-zA-Z]*)?(.*)$`)

// Scale multiplies a leading numeric amount in an ingredient note by
// the given factor. Notes without a parseable leading amount pass
// through unchanged. Whole results render bare, everything else with
// two decimals.
func Scale(raw string, factor float64) string {
	m := leadingAmount.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}

	amount, ok := parseAmount(m[1])
	if !ok {
		return raw
	}

	scaled := amount * factor
	var formatted string
	if scaled == math.Floor(scaled) {
		formatted = strconv.Itoa(int(scaled))
	} else {
		formatted = fmt.Sprintf("%.2f", scaled)
	}

	unit := strings.TrimSpace(m[2])
	return fmt.Sprintf("%s %s%s", formatted, unit, m[3])
}

// parseAmount converts "2", "2,5", "2.5" or "1/2" to a float.
func parseAmount(s string) (float64, bool) {
	if strings.Contains(s, "/") {
		parts := strings.Split(s, "/")
		if len(parts) != 2 {
			return 0, false
		}
		num, err1 := strconv.ParseFloat(strings.ReplaceAll(parts[0], ",", "."), 64)
		den, err2 := strconv.ParseFloat(strings.ReplaceAll(parts[1], ",", "."), 64)
		if err1 != nil || err2 != nil || den == 0 {
			return 0, false
		}
		return num / den, true
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
