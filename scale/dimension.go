package scale

import (
	"regexp"
	"strconv"
	"strings"
)

// dimensionPattern matches a whole dimension string: 24'-6", 24'6",
// 24.5', 10'-0".
var dimensionPattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)\s*'\s*-?\s*(\d+)?\s*(?:"|'')?$`)

// ParseDimension parses an architectural length annotation into inches.
// The whole (trimmed, normalized) string must be a dimension.
func ParseDimension(text string) (float64, bool) {
	m := dimensionPattern.FindStringSubmatch(strings.TrimSpace(Normalize(text)))
	if m == nil {
		return 0, false
	}

	feet, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}
	var inches float64
	if m[2] != "" {
		inches, err = strconv.ParseFloat(m[2], 64)
		if err != nil {
			return 0, false
		}
	}
	return feet*12 + inches, true
}
