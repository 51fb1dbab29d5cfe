package utils

import (
	"strconv"
	"strings"
)

// ParseNumber parses numeric text from a form field. Unparseable input maps
// to 0, matching the editor's clamping behavior; negative numbers pass
// through untouched.
func ParseNumber(text string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return 0
	}
	return value
}
