package domain

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericPrefix matches the leading decimal number of a field value.
var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseQuantity turns a raw field value into a usable quantity.
// Only the leading number is read, so "12 GB" is 12. Absent, non-numeric,
// non-finite and negative values all become zero.
func ParseQuantity(raw string) float64 {
	match := numericPrefix.FindString(strings.TrimSpace(raw))
	if match == "" {
		return 0
	}

	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}

	return Sanitize(value)
}

// Sanitize clamps a quantity to a finite, non-negative value.
func Sanitize(value float64) float64 {
	if math.IsNaN(value) || math.IsInf(value, 0) || value <= 0 {
		return 0
	}
	return value
}
