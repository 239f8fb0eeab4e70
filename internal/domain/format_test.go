package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/costwatch/internal/domain"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		expected string
	}{
		{name: "zero", value: 0, expected: "$0.00"},
		{name: "rounds up to cents", value: 0.048, expected: "$0.05"},
		{name: "half rounds away from zero", value: 12.345, expected: "$12.35"},
		{name: "whole dollars", value: 21, expected: "$21.00"},
		{name: "just under grouping threshold", value: 999.99, expected: "$999.99"},
		{name: "rounding crosses grouping threshold", value: 999.995, expected: "$1,000.00"},
		{name: "grouping threshold", value: 1000, expected: "$1,000.00"},
		{name: "millions", value: 1234567.891, expected: "$1,234,567.89"},
		{name: "not a number", value: math.NaN(), expected: "$0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, domain.FormatCurrency(tt.value))
		})
	}
}

func TestFormatLastUpdated(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{name: "scraper timestamp without zone", raw: "2025-12-01T10:20:30.123456", expected: "Last updated: 12/1/2025 10:20:30 AM"},
		{name: "rfc3339 timestamp", raw: "2025-12-01T22:05:09Z", expected: "Last updated: 12/1/2025 10:05:09 PM"},
		{name: "date only", raw: "2025-03-04", expected: "Last updated: 3/4/2025 12:00:00 AM"},
		{name: "missing", raw: "", expected: ""},
		{name: "unreadable", raw: "last tuesday", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, domain.FormatLastUpdated(tt.raw))
		})
	}
}
