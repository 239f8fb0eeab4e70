package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/davidbz/costwatch/internal/domain"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw      string
		expected float64
	}{
		{raw: "", expected: 0},
		{raw: "abc", expected: 0},
		{raw: "12", expected: 12},
		{raw: " 3.5 ", expected: 3.5},
		{raw: "12abc", expected: 12},
		{raw: ".5", expected: 0.5},
		{raw: "5.", expected: 5},
		{raw: "+7", expected: 7},
		{raw: "1e3", expected: 1000},
		{raw: "-4", expected: 0},
		{raw: "1e400", expected: 0},
		{raw: "NaN", expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			require.InDelta(t, tt.expected, domain.ParseQuantity(tt.raw), tolerance)
		})
	}
}

func TestSanitize(t *testing.T) {
	require.Zero(t, domain.Sanitize(-1))
	require.Zero(t, domain.Sanitize(math.Inf(1)))
	require.Zero(t, domain.Sanitize(math.NaN()))
	require.InDelta(t, 2.5, domain.Sanitize(2.5), tolerance)
}
