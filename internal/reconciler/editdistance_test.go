package reconciler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBoundedLevenshtein(t *testing.T) {
	tests := []struct {
		a, b string
		max  int
		want int
	}{
		{"", "", 3, 0},
		{"priya sharma", "priya sharma", 3, 0},
		{"priya sharma", "priya sharm", 3, 1},
		{"priya sharma", "prya sharma", 3, 1},
		{"kitten", "sitting", 10, 3},
		{"abc", "xyz", 10, 3},
		{"", "abc", 5, 3},
		{"abc", "", 5, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, boundedLevenshtein(tt.a, tt.b, tt.max), "%q vs %q", tt.a, tt.b)
	}
}

func TestBoundedLevenshteinCapsAtMaxPlusOne(t *testing.T) {
	// Length difference alone exceeds the bound.
	assert.Equal(t, 3, boundedLevenshtein("ab", "abcdef", 2))
	// Distance exceeds the bound mid-computation.
	assert.Equal(t, 2, boundedLevenshtein("kitten", "sitting", 1))
	// Exactly at the bound is returned as-is.
	assert.Equal(t, 3, boundedLevenshtein("kitten", "sitting", 3))
}
