package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(n int) *int { return &n }

func TestHasInteriorOption_SpecsWin(t *testing.T) {
	// Derived specs short-circuit the chain even when every later source
	// would say yes.
	assert.False(t, HasInteriorOption(InteriorSource{
		InteriorPerMonth: intPtr(0),
		InteriorCleaning: "2 per month",
		InteriorCount:    2,
		PackageName:      "Classic Premium",
	}))
	assert.True(t, HasInteriorOption(InteriorSource{
		InteriorPerMonth: intPtr(2),
		InteriorCleaning: "No",
	}))
}

func TestHasInteriorOption_RawFields(t *testing.T) {
	testCases := []struct {
		name     string
		src      InteriorSource
		expected bool
	}{
		{"string count", InteriorSource{InteriorCleaning: "2 per month"}, true},
		{"no spelling", InteriorSource{InteriorCleaning: "No", PackageName: "Classic"}, false},
		{"interiorCount consulted second", InteriorSource{InteriorCount: 1}, true},
		{"numeric zero count", InteriorSource{InteriorCount: 0, PackageName: "Premium"}, false},
		{"bool true literal", InteriorSource{InteriorCleaning: true}, true},
		{"bool false falls through to name", InteriorSource{InteriorCleaning: false, PackageName: "Classic"}, false},
		{"float count floored", InteriorSource{InteriorCount: 1.9}, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, HasInteriorOption(tc.src))
		})
	}
}

func TestHasInteriorOption_NameFallback(t *testing.T) {
	assert.True(t, HasInteriorOption(InteriorSource{PackageName: "Classic Care"}))
	assert.True(t, HasInteriorOption(InteriorSource{PackageName: "premium shine"}))
	assert.True(t, HasInteriorOption(InteriorSource{PackageName: "BASIC"}))
	assert.False(t, HasInteriorOption(InteriorSource{PackageName: "Moderate"}))
	assert.False(t, HasInteriorOption(InteriorSource{}))
}

func TestParseInteriorCount(t *testing.T) {
	testCases := []struct {
		name     string
		in       any
		expected int
		ok       bool
	}{
		{"nil", nil, 0, false},
		{"bool true", true, 1, true},
		{"bool false", false, 0, true},
		{"empty string", "", 0, false},
		{"blank string", "   ", 0, false},
		{"no", "No", 0, true},
		{"none", "NONE", 0, true},
		{"n/a", "n/a", 0, true},
		{"embedded int", "2 per month", 2, true},
		{"leading text", "includes 3 interior washes", 3, true},
		{"no digits", "yes please", 0, false},
		{"int", 4, 4, true},
		{"float floored", 2.7, 2, true},
		{"negative clamped", -3.0, 0, true},
		{"unusable type", struct{}{}, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			n, ok := ParseInteriorCount(tc.in)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, n)
		})
	}
}
