package axis

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScale(t *testing.T) {
	tests := []struct {
		name     string
		lo, hi   float64
		expected Range
	}{
		{"shallow well", 0, 47, Range{Min: -10, Max: 60, Interval: 10}},
		{"exact multiple pushed out", 0, 100, Range{Min: -20, Max: 120, Interval: 20}},
		{"two and a half family member", 0, 12.5, Range{Min: -2.5, Max: 15, Interval: 2.5}},
		{"diameter axis", 0, 8, Range{Min: -2, Max: 10, Interval: 2}},
		{"offset range", 100, 350, Range{Min: 50, Max: 400, Interval: 50}},
		{"max far from next gridline stays", 0, 101, Range{Min: -25, Max: 125, Interval: 25}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scale(tt.lo, tt.hi)
			assert.InDelta(t, tt.expected.Interval, got.Interval, 1e-9)
			assert.InDelta(t, tt.expected.Max, got.Max, 1e-9)
			assert.InDelta(t, tt.expected.Min, got.Min, 1e-9)
		})
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		name     string
		lo, hi   float64
		expected float64
	}{
		{"equal bounds", 5, 5, 0.01},
		{"inverted bounds", 10, 0, 0.01},
		{"tiny span", 0, 0.04, 0.01},
		{"one foot", 0, 1, 0.2},
		{"ten feet", 0, 10, 2},
		{"thousand feet", 0, 1000, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Interval(tt.lo, tt.hi), 1e-9)
		})
	}
}

func TestScale_CoversInput(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 2000; i++ {
		lo := rng.Float64() * 500
		hi := lo + rng.Float64()*3000
		if i%7 == 0 {
			lo = 0
		}

		got := Scale(lo, hi)
		assert.Greater(t, got.Interval, 0.0)
		assert.LessOrEqual(t, got.Min, lo, "min %v max %v", lo, hi)
		assert.GreaterOrEqual(t, got.Max, hi, "min %v max %v", lo, hi)
	}
}

func TestScale_RescaleNeverFiner(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 500; i++ {
		lo := 0.0
		hi := rng.Float64() * 2000

		first := Scale(lo, hi)
		second := Scale(first.Min, first.Max)
		assert.GreaterOrEqual(t, second.Interval, first.Interval-1e-12, "max %v", hi)
	}
}
