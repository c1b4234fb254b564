// Package axis picks plotting ranges and gridline spacing for the well
// diagram's depth and diameter axes.
package axis

import "math"

const (
	// baseExponent makes the smallest candidate factor 10^-2.
	baseExponent = -2

	// snapShift is the fraction of an interval within which a snapped bound
	// is pushed out by one more interval, keeping data off the plot edge.
	snapShift = 0.67

	// segments is the approximate number of gridline steps across a range.
	segments = 5.0
)

// multipliers is the nice-number family, in ascending order.
var multipliers = []float64{1, 2, 2.5, 5, 10}

// Range is an adjusted plotting range with its gridline interval.
type Range struct {
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Interval float64 `json:"interval"`
}

// Scale widens [lo, hi] to a range whose bounds are multiples of a nice
// interval that splits it into roughly five segments.
func Scale(lo, hi float64) Range {
	interval := Interval(lo, hi)
	return Range{
		Min:      snapMin(lo, interval),
		Max:      snapMax(hi, interval),
		Interval: interval,
	}
}

// Interval returns the nice gridline interval for [lo, hi]. A zero or
// negative span yields the smallest candidate, 0.01.
func Interval(lo, hi float64) float64 {
	delta := (hi - lo) / segments

	exp := baseExponent
	factor := math.Pow10(exp)
	interval := factor
	for delta > 0 && delta > factor {
		interval = pick(delta, factor)
		exp++
		factor = math.Pow10(exp)
	}
	return interval
}

// pick returns the smallest multiple of factor in the family that covers
// delta, or the largest one when none does.
func pick(delta, factor float64) float64 {
	for _, m := range multipliers {
		if c := m * factor; delta <= c {
			return c
		}
	}
	return multipliers[len(multipliers)-1] * factor
}

func snapMax(v, interval float64) float64 {
	n := math.Floor(v / interval)
	c := n * interval
	if v > c {
		c = (n + 1) * interval
	}
	if math.Abs(v-c) <= snapShift*interval {
		return c + interval
	}
	return c
}

func snapMin(v, interval float64) float64 {
	n := math.Floor(v / interval)
	c := n * interval
	if v < c {
		c = (n - 1) * interval
	}
	if math.Abs(v-c) <= snapShift*interval {
		return c - interval
	}
	return c
}
