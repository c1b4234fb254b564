package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Number is the result of parsing a numeric NWIS field.
type Number struct {
	Value float64
	OK    bool
}

// ParseNumber parses s as a finite float. Empty or malformed text yields a
// Number with OK false.
func ParseNumber(s string) Number {
	s = strings.TrimSpace(s)
	if s == "" {
		return Number{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return Number{}
	}
	return Number{Value: v, OK: true}
}

// MarshalJSON renders a failed parse as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.OK {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// Extremum is a running maximum that starts unset.
type Extremum struct {
	value float64
	set   bool
}

// Observe folds n into the maximum when it parsed.
func (e *Extremum) Observe(n Number) {
	if !n.OK {
		return
	}
	e.ObserveValue(n.Value)
}

// ObserveValue folds v into the maximum.
func (e *Extremum) ObserveValue(v float64) {
	if !e.set || v > e.value {
		e.value = v
		e.set = true
	}
}

// Value returns the maximum and whether anything was observed.
func (e Extremum) Value() (float64, bool) {
	return e.value, e.set
}

// Extrema holds the plot extremes accumulated during a join.
type Extrema struct {
	DepthMax Extremum
	DiaMax   Extremum
}

// DepthMin is the fixed top of the depth axis (land surface).
const DepthMin = 0.0

// parseSeq parses a sequence-number key.
func parseSeq(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, false
	}
	return n, true
}
