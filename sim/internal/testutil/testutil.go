// Package testutil provides shared test infrastructure for the charging-site
// simulator: scripted random sources and float assertion helpers used across
// sim/ and sim/montecarlo/ test packages.
package testutil

import (
	"math"
	"testing"
)

// ScriptedSource replays fixed uniform draws in order, then returns Fallback
// for every further draw. It satisfies sim.RandomSource.
type ScriptedSource struct {
	Values   []float64
	Fallback float64

	next int
}

// NewScriptedSource returns a source replaying values, then fallback.
func NewScriptedSource(fallback float64, values ...float64) *ScriptedSource {
	return &ScriptedSource{Values: values, Fallback: fallback}
}

// Float64 returns the next scripted value, or Fallback once they run out.
func (s *ScriptedSource) Float64() float64 {
	if s.next < len(s.Values) {
		v := s.Values[s.next]
		s.next++
		return v
	}
	s.next++
	return s.Fallback
}

// Draws returns how many values have been consumed, scripted or fallback.
func (s *ScriptedSource) Draws() int { return s.next }

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
