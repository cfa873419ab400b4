// Package signal holds the externally supplied driving signal.
//
// A Signal is a step function: the value of sample i holds from TimeAt(i)
// until TimeAt(i+1). There is no interpolation between samples. The engine
// owns the current sample index and only ever advances it.
package signal

import (
	"fmt"
	"math"
)

// Signal is an immutable, strictly time-ordered sequence of samples.
// Safe for concurrent reads.
type Signal struct {
	times  []float64
	values []float64
}

// New validates and copies the samples.
//
// Requirements:
//   - at least two samples
//   - len(times) == len(values)
//   - finite times and values
//   - strictly increasing times
func New(times, values []float64) (*Signal, error) {
	if len(times) != len(values) {
		return nil, fmt.Errorf("signal: %d times but %d values", len(times), len(values))
	}
	if len(times) < 2 {
		return nil, fmt.Errorf("signal: need at least 2 samples, got %d", len(times))
	}
	for i := range times {
		if !isFinite(times[i]) {
			return nil, fmt.Errorf("signal: sample %d: time %v is not finite", i, times[i])
		}
		if !isFinite(values[i]) {
			return nil, fmt.Errorf("signal: sample %d: value %v is not finite", i, values[i])
		}
		if i > 0 && times[i] <= times[i-1] {
			return nil, fmt.Errorf("signal: sample %d: time %v not after %v", i, times[i], times[i-1])
		}
	}

	s := &Signal{
		times:  make([]float64, len(times)),
		values: make([]float64, len(values)),
	}
	copy(s.times, times)
	copy(s.values, values)
	return s, nil
}

// Constant returns a two-sample signal holding value over [start, end].
func Constant(start, end, value float64) (*Signal, error) {
	return New([]float64{start, end}, []float64{value, value})
}

// Len returns the number of samples.
func (s *Signal) Len() int { return len(s.times) }

// Start returns the time of the first sample.
func (s *Signal) Start() float64 { return s.times[0] }

// End returns the time of the last sample.
func (s *Signal) End() float64 { return s.times[len(s.times)-1] }

// TimeAt returns the time of sample i.
func (s *Signal) TimeAt(i int) float64 { return s.times[i] }

// ValueAt returns the value held from sample i until sample i+1.
func (s *Signal) ValueAt(i int) float64 { return s.values[i] }

// NextChangeTime returns the time of sample i+1, or +Inf past the last
// sample.
func (s *Signal) NextChangeTime(i int) float64 {
	if i+1 >= len(s.times) {
		return math.Inf(1)
	}
	return s.times[i+1]
}

// IndexAt returns the sample whose step covers t: the largest i with
// TimeAt(i) <= t. Times before the first sample map to 0.
func (s *Signal) IndexAt(t float64) int {
	idx := 0
	for i := 1; i < len(s.times); i++ {
		if s.times[i] > t {
			break
		}
		idx = i
	}
	return idx
}

// Times returns a copy of the sample times.
func (s *Signal) Times() []float64 {
	out := make([]float64, len(s.times))
	copy(out, s.times)
	return out
}

// Values returns a copy of the sample values.
func (s *Signal) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
