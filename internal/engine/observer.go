package engine

import (
	"errors"
	"math"
)

// Step describes the engine state right after one iteration.
//
// Cumulative and Counts alias engine buffers and are only valid during the
// OnStep call.
type Step struct {
	Iteration    uint64
	Time         float64
	DrivingIndex int
	Reaction     int // -1 when the iteration ended at a signal change
	Cumulative   []float64
	Counts       []uint64
}

// Observer receives every Step of a run.
type Observer interface {
	OnStep(Step)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Step)

// OnStep calls f.
func (f ObserverFunc) OnStep(s Step) { f(s) }

var (
	errNotMonotone = errors.New("cumulative propensities are negative or decreasing")
	errNoReaction  = errors.New("no cumulative propensity reaches the selection threshold")
)

// selectReaction returns the smallest index whose cumulative propensity is
// not less than r. The scan also enforces that the array is non-negative and
// non-decreasing up to the selected index. On failure the returned index is
// the offending entry, or len(cumulative) if the scan ran off the end.
func selectReaction(cumulative []float64, r float64) (int, error) {
	prev := 0.0
	for i, c := range cumulative {
		if math.IsNaN(c) || c < prev {
			return i, errNotMonotone
		}
		if c >= r {
			return i, nil
		}
		prev = c
	}
	return len(cumulative), errNoReaction
}
