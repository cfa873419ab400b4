package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/camod/internal/signal"
)

// ConstantSignal returns a two-sample signal holding value over [start, end].
func ConstantSignal(t testing.TB, start, end, value float64) *signal.Signal {
	t.Helper()
	s, err := signal.Constant(start, end, value)
	require.NoError(t, err)
	return s
}

// StepSignal returns a signal with samples at times and the given values.
func StepSignal(t testing.TB, times, values []float64) *signal.Signal {
	t.Helper()
	s, err := signal.New(times, values)
	require.NoError(t, err)
	return s
}

// StaircaseSignal returns samples at start, start+step, ..., end where the
// k-th sample has value base + k*rise.
func StaircaseSignal(t testing.TB, start, end, step, base, rise float64) *signal.Signal {
	t.Helper()
	var times, values []float64
	for k := 0; ; k++ {
		tm := start + float64(k)*step
		if tm > end {
			break
		}
		times = append(times, tm)
		values = append(values, base+float64(k)*rise)
	}
	return StepSignal(t, times, values)
}
