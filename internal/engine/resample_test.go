package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/camod/internal/units"
)

func TestRowCount(t *testing.T) {
	tests := []struct {
		start, end, step float64
		want             int
	}{
		{0, 10, 1, 11},
		{0, 0, 1, 1},
		{0, 10.4, 1, 11},
		{0, 10.5, 1, 12},
		{0, 1, 0.1, 11},
		{5, 15, 2.5, 5},
		{0, 100, 10, 11},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RowCount(tt.start, tt.end, tt.step), "[%v,%v] step %v", tt.start, tt.end, tt.step)
	}
}

func TestTick_AbsorbsRoundingError(t *testing.T) {
	sum := 0.0
	for i := 0; i < 10; i++ {
		sum += 0.1
	}
	assert.NotEqual(t, 1.0, sum)
	assert.Equal(t, tick(1.0), tick(sum))
}

func newTestResampler(t *testing.T, start, end, step float64) (*resampler, *Table) {
	t.Helper()
	conv, err := units.NewConverter(1 / units.AvogadroNano)
	require.NoError(t, err)
	tbl := NewTable([]string{"A"}, RowCount(start, end, step))
	return newResampler(tbl, conv, start, end, step), tbl
}

func TestResampler_HoldsStateBeforeEvent(t *testing.T) {
	r, tbl := newTestResampler(t, 0, 5, 1)

	// Event at t=2.5: rows 0,1,2 see the state before it.
	r.flushBefore(2.5, 1, []uint64{10})
	assert.Equal(t, 3, r.written())

	// Event exactly on a grid point: that row belongs to the new state.
	r.flushBefore(4, 2, []uint64{7})
	assert.Equal(t, 4, r.written())

	r.fill(3, []uint64{4})
	assert.Equal(t, 6, r.written())

	wantA := []float64{10, 10, 10, 7, 4, 4}
	wantDriving := []float64{1, 1, 1, 2, 3, 3}
	for i := 0; i < tbl.Rows(); i++ {
		assert.Equal(t, float64(i), tbl.Time(i))
		assert.InDelta(t, wantA[i], tbl.At(i, 2), 1e-9, "row %d", i)
		assert.Equal(t, wantDriving[i], tbl.Driving(i), "row %d", i)
	}
}

func TestResampler_NeverWritesEndRowEarly(t *testing.T) {
	r, _ := newTestResampler(t, 0, 3, 1)

	r.flushBefore(100, 1, []uint64{1})
	assert.Equal(t, 3, r.written(), "end row is left for fill")

	r.fill(1, []uint64{1})
	r.fill(1, []uint64{1})
	assert.Equal(t, 4, r.written(), "fill never grows the table")
}

func TestSelectReaction(t *testing.T) {
	tests := []struct {
		name       string
		cumulative []float64
		r          float64
		want       int
		wantErr    error
	}{
		{"first", []float64{1, 2, 3}, 0.5, 0, nil},
		{"boundary inclusive", []float64{1, 2, 3}, 2, 1, nil},
		{"last", []float64{1, 2, 3}, 3, 2, nil},
		{"skips zero width", []float64{0, 0, 1}, 0.1, 2, nil},
		{"negative entry", []float64{-1, 2}, 1, 0, errNotMonotone},
		{"decreasing entry", []float64{2, 1, 3}, 2.5, 1, errNotMonotone},
		{"nan entry", []float64{1, math.NaN(), 3}, 2.5, 1, errNotMonotone},
		{"runs off the end", []float64{1, 2}, 5, 2, errNoReaction},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := selectReaction(tt.cumulative, tt.r)
			assert.Equal(t, tt.want, got)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
