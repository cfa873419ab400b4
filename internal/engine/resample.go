package engine

import (
	"math"

	"github.com/roach88/camod/internal/units"
)

// tickScale is the time resolution of grid comparisons: 1e-4 time units.
// Every grid comparison goes through tick so that accumulated floating
// error cannot add or drop a row at a boundary.
const tickScale = 1e4

func tick(t float64) float64 {
	return math.Round(t * tickScale)
}

// RowCount returns the number of grid rows for [start, end] at step:
// floor((end-start)/step + 0.5) + 1. The caller must have checked
// gridRows against MaxRows; larger grids do not fit an int.
func RowCount(start, end, step float64) int {
	return int(gridRows(start, end, step))
}

func gridRows(start, end, step float64) float64 {
	return math.Floor((end-start)/step+0.5) + 1
}

// resampler turns irregular event times into rows on a uniform grid with
// last-value-hold. The next row index only moves forward and is bounded by
// the preallocated table.
type resampler struct {
	table   *Table
	conv    units.Converter
	start   float64
	step    float64
	endTick float64
	next    int
	conc    []float64
}

func newResampler(table *Table, conv units.Converter, start, end, step float64) *resampler {
	return &resampler{
		table:   table,
		conv:    conv,
		start:   start,
		step:    step,
		endTick: tick(end),
		conc:    make([]float64, len(table.species)),
	}
}

// gridTime is computed from the row index, never by repeated addition.
func (r *resampler) gridTime(k int) float64 {
	return r.start + float64(k)*r.step
}

// flushBefore emits every grid row strictly before t (and strictly before
// the end time) with the state as it was before t.
func (r *resampler) flushBefore(t, driving float64, counts []uint64) {
	limit := tick(t)
	for r.next < r.table.rows {
		g := tick(r.gridTime(r.next))
		if g >= limit || g >= r.endTick {
			return
		}
		r.emit(driving, counts)
	}
}

// fill emits all remaining rows with the final state.
func (r *resampler) fill(driving float64, counts []uint64) {
	for r.next < r.table.rows {
		r.emit(driving, counts)
	}
}

func (r *resampler) emit(driving float64, counts []uint64) {
	for i, n := range counts {
		r.conc[i] = r.conv.ToConcentration(n)
	}
	row := r.table.data[r.next*r.table.cols : (r.next+1)*r.table.cols]
	row[0] = r.gridTime(r.next)
	row[1] = driving
	copy(row[2:], r.conc)
	r.next++
}

// written returns the number of rows emitted so far.
func (r *resampler) written() int { return r.next }
