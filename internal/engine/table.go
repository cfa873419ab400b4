package engine

import (
	"encoding/json"
	"fmt"
)

// Leading table columns before the species concentrations.
const (
	ColumnTime    = "time"
	ColumnDriving = "driving"
)

// Table is the dense output of a run: one row per grid time with columns
// time, driving value and one concentration per species.
//
// The row count is fixed at construction; a Table never grows.
type Table struct {
	species []string
	rows    int
	cols    int
	data    []float64 // row major
}

// NewTable allocates a zeroed table for species with exactly rows rows.
func NewTable(species []string, rows int) *Table {
	sp := make([]string, len(species))
	copy(sp, species)
	cols := len(species) + 2
	return &Table{
		species: sp,
		rows:    rows,
		cols:    cols,
		data:    make([]float64, rows*cols),
	}
}

// Rows returns the number of rows.
func (t *Table) Rows() int { return t.rows }

// Cols returns the number of columns (species + 2).
func (t *Table) Cols() int { return t.cols }

// Species returns the species column names in order.
func (t *Table) Species() []string {
	out := make([]string, len(t.species))
	copy(out, t.species)
	return out
}

// Columns returns all column names: time, driving, species...
func (t *Table) Columns() []string {
	return append([]string{ColumnTime, ColumnDriving}, t.species...)
}

// Row returns row i. The slice aliases the table; do not modify it.
func (t *Table) Row(i int) []float64 {
	return t.data[i*t.cols : (i+1)*t.cols : (i+1)*t.cols]
}

// At returns the value at row i, column j.
func (t *Table) At(i, j int) float64 { return t.data[i*t.cols+j] }

// Time returns the grid time of row i.
func (t *Table) Time(i int) float64 { return t.At(i, 0) }

// Driving returns the driving value recorded in row i.
func (t *Table) Driving(i int) float64 { return t.At(i, 1) }

// Column returns a copy of the named column.
func (t *Table) Column(name string) ([]float64, error) {
	for j, col := range t.Columns() {
		if col == name {
			out := make([]float64, t.rows)
			for i := range out {
				out[i] = t.At(i, j)
			}
			return out, nil
		}
	}
	return nil, fmt.Errorf("table has no column %q", name)
}

// SetRow writes row i. concentrations must have one value per species.
func (t *Table) SetRow(i int, time, driving float64, concentrations []float64) error {
	if i < 0 || i >= t.rows {
		return fmt.Errorf("row %d out of range [0,%d)", i, t.rows)
	}
	if len(concentrations) != len(t.species) {
		return fmt.Errorf("row %d: %d concentrations for %d species", i, len(concentrations), len(t.species))
	}
	row := t.data[i*t.cols : (i+1)*t.cols]
	row[0] = time
	row[1] = driving
	copy(row[2:], concentrations)
	return nil
}

// tableJSON is the wire shape of a Table.
type tableJSON struct {
	Columns []string    `json:"columns"`
	Rows    [][]float64 `json:"rows"`
}

// MarshalJSON encodes the table as column names plus row arrays.
func (t *Table) MarshalJSON() ([]byte, error) {
	out := tableJSON{
		Columns: t.Columns(),
		Rows:    make([][]float64, t.rows),
	}
	for i := range out.Rows {
		out.Rows[i] = t.Row(i)
	}
	return json.Marshal(out)
}
