package export

import (
	"fmt"
	"io"

	"github.com/apache/arrow/go/v17/arrow"
	"github.com/apache/arrow/go/v17/arrow/array"
	"github.com/apache/arrow/go/v17/arrow/ipc"
	"github.com/apache/arrow/go/v17/arrow/memory"

	"github.com/roach88/camod/internal/engine"
)

// tableSchema has one non-nullable float64 field per table column.
func tableSchema(t *engine.Table, meta map[string]string) *arrow.Schema {
	cols := t.Columns()
	fields := make([]arrow.Field, len(cols))
	for j, name := range cols {
		fields[j] = arrow.Field{Name: name, Type: arrow.PrimitiveTypes.Float64}
	}

	var md *arrow.Metadata
	if len(meta) > 0 {
		m := arrow.MetadataFrom(meta)
		md = &m
	}
	return arrow.NewSchema(fields, md)
}

// WriteArrow writes t as an Arrow IPC file containing a single record
// batch. meta is stored as schema metadata. The file footer needs a
// seekable destination.
func WriteArrow(w io.WriteSeeker, t *engine.Table, meta map[string]string) error {
	mem := memory.NewGoAllocator()
	schema := tableSchema(t, meta)

	b := array.NewRecordBuilder(mem, schema)
	defer b.Release()

	col := make([]float64, t.Rows())
	for j := 0; j < t.Cols(); j++ {
		for i := range col {
			col[i] = t.At(i, j)
		}
		b.Field(j).(*array.Float64Builder).AppendValues(col, nil)
	}

	rec := b.NewRecord()
	defer rec.Release()

	fw, err := ipc.NewFileWriter(w, ipc.WithSchema(schema), ipc.WithAllocator(mem))
	if err != nil {
		return fmt.Errorf("export arrow: %w", err)
	}
	if err := fw.Write(rec); err != nil {
		fw.Close()
		return fmt.Errorf("export arrow: %w", err)
	}
	if err := fw.Close(); err != nil {
		return fmt.Errorf("export arrow: %w", err)
	}
	return nil
}

// ReadArrow reads a file written by WriteArrow back into a table.
// Returns the table and the schema metadata.
func ReadArrow(r ipc.ReadAtSeeker) (*engine.Table, map[string]string, error) {
	mem := memory.NewGoAllocator()
	fr, err := ipc.NewFileReader(r, ipc.WithAllocator(mem))
	if err != nil {
		return nil, nil, fmt.Errorf("read arrow: %w", err)
	}
	defer fr.Close()

	schema := fr.Schema()
	fields := schema.Fields()
	if len(fields) < 2 || fields[0].Name != engine.ColumnTime || fields[1].Name != engine.ColumnDriving {
		return nil, nil, fmt.Errorf("read arrow: schema does not start with %s, %s", engine.ColumnTime, engine.ColumnDriving)
	}
	species := make([]string, 0, len(fields)-2)
	for _, f := range fields[2:] {
		species = append(species, f.Name)
	}

	// Gather all batches column by column.
	columns := make([][]float64, len(fields))
	for k := 0; k < fr.NumRecords(); k++ {
		rec, err := fr.Record(k)
		if err != nil {
			return nil, nil, fmt.Errorf("read arrow: batch %d: %w", k, err)
		}
		for j := range fields {
			arr, ok := rec.Column(j).(*array.Float64)
			if !ok {
				return nil, nil, fmt.Errorf("read arrow: column %q is %s, want float64", fields[j].Name, rec.Column(j).DataType())
			}
			columns[j] = append(columns[j], arr.Float64Values()...)
		}
	}

	rows := len(columns[0])
	t := engine.NewTable(species, rows)
	conc := make([]float64, len(species))
	for i := 0; i < rows; i++ {
		for s := range conc {
			conc[s] = columns[s+2][i]
		}
		if err := t.SetRow(i, columns[0][i], columns[1][i], conc); err != nil {
			return nil, nil, fmt.Errorf("read arrow: %w", err)
		}
	}

	meta := make(map[string]string)
	md := schema.Metadata()
	for i, key := range md.Keys() {
		meta[key] = md.Values()[i]
	}
	return t, meta, nil
}
