package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/roach88/camod/internal/engine"
)

// WriteCSV writes a header row (time, driving, species...) followed by one
// line per table row. Numbers use the shortest representation that parses
// back to the same float64.
func WriteCSV(w io.Writer, t *engine.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns()); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}

	record := make([]string, t.Cols())
	for i := 0; i < t.Rows(); i++ {
		for j, v := range t.Row(i) {
			record[j] = strconv.FormatFloat(v, 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export csv: row %d: %w", i, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}
	return nil
}
