package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/camod/internal/engine"
)

// Format is an export file format.
type Format string

const (
	FormatCSV   Format = "csv"
	FormatArrow Format = "arrow"
)

// FormatFromPath picks the format from the file extension:
// .csv, or .arrow / .ipc / .feather.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".arrow", ".ipc", ".feather":
		return FormatArrow, nil
	default:
		return "", fmt.Errorf("export: cannot infer format from %q (want .csv or .arrow)", path)
	}
}

// WriteFile writes t to path in the format implied by its extension.
// meta is attached as schema metadata for Arrow and ignored for CSV.
func WriteFile(path string, t *engine.Table, meta map[string]string) (err error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("export: %w", cerr)
		}
	}()

	switch format {
	case FormatCSV:
		return WriteCSV(f, t)
	default:
		return WriteArrow(f, t, meta)
	}
}
