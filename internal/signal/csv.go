package signal

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Column names accepted for the driving value, case-insensitive.
var valueColumns = []string{"ca", "calcium"}

// ReadCSV parses a table with a header row naming a "time" column and a
// "Ca" (or "calcium") column. Other columns are ignored.
func ReadCSV(r io.Reader) (*Signal, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("signal csv: empty input")
	}
	if err != nil {
		return nil, fmt.Errorf("signal csv: read header: %w", err)
	}

	timeCol, valueCol := -1, -1
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "time" {
			timeCol = i
		}
		for _, candidate := range valueColumns {
			if name == candidate {
				valueCol = i
			}
		}
	}
	if timeCol < 0 {
		return nil, fmt.Errorf("signal csv: no \"time\" column in header %v", header)
	}
	if valueCol < 0 {
		return nil, fmt.Errorf("signal csv: no \"Ca\" column in header %v", header)
	}

	var times, values []float64
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("signal csv: line %d: %w", line, err)
		}
		t, err := strconv.ParseFloat(strings.TrimSpace(record[timeCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("signal csv: line %d: time: %w", line, err)
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(record[valueCol]), 64)
		if err != nil {
			return nil, fmt.Errorf("signal csv: line %d: value: %w", line, err)
		}
		times = append(times, t)
		values = append(values, v)
	}

	return New(times, values)
}

// ReadCSVFile opens path and parses it with ReadCSV.
func ReadCSVFile(path string) (*Signal, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("signal csv: %w", err)
	}
	defer f.Close()

	s, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}
