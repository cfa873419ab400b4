package harness

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/camod/internal/canon"
	"github.com/roach88/camod/internal/engine"
)

// GoldenDir is the fixture directory used by RunWithGolden and AssertGolden.
const GoldenDir = "testdata/golden"

// Snapshot renders a scenario result as canonical JSON: scenario name,
// model, seed, run statistics and the full output table.
//
// Failed runs snapshot the error code instead of statistics and table.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	snap := map[string]any{
		"scenario_name": scenarioName,
		"model":         result.Model,
		"seed":          result.Seed,
	}

	if result.RunErr != nil || result.Table == nil {
		snap["error"] = errorCode(result.RunErr)
		return canon.Marshal(snap)
	}

	snap["stats"] = map[string]any{
		"iterations": result.Stats.Iterations,
		"reactions":  result.Stats.Reactions,
		"crossings":  result.Stats.Crossings,
		"final_time": result.Stats.FinalTime,
	}
	snap["table"] = tableSnapshot(result.Table)
	return canon.Marshal(snap)
}

func tableSnapshot(t *engine.Table) map[string]any {
	rows := make([]any, t.Rows())
	for i := range rows {
		rows[i] = append([]float64(nil), t.Row(i)...)
	}
	return map[string]any{
		"columns": t.Columns(),
		"rows":    rows,
	}
}

func errorCode(err error) string {
	var re *engine.RunError
	if errors.As(err, &re) {
		return string(re.Code)
	}
	if err == nil {
		return ""
	}
	return err.Error()
}

// GoldenPath returns the golden file next to a scenario file:
// <dir>/golden/<base>.golden.
func GoldenPath(scenarioFile string) string {
	dir := filepath.Dir(scenarioFile)
	base := filepath.Base(scenarioFile)
	name := base[:len(base)-len(filepath.Ext(base))]
	return filepath.Join(dir, "golden", name+".golden")
}

// CompareGolden reports whether the snapshot of result equals the golden
// file at path. A missing file is reported through os.ErrNotExist.
func CompareGolden(path, scenarioName string, result *Result) (bool, error) {
	want, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	got, err := Snapshot(scenarioName, result)
	if err != nil {
		return false, fmt.Errorf("failed to snapshot result: %w", err)
	}
	return bytes.Equal(want, got), nil
}

// UpdateGolden writes the snapshot of result to path, creating the
// directory if needed.
func UpdateGolden(path, scenarioName string, result *Result) error {
	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return fmt.Errorf("failed to snapshot result: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create golden directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write golden file: %w", err)
	}
	return nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if the scenario cannot be set up. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	data, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir(GoldenDir),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)
	return nil
}
