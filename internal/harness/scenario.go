package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Scenario defines one simulation check.
// A scenario runs a single configuration and evaluates property assertions
// against the resulting table, optionally pinned by a golden snapshot.
type Scenario struct {
	// Name uniquely identifies this scenario. It also names the golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Run is the path of a CUE run file, relative to the scenario file.
	Run string `yaml:"run,omitempty"`

	// Config is an inline CUE run file. Exactly one of Run and Config is set.
	Config string `yaml:"config,omitempty"`

	// Assertions validate the run outcome.
	Assertions []Assertion `yaml:"assertions"`

	// dir is the directory of the scenario file. Relative paths in Run and
	// in the run file's signal file resolve against it.
	dir string
}

// Dir returns the directory relative paths resolve against.
func (s *Scenario) Dir() string { return s.dir }

// Assertion validates a run result.
type Assertion struct {
	// Type specifies the assertion type:
	// - "row_count": the table has exactly Count rows
	// - "grid": row times are start + i*timestep
	// - "conserved": the sum of Species is the same in every row
	// - "non_negative": every concentration is >= 0
	// - "bounded": Species values lie in [Min, Max] (open when Exclusive)
	// - "value": Column at Row equals Expect
	// - "deterministic": a second run with the same seed is identical
	// - "run_error": the run fails with Code
	Type string `yaml:"type"`

	// Count is the expected row count (row_count).
	Count int `yaml:"count,omitempty"`

	// Species names the columns an assertion applies to (conserved,
	// bounded). Empty means every species column.
	Species []string `yaml:"species,omitempty"`

	// Min and Max bound values (bounded).
	Min *float64 `yaml:"min,omitempty"`
	Max *float64 `yaml:"max,omitempty"`

	// Exclusive makes bounded reject values equal to Min or Max.
	Exclusive bool `yaml:"exclusive,omitempty"`

	// Skip is the number of leading rows bounded ignores.
	Skip int `yaml:"skip,omitempty"`

	// Column and Row select a cell (value). Negative rows count from the end.
	Column string   `yaml:"column,omitempty"`
	Row    int      `yaml:"row,omitempty"`
	Expect *float64 `yaml:"expect,omitempty"`

	// Tolerance is the allowed absolute error (conserved, grid, value).
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Code is the expected error code (run_error).
	Code string `yaml:"code,omitempty"`
}

// Assertion type constants.
const (
	AssertRowCount      = "row_count"
	AssertGrid          = "grid"
	AssertConserved     = "conserved"
	AssertNonNegative   = "non_negative"
	AssertBounded       = "bounded"
	AssertValue         = "value"
	AssertDeterministic = "deterministic"
	AssertRunError      = "run_error"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	s, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}
	s.dir = filepath.Dir(path)

	if s.Run != "" {
		runPath := s.RunPath()
		if _, err := os.Stat(runPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("invalid scenario: run file not found: %s", runPath)
		}
	}
	return s, nil
}

// ParseScenario decodes a scenario held in memory. Relative paths resolve
// against the working directory.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:".
	var s Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&s); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &s, nil
}

// RunPath returns the run file path resolved against the scenario
// directory, or "" for inline scenarios.
func (s *Scenario) RunPath() string {
	if s.Run == "" || filepath.IsAbs(s.Run) {
		return s.Run
	}
	return filepath.Join(s.dir, s.Run)
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if (s.Run == "") == (s.Config == "") {
		return fmt.Errorf("exactly one of run and config is required")
	}

	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}

	expectsError := false
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
		if s.Assertions[i].Type == AssertRunError {
			expectsError = true
		}
	}
	if expectsError && len(s.Assertions) > 1 {
		return fmt.Errorf("run_error cannot be combined with other assertions")
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}
	if a.Tolerance < 0 {
		return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
	}

	switch a.Type {
	case AssertRowCount:
		if a.Count < 1 {
			return fmt.Errorf("assertions[%d]: count must be positive for row_count", index)
		}
	case AssertGrid, AssertConserved, AssertNonNegative, AssertDeterministic:
	case AssertBounded:
		if a.Min == nil && a.Max == nil {
			return fmt.Errorf("assertions[%d]: min or max is required for bounded", index)
		}
		if a.Min != nil && a.Max != nil && *a.Min > *a.Max {
			return fmt.Errorf("assertions[%d]: min %v exceeds max %v", index, *a.Min, *a.Max)
		}
		if a.Skip < 0 {
			return fmt.Errorf("assertions[%d]: skip must be non-negative", index)
		}
	case AssertValue:
		if a.Column == "" {
			return fmt.Errorf("assertions[%d]: column is required for value", index)
		}
		if a.Expect == nil {
			return fmt.Errorf("assertions[%d]: expect is required for value", index)
		}
	case AssertRunError:
		if a.Code == "" {
			return fmt.Errorf("assertions[%d]: code is required for run_error", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
