package harness

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/roach88/camod/internal/canon"
	"github.com/roach88/camod/internal/engine"
)

// defaultTolerance applies when an assertion sets no tolerance.
const defaultTolerance = 1e-9

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string // Assertion type for categorization
	Expected string // Human-readable expected outcome
	Actual   string // Human-readable actual outcome
	Row      int    // Offending table row, -1 if not row specific
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	if e.Row >= 0 {
		fmt.Fprintf(&buf, "  Row: %d\n", e.Row)
	}
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// AssertionContext provides what assertions need beyond the result.
type AssertionContext struct {
	Ctx    context.Context
	Config engine.Config

	// Rerun executes the same configuration again. Used by deterministic.
	Rerun func(ctx context.Context) (*engine.Result, error)
}

// EvaluateAssertions evaluates all assertions against the result.
// Returns a slice of error messages for failed assertions.
func EvaluateAssertions(result *Result, assertions []Assertion, actx *AssertionContext) []string {
	var errs []string

	for i, assertion := range assertions {
		if assertion.Type != AssertRunError && result.RunErr != nil {
			errs = append(errs, fmt.Sprintf("assertion[%d]: %s: run failed: %v", i, assertion.Type, result.RunErr))
			continue
		}

		var err error
		switch assertion.Type {
		case AssertRowCount:
			err = assertRowCount(result.Table, assertion)
		case AssertGrid:
			if actx == nil {
				err = fmt.Errorf("grid requires the run configuration")
			} else {
				err = assertGrid(result.Table, actx.Config, assertion)
			}
		case AssertConserved:
			err = assertConserved(result.Table, assertion)
		case AssertNonNegative:
			err = assertNonNegative(result.Table)
		case AssertBounded:
			err = assertBounded(result.Table, assertion)
		case AssertValue:
			err = assertValue(result.Table, assertion)
		case AssertDeterministic:
			if actx == nil || actx.Rerun == nil {
				err = fmt.Errorf("deterministic requires a rerun function")
			} else {
				err = assertDeterministic(actx, result)
			}
		case AssertRunError:
			err = assertRunError(result.RunErr, assertion)
		default:
			err = fmt.Errorf("unknown assertion type %q", assertion.Type)
		}

		if err != nil {
			errs = append(errs, fmt.Sprintf("assertion[%d]: %v", i, err))
		}
	}

	return errs
}

func tolerance(a Assertion) float64 {
	if a.Tolerance > 0 {
		return a.Tolerance
	}
	return defaultTolerance
}

// within compares got to want with tol scaled by |want| once it exceeds 1.
func within(got, want, tol float64) bool {
	return math.Abs(got-want) <= tol*math.Max(1, math.Abs(want))
}

// speciesColumns maps species names to column indexes. Empty names selects
// every species column.
func speciesColumns(t *engine.Table, names []string) ([]int, error) {
	if len(names) == 0 {
		cols := make([]int, len(t.Species()))
		for i := range cols {
			cols[i] = i + 2
		}
		return cols, nil
	}

	index := make(map[string]int)
	for i, sp := range t.Species() {
		index[sp] = i + 2
	}
	cols := make([]int, len(names))
	for i, name := range names {
		j, ok := index[name]
		if !ok {
			return nil, fmt.Errorf("unknown species %q (have %v)", name, t.Species())
		}
		cols[i] = j
	}
	return cols, nil
}

func assertRowCount(t *engine.Table, a Assertion) error {
	if t.Rows() != a.Count {
		return &AssertionError{
			Type:     AssertRowCount,
			Expected: fmt.Sprintf("%d rows", a.Count),
			Actual:   fmt.Sprintf("%d rows", t.Rows()),
			Row:      -1,
		}
	}
	return nil
}

// assertGrid checks row i lies at start + i*timestep.
func assertGrid(t *engine.Table, cfg engine.Config, a Assertion) error {
	tol := tolerance(a)
	for i := 0; i < t.Rows(); i++ {
		want := cfg.StartTime + float64(i)*cfg.Timestep
		if !within(t.Time(i), want, tol) {
			return &AssertionError{
				Type:     AssertGrid,
				Expected: fmt.Sprintf("time %v", want),
				Actual:   fmt.Sprintf("time %v", t.Time(i)),
				Row:      i,
			}
		}
	}
	return nil
}

// assertConserved checks the summed concentration of the selected species
// matches row 0 in every row.
func assertConserved(t *engine.Table, a Assertion) error {
	cols, err := speciesColumns(t, a.Species)
	if err != nil {
		return err
	}
	sum := func(i int) float64 {
		s := 0.0
		for _, j := range cols {
			s += t.At(i, j)
		}
		return s
	}

	tol := tolerance(a)
	ref := sum(0)
	for i := 1; i < t.Rows(); i++ {
		if got := sum(i); !within(got, ref, tol) {
			return &AssertionError{
				Type:     AssertConserved,
				Expected: fmt.Sprintf("total %v", ref),
				Actual:   fmt.Sprintf("total %v", got),
				Row:      i,
			}
		}
	}
	return nil
}

func assertNonNegative(t *engine.Table) error {
	columns := t.Columns()
	for i := 0; i < t.Rows(); i++ {
		for j := 2; j < t.Cols(); j++ {
			if v := t.At(i, j); v < 0 || math.IsNaN(v) {
				return &AssertionError{
					Type:     AssertNonNegative,
					Expected: fmt.Sprintf("%s >= 0", columns[j]),
					Actual:   fmt.Sprintf("%s = %v", columns[j], v),
					Row:      i,
				}
			}
		}
	}
	return nil
}

func assertBounded(t *engine.Table, a Assertion) error {
	cols, err := speciesColumns(t, a.Species)
	if err != nil {
		return err
	}

	inRange := func(v float64) bool {
		if a.Min != nil && (v < *a.Min || (a.Exclusive && v == *a.Min)) {
			return false
		}
		if a.Max != nil && (v > *a.Max || (a.Exclusive && v == *a.Max)) {
			return false
		}
		return !math.IsNaN(v)
	}

	columns := t.Columns()
	for i := a.Skip; i < t.Rows(); i++ {
		for _, j := range cols {
			if v := t.At(i, j); !inRange(v) {
				return &AssertionError{
					Type:     AssertBounded,
					Expected: fmt.Sprintf("%s in %s", columns[j], describeRange(a)),
					Actual:   fmt.Sprintf("%s = %v", columns[j], v),
					Row:      i,
				}
			}
		}
	}
	return nil
}

func describeRange(a Assertion) string {
	lo, hi := "[", "]"
	if a.Exclusive {
		lo, hi = "(", ")"
	}
	minS, maxS := "-inf", "+inf"
	if a.Min != nil {
		minS = fmt.Sprint(*a.Min)
	}
	if a.Max != nil {
		maxS = fmt.Sprint(*a.Max)
	}
	return lo + minS + ", " + maxS + hi
}

func assertValue(t *engine.Table, a Assertion) error {
	col, err := t.Column(a.Column)
	if err != nil {
		return err
	}
	row := a.Row
	if row < 0 {
		row += t.Rows()
	}
	if row < 0 || row >= t.Rows() {
		return fmt.Errorf("row %d out of range for %d rows", a.Row, t.Rows())
	}
	if !within(col[row], *a.Expect, tolerance(a)) {
		return &AssertionError{
			Type:     AssertValue,
			Expected: fmt.Sprintf("%s = %v", a.Column, *a.Expect),
			Actual:   fmt.Sprintf("%s = %v", a.Column, col[row]),
			Row:      row,
		}
	}
	return nil
}

// assertDeterministic reruns the configuration and compares table digests
// and run statistics.
func assertDeterministic(actx *AssertionContext, result *Result) error {
	again, err := actx.Rerun(actx.Ctx)
	if err != nil {
		return fmt.Errorf("rerun failed: %w", err)
	}
	digest, err := canon.TableDigest(again.Table)
	if err != nil {
		return err
	}
	if digest != result.TableDigest || again.Stats != result.Stats {
		return &AssertionError{
			Type:     AssertDeterministic,
			Expected: fmt.Sprintf("digest %s, %+v", result.TableDigest, result.Stats),
			Actual:   fmt.Sprintf("digest %s, %+v", digest, again.Stats),
			Row:      -1,
		}
	}
	return nil
}

func assertRunError(runErr error, a Assertion) error {
	var re *engine.RunError
	if !errors.As(runErr, &re) {
		actual := "run succeeded"
		if runErr != nil {
			actual = runErr.Error()
		}
		return &AssertionError{
			Type:     AssertRunError,
			Expected: "run error " + a.Code,
			Actual:   actual,
			Row:      -1,
		}
	}
	if string(re.Code) != a.Code {
		return &AssertionError{
			Type:     AssertRunError,
			Expected: "run error " + a.Code,
			Actual:   re.Error(),
			Row:      -1,
		}
	}
	return nil
}
