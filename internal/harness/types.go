package harness

import (
	"github.com/roach88/camod/internal/engine"
)

// Result is the outcome of a test scenario execution.
type Result struct {
	// Pass indicates overall test success.
	Pass bool `json:"pass"`

	// Errors contains assertion failure messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Model and Seed identify what was run.
	Model string `json:"model"`
	Seed  uint64 `json:"seed"`

	// TableDigest is the canonical digest of the output table.
	TableDigest string `json:"table_digest,omitempty"`

	Stats engine.Stats `json:"stats"`

	// Table is the run output; nil when the run failed.
	Table *engine.Table `json:"-"`

	// RunErr is the run failure, if any. A failure is only a pass when the
	// scenario expects it through a run_error assertion.
	RunErr error `json:"-"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}
