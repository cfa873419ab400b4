package engine

import (
	"errors"
	"fmt"
)

// RunError represents a fatal error of a single simulation run.
//
// Run errors include:
//   - Configuration: invalid volume, timing, signal or initial state,
//     detected before the first iteration
//   - Model invariant violation: a malformed cumulative propensity array or
//     a stoichiometric update that cannot be applied
//   - Cancellation: the caller's context was cancelled between iterations
//
// A failed run never affects other runs.
type RunError struct {
	// Code identifies the error category.
	Code RunErrorCode

	// Message is a human-readable description.
	Message string

	// Time is the simulated time at which the error occurred.
	// Configuration errors report the configured start time.
	Time float64

	// Reaction is the offending reaction index, or -1 when not applicable.
	Reaction int

	// Err is the underlying cause, if any.
	Err error
}

// RunErrorCode categorizes run errors.
type RunErrorCode string

const (
	// ErrCodeConfiguration indicates the run was rejected before it started.
	ErrCodeConfiguration RunErrorCode = "CONFIGURATION_ERROR"

	// ErrCodeModelInvariant indicates the model broke the propensity or
	// stoichiometry contract mid-run.
	ErrCodeModelInvariant RunErrorCode = "MODEL_INVARIANT_VIOLATION"

	// ErrCodeCancelled indicates the run was interrupted by its context.
	ErrCodeCancelled RunErrorCode = "CANCELLED"
)

// Error implements the error interface.
func (e *RunError) Error() string {
	msg := e.Message
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	if e.Reaction >= 0 {
		return fmt.Sprintf("%s: %s (t=%g, reaction=%d)", e.Code, msg, e.Time, e.Reaction)
	}
	return fmt.Sprintf("%s: %s (t=%g)", e.Code, msg, e.Time)
}

// Unwrap returns the underlying cause.
func (e *RunError) Unwrap() error {
	return e.Err
}

// IsConfigurationError reports whether err is a configuration error.
// Uses errors.As to handle wrapped errors.
func IsConfigurationError(err error) bool {
	return hasCode(err, ErrCodeConfiguration)
}

// IsModelInvariantViolation reports whether err is a model invariant violation.
func IsModelInvariantViolation(err error) bool {
	return hasCode(err, ErrCodeModelInvariant)
}

// IsCancelled reports whether err is a cancelled run.
func IsCancelled(err error) bool {
	return hasCode(err, ErrCodeCancelled)
}

func hasCode(err error, code RunErrorCode) bool {
	var re *RunError
	if errors.As(err, &re) {
		return re.Code == code
	}
	return false
}

// newConfigError creates a RunError for a rejected configuration.
func newConfigError(start float64, format string, args ...any) *RunError {
	return &RunError{
		Code:     ErrCodeConfiguration,
		Message:  fmt.Sprintf(format, args...),
		Time:     start,
		Reaction: -1,
	}
}

// wrapConfigError creates a configuration RunError with a cause.
func wrapConfigError(start float64, message string, err error) *RunError {
	return &RunError{
		Code:     ErrCodeConfiguration,
		Message:  message,
		Time:     start,
		Reaction: -1,
		Err:      err,
	}
}

// NewConfigurationError reports a run rejected while its configuration is
// being assembled, outside the engine. start is the configured start time.
func NewConfigurationError(start float64, message string, err error) *RunError {
	return wrapConfigError(start, message, err)
}

// newInvariantError creates a RunError for a model contract violation.
func newInvariantError(t float64, reaction int, message string, err error) *RunError {
	return &RunError{
		Code:     ErrCodeModelInvariant,
		Message:  message,
		Time:     t,
		Reaction: reaction,
		Err:      err,
	}
}
