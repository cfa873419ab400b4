package cli

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/roach88/camod/internal/config"
	"github.com/roach88/camod/internal/engine"
)

// ValidationIssue is one problem found in a run file.
type ValidationIssue struct {
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	File    string `json:"file,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Model  string            `json:"model,omitempty"`
	Rows   int               `json:"rows,omitempty"`
	Errors []ValidationIssue `json:"errors,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <run.cue>",
		Short: "Check a run file without simulating",
		Long: `Check a CUE run file without simulating it.

Loads the file, resolves the model, parameter overrides and signal, and
applies every check the engine performs before its first iteration.

Exit codes:
  0 - Run file is valid
  1 - Run file is invalid
  2 - Command error (file not found, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	reg := opts.registry()

	_, run, err := loadRunFile(reg, path)
	if err != nil {
		var nf *notFoundError
		if errors.As(err, &nf) {
			return formatter.Fail(ExitCommandError, ErrCodeNotFound, nf.Error(), nil)
		}
		return outputValidationIssue(formatter, issueFromError(ErrCodeLoadFailed, err))
	}
	formatter.VerboseLog("Resolved model %s in %s", run.Model, filepath.Base(path))

	cfg, err := run.EngineConfig(reg)
	if err == nil {
		err = engine.Validate(cfg)
	}
	if err != nil {
		return outputValidationIssue(formatter, issueFromError(ErrCodeConfiguration, err))
	}

	rows := engine.RowCount(cfg.StartTime, cfg.EndTime, cfg.Timestep)
	if formatter.IsJSON() {
		return formatter.Success(ValidationResult{Valid: true, Model: run.Model, Rows: rows})
	}
	fmt.Fprintf(formatter.Writer, "✓ %s valid (model %s, %d rows)\n", path, run.Model, rows)
	return nil
}

// issueFromError converts err into a ValidationIssue, keeping the CUE
// position of a LoadError.
func issueFromError(code string, err error) ValidationIssue {
	issue := ValidationIssue{Code: code, Message: err.Error()}

	var loadErr *config.LoadError
	if errors.As(err, &loadErr) {
		issue.Field = loadErr.Field
		issue.Message = loadErr.Message
		if loadErr.Pos.IsValid() {
			issue.File = loadErr.Pos.Filename()
			issue.Line = loadErr.Pos.Line()
			issue.Column = loadErr.Pos.Column()
		}
	}
	return issue
}

// outputValidationIssue reports an invalid run file.
func outputValidationIssue(formatter *OutputFormatter, issue ValidationIssue) error {
	failure := NewExitError(ExitFailure, "validation failed")

	if formatter.IsJSON() {
		response := CLIResponse{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: []ValidationIssue{issue}},
			Error:  &CLIError{Code: issue.Code, Message: issue.Message},
		}
		if err := formatter.encode(response); err != nil {
			return err
		}
		return failure
	}

	w := formatter.Writer
	fmt.Fprintln(w, "✗ Validation failed")
	fmt.Fprintln(w)
	if issue.Line > 0 {
		fmt.Fprintf(w, "%s:%d:%d\n", issue.File, issue.Line, issue.Column)
	}
	if issue.Field != "" {
		fmt.Fprintf(w, "  %s: %s: %s\n", issue.Code, issue.Field, issue.Message)
	} else {
		fmt.Fprintf(w, "  %s: %s\n", issue.Code, issue.Message)
	}
	return failure
}
