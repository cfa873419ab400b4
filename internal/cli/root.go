package cli

import (
	"context"
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/camod/internal/model"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Env is the parsed environment.
	Env Env

	// Registry lists the models run files may name. Nil means the built-ins.
	Registry *model.Registry
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func (o *RootOptions) registry() *model.Registry {
	if o.Registry == nil {
		o.Registry = model.DefaultRegistry()
	}
	return o.Registry
}

// formatter returns an OutputFormatter writing to cmd's streams.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// database resolves the database path from a --db flag value or CAMOD_DB.
func (o *RootOptions) database(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if o.Env.Database != "" {
		return o.Env.Database, nil
	}
	return "", NewExitError(ExitCommandError, "no database: pass --db or set CAMOD_DB")
}

// existingDatabase is database for commands that only read: the file must
// already exist.
func (o *RootOptions) existingDatabase(flag string) (string, error) {
	path, err := o.database(flag)
	if err != nil {
		return "", err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return "", NewExitError(ExitCommandError, fmt.Sprintf("database not found: %s", path))
	}
	return path, nil
}

// NewRootCommand creates the root command for the camod CLI.
func NewRootCommand(env Env) *cobra.Command {
	opts := &RootOptions{Env: env}

	cmd := &cobra.Command{
		Use:   "camod",
		Short: "camod - calcium-driven stochastic reaction simulator",
		Long: `Simulate reaction networks whose rates follow a calcium time course.

Runs are described by CUE files, simulated with the Gillespie direct
method, resampled onto a uniform grid and optionally stored in SQLite.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if err := setupLogging(cmd.ErrOrStderr(), opts.Verbose, opts.Env.LogLevel); err != nil {
				return WrapExitError(ExitCommandError, "logging", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewModelsCommand(opts))
	cmd.AddCommand(NewRunsCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// commandContext returns cmd's context, or Background when it has none.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
