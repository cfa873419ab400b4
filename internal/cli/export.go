package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/camod/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	StoreOptions
	Out string
}

// ExportResult reports a written export file.
type ExportResult struct {
	RunID  string `json:"run_id"`
	Path   string `json:"path"`
	Format string `json:"format"`
	Rows   int    `json:"rows"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{StoreOptions: StoreOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "export <run-id>",
		Short: "Write a stored table to CSV or Arrow",
		Long: `Write the resampled table of a stored run to a file.

The format follows the extension of --out: .csv, or .arrow for an Arrow
IPC file carrying the run id, seed and hashes as schema metadata.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, args[0], cmd)
		},
	}
	addDatabaseFlag(cmd, &opts.StoreOptions)
	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (.csv or .arrow)")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runExport(opts *ExportOptions, id string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)

	format, err := export.FormatFromPath(opts.Out)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeExport, "unsupported output file", err)
	}

	st, err := opts.openStore(formatter)
	if err != nil {
		return err
	}
	defer closeStore(st)

	rec, err := getRun(cmd, formatter, st, id)
	if err != nil {
		return err
	}
	table, err := st.LoadTable(commandContext(cmd), id)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to load table", err)
	}

	if err := export.WriteFile(opts.Out, table, exportMetadata(rec)); err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeExport, "failed to export table", err)
	}

	result := ExportResult{RunID: id, Path: opts.Out, Format: string(format), Rows: table.Rows()}
	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	fmt.Fprintf(formatter.Writer, "✓ wrote %d rows of run %s to %s\n", result.Rows, id, opts.Out)
	return nil
}
