package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/camod/internal/export"
	"github.com/roach88/camod/internal/store"
)

// StoreOptions holds the flags shared by commands that read stored runs.
type StoreOptions struct {
	*RootOptions
	Database string
}

// openStore opens the configured database, which must already exist.
func (o *StoreOptions) openStore(f *OutputFormatter) (*store.Store, error) {
	path, err := o.existingDatabase(o.Database)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			_ = f.Error(ErrCodeNotFound, exitErr.Message, nil)
		}
		return nil, err
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, f.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
	}
	return st, nil
}

func closeStore(st *store.Store) {
	if err := st.Close(); err != nil {
		slog.Error("error closing database", "error", err)
	}
}

// getRun loads one record, mapping a missing id to E002.
func getRun(cmd *cobra.Command, f *OutputFormatter, st *store.Store, id string) (store.RunRecord, error) {
	rec, err := st.GetRun(commandContext(cmd), id)
	if errors.Is(err, store.ErrNotFound) {
		return rec, f.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("run not found: %s", id), nil)
	}
	if err != nil {
		return rec, f.Fail(ExitCommandError, ErrCodeStore, "failed to read run", err)
	}
	return rec, nil
}

func addDatabaseFlag(cmd *cobra.Command, opts *StoreOptions) {
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $CAMOD_DB)")
}

// RunsOptions holds flags for the runs command.
type RunsOptions struct {
	StoreOptions
	Model      string
	Seed       uint64
	ConfigHash string
}

// NewRunsCommand creates the runs command.
func NewRunsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &RunsOptions{StoreOptions: StoreOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List stored runs",
		Long: `List the runs stored in a database, oldest first.

Filters combine: only runs matching every given flag are listed.

Examples:
  camod runs --db ./camod.db
  camod runs --model calmodulin --seed 42
  camod runs --config-hash 3f2a... --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRuns(opts, cmd)
		},
	}
	addDatabaseFlag(cmd, &opts.StoreOptions)
	cmd.Flags().StringVar(&opts.Model, "model", "", "only runs of this model")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "only runs with this seed")
	cmd.Flags().StringVar(&opts.ConfigHash, "config-hash", "", "only runs with this config hash")
	return cmd
}

// filter builds the store predicate for the set flags.
func (o *RunsOptions) filter(cmd *cobra.Command) store.Predicate {
	var preds []store.Predicate
	if o.Model != "" {
		preds = append(preds, store.ModelIs(o.Model))
	}
	if cmd.Flags().Changed("seed") {
		preds = append(preds, store.SeedIs(o.Seed))
	}
	if o.ConfigHash != "" {
		preds = append(preds, store.ConfigHashIs(o.ConfigHash))
	}
	return store.And{Predicates: preds}
}

func runRuns(opts *RunsOptions, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	st, err := opts.openStore(formatter)
	if err != nil {
		return err
	}
	defer closeStore(st)

	recs, err := st.QueryRuns(commandContext(cmd), opts.filter(cmd))
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to list runs", err)
	}

	if formatter.IsJSON() {
		return formatter.Success(recs)
	}

	if len(recs) == 0 {
		fmt.Fprintln(formatter.Writer, "No runs found in database.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tID\tMODEL\tSEED\tROWS\tREACTIONS\tCONFIG")
	for _, r := range recs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%s\n",
			r.Seq, r.ID, r.Model, r.Seed, r.Rows, r.Stats.Reactions, shortHash(r.ConfigHash))
	}
	return tw.Flush()
}

// ShowOptions holds flags for the show command.
type ShowOptions struct {
	StoreOptions
	Table bool
}

// ShowResult is a stored run, optionally with its table.
type ShowResult struct {
	store.RunRecord
	Table any `json:"table,omitempty"`
}

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ShowOptions{StoreOptions: StoreOptions{RootOptions: rootOpts}}

	cmd := &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show one stored run",
		Long: `Show the record of one stored run.

With --table, the resampled table is printed as well (CSV in text mode).`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShow(opts, args[0], cmd)
		},
	}
	addDatabaseFlag(cmd, &opts.StoreOptions)
	cmd.Flags().BoolVar(&opts.Table, "table", false, "include the resampled table")
	return cmd
}

func runShow(opts *ShowOptions, id string, cmd *cobra.Command) error {
	formatter := opts.formatter(cmd)
	st, err := opts.openStore(formatter)
	if err != nil {
		return err
	}
	defer closeStore(st)

	rec, err := getRun(cmd, formatter, st, id)
	if err != nil {
		return err
	}

	result := ShowResult{RunRecord: rec}
	if opts.Table {
		table, err := st.LoadTable(commandContext(cmd), id)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to load table", err)
		}
		if !formatter.IsJSON() {
			outputRunText(formatter, rec)
			fmt.Fprintln(formatter.Writer)
			return export.WriteCSV(formatter.Writer, table)
		}
		result.Table = table
	}

	if formatter.IsJSON() {
		return formatter.Success(result)
	}
	outputRunText(formatter, rec)
	return nil
}

func outputRunText(f *OutputFormatter, r store.RunRecord) {
	w := f.Writer
	fmt.Fprintf(w, "run %s (seq %d)\n", r.ID, r.Seq)
	fmt.Fprintf(w, "  model:      %s\n", r.Model)
	fmt.Fprintf(w, "  seed:       %d\n", r.Seed)
	fmt.Fprintf(w, "  species:    %v\n", r.Species)
	fmt.Fprintf(w, "  rows:       %d\n", r.Rows)
	fmt.Fprintf(w, "  iterations: %d, reactions: %d, crossings: %d, final time: %g\n",
		r.Stats.Iterations, r.Stats.Reactions, r.Stats.Crossings, r.Stats.FinalTime)
	fmt.Fprintf(w, "  config:     %s\n", r.ConfigHash)
	fmt.Fprintf(w, "  table:      %s\n", r.TableHash)
}

func shortHash(h string) string {
	if len(h) > 12 {
		return h[:12]
	}
	return h
}
