package cli

import (
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"github.com/roach88/camod/internal/engine"
	"github.com/roach88/camod/internal/export"
	"github.com/roach88/camod/internal/store"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Database string
	Seed     uint64
	Export   string
	Print    bool

	// RunIDs allows overriding the run id generator (for testing).
	// If nil, defaults to engine.UUIDv7Generator.
	RunIDs engine.RunIDGenerator
}

// SimulateResult is the outcome of one simulate invocation.
type SimulateResult struct {
	RunID       string        `json:"run_id"`
	Model       string        `json:"model"`
	Seed        uint64        `json:"seed"`
	ConfigHash  string        `json:"config_hash"`
	TableDigest string        `json:"table_digest"`
	Rows        int           `json:"rows"`
	Stats       engine.Stats  `json:"stats"`
	Database    string        `json:"database,omitempty"`
	Seq         int64         `json:"seq,omitempty"`
	Exported    string        `json:"exported,omitempty"`
	Table       *engine.Table `json:"table,omitempty"`
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "simulate <run.cue>",
		Short: "Simulate one trajectory",
		Long: `Simulate one trajectory of the run described by a CUE run file.

The seed comes from --seed, then the run file, then a random draw. The
result is stored when a database is given (--db or CAMOD_DB) and written
to a CSV or Arrow file with --export.

Exit codes:
  0 - Run finished
  1 - The model broke its propensity or stoichiometry contract
  2 - Command error (bad run file, rejected configuration, interrupted run)

Examples:
  camod simulate run.cue
  camod simulate run.cue --seed 42 --db ./camod.db
  camod simulate run.cue --export out.arrow
  camod simulate run.cue --print > out.csv`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (default $CAMOD_DB)")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "random seed (overrides the run file)")
	cmd.Flags().StringVar(&opts.Export, "export", "", "write the table to a .csv or .arrow file")
	cmd.Flags().BoolVar(&opts.Print, "print", false, "print the table (CSV in text mode)")

	return cmd
}

func runSimulate(opts *SimulateOptions, path string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := opts.formatter(cmd)
	reg := opts.registry()

	file, run, err := loadRunFile(reg, path)
	if err != nil {
		exitCode, code := classifyRunError(err)
		return formatter.Fail(exitCode, code, "failed to load run file", err)
	}

	switch {
	case cmd.Flags().Changed("seed"):
		run.Seed = opts.Seed
	case !file.HasSeed():
		run.Seed = rand.Uint64()
	}
	formatter.VerboseLog("Running %s with seed %d", run.Model, run.Seed)

	cfg, err := run.EngineConfig(reg)
	if err != nil {
		exitCode, code := classifyRunError(err)
		return formatter.Fail(exitCode, code, "failed to build run", err)
	}

	idGen := opts.RunIDs
	if idGen == nil {
		idGen = engine.UUIDv7Generator{}
	}
	res, err := engine.New(engine.WithRunIDGenerator(idGen)).Run(ctx, cfg)
	if err != nil {
		exitCode, code := classifyRunError(err)
		return formatter.Fail(exitCode, code, "simulation failed", err)
	}

	rec, err := runRecord(run, res)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, "failed to fingerprint run", err)
	}

	result := SimulateResult{
		RunID:       res.RunID,
		Model:       res.Model,
		Seed:        res.Seed,
		ConfigHash:  rec.ConfigHash,
		TableDigest: rec.TableHash,
		Rows:        res.Table.Rows(),
		Stats:       res.Stats,
	}

	if dbPath, _ := opts.database(opts.Database); dbPath != "" {
		st, err := store.Open(dbPath)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to open database", err)
		}
		defer func() {
			if closeErr := st.Close(); closeErr != nil {
				slog.Error("error closing database", "error", closeErr)
			}
		}()
		seq, err := st.SaveRun(ctx, rec, res.Table)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to store run", err)
		}
		result.Database = dbPath
		result.Seq = seq
		slog.Info("run stored", "run_id", res.RunID, "seq", seq, "db", dbPath)
	}

	if opts.Export != "" {
		rec.Seq = result.Seq
		if err := export.WriteFile(opts.Export, res.Table, exportMetadata(rec)); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeExport, "failed to export table", err)
		}
		result.Exported = opts.Export
	}

	if formatter.IsJSON() {
		if opts.Print {
			result.Table = res.Table
		}
		return formatter.Success(result)
	}

	if opts.Print {
		return export.WriteCSV(formatter.Writer, res.Table)
	}
	outputSimulateText(formatter, result)
	return nil
}

func outputSimulateText(f *OutputFormatter, r SimulateResult) {
	w := f.Writer
	fmt.Fprintf(w, "✓ run %s (model %s, seed %d)\n", r.RunID, r.Model, r.Seed)
	fmt.Fprintf(w, "  rows: %d, reactions: %d, crossings: %d, final time: %g\n",
		r.Rows, r.Stats.Reactions, r.Stats.Crossings, r.Stats.FinalTime)
	fmt.Fprintf(w, "  config: %s\n", r.ConfigHash)
	fmt.Fprintf(w, "  table:  %s\n", r.TableDigest)
	if r.Database != "" {
		fmt.Fprintf(w, "  stored: %s (seq %d)\n", r.Database, r.Seq)
	}
	if r.Exported != "" {
		fmt.Fprintf(w, "  exported: %s\n", r.Exported)
	}
}
