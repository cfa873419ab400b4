package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/camod/internal/canon"
	"github.com/roach88/camod/internal/engine"
	"github.com/roach88/camod/internal/store"
)

// ReplayRunResult holds the replay result for a single run.
type ReplayRunResult struct {
	RunID         string `json:"run_id"`
	Model         string `json:"model"`
	Seed          uint64 `json:"seed"`
	StoredDigest  string `json:"stored_digest"`
	ReplayDigest  string `json:"replay_digest"`
	ConfigMatch   bool   `json:"config_match"`
	Deterministic bool   `json:"deterministic"`
}

// ReplayResult holds the overall replay result.
type ReplayResult struct {
	Runs             []ReplayRunResult `json:"runs"`
	TotalRuns        int               `json:"total_runs"`
	AllDeterministic bool              `json:"all_deterministic"`
}

// NewReplayCommand creates the replay command.
func NewReplayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "replay [run-id]",
		Short: "Re-simulate stored runs and verify determinism",
		Long: `Re-simulate stored runs from their stored configuration and seed, and
compare the table digest with the stored one.

Without a run id every stored run is replayed.

Exit codes:
  0 - All replays reproduced their stored tables
  1 - Determinism verification failed (digest or config hash differs)
  2 - Command error (database not found, unknown run, etc.)

Examples:
  camod replay --db ./camod.db
  camod replay 0190a1b2-... --db ./camod.db
  camod replay --db ./camod.db --format json`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReplay(opts, args, cmd)
		},
	}
	addDatabaseFlag(cmd, opts)

	return cmd
}

func runReplay(opts *StoreOptions, args []string, cmd *cobra.Command) error {
	ctx := commandContext(cmd)
	formatter := opts.formatter(cmd)

	st, err := opts.openStore(formatter)
	if err != nil {
		return err
	}
	defer closeStore(st)

	var recs []store.RunRecord
	if len(args) == 1 {
		rec, err := getRun(cmd, formatter, st, args[0])
		if err != nil {
			return err
		}
		recs = []store.RunRecord{rec}
	} else {
		recs, err = st.ListRuns(ctx)
		if err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeStore, "failed to list runs", err)
		}
	}

	result := ReplayResult{
		Runs:             make([]ReplayRunResult, 0, len(recs)),
		TotalRuns:        len(recs),
		AllDeterministic: true,
	}

	if len(recs) == 0 && !formatter.IsJSON() {
		fmt.Fprintln(formatter.Writer, "No runs found in database.")
		return nil
	}

	for _, rec := range recs {
		formatter.VerboseLog("Replaying %s (model %s, seed %d)", rec.ID, rec.Model, rec.Seed)
		runResult, err := replayRun(ctx, opts, rec)
		if err != nil {
			exitCode, code := classifyRunError(err)
			return formatter.Fail(exitCode, code, fmt.Sprintf("failed to replay run %s", rec.ID), err)
		}
		result.Runs = append(result.Runs, runResult)
		if !runResult.Deterministic {
			result.AllDeterministic = false
		}
	}

	if formatter.IsJSON() {
		return outputReplayJSON(formatter, result)
	}
	return outputReplayText(formatter, result)
}

// replayRun re-simulates rec from its stored configuration.
func replayRun(ctx context.Context, opts *StoreOptions, rec store.RunRecord) (ReplayRunResult, error) {
	run, err := decodeStoredRun(rec)
	if err != nil {
		return ReplayRunResult{}, err
	}

	cfgHash, err := canon.RunConfigHash(run)
	if err != nil {
		return ReplayRunResult{}, err
	}

	cfg, err := run.EngineConfig(opts.registry())
	if err != nil {
		return ReplayRunResult{}, err
	}

	eng := engine.New(engine.WithRunIDGenerator(engine.NewFixedGenerator(rec.ID)))
	res, err := eng.Run(ctx, cfg)
	if err != nil {
		return ReplayRunResult{}, err
	}

	digest, err := canon.TableDigest(res.Table)
	if err != nil {
		return ReplayRunResult{}, err
	}

	configMatch := cfgHash == rec.ConfigHash
	return ReplayRunResult{
		RunID:         rec.ID,
		Model:         rec.Model,
		Seed:          run.Seed,
		StoredDigest:  rec.TableHash,
		ReplayDigest:  digest,
		ConfigMatch:   configMatch,
		Deterministic: configMatch && digest == rec.TableHash,
	}, nil
}

func outputReplayJSON(f *OutputFormatter, result ReplayResult) error {
	response := CLIResponse{Status: "ok", Data: result}
	if !result.AllDeterministic {
		response.Status = "error"
		response.Error = &CLIError{
			Code:    ErrCodeNondeterministic,
			Message: "replay produced a different table",
		}
	}

	if err := f.encode(response); err != nil {
		return err
	}

	if !result.AllDeterministic {
		return NewExitError(ExitFailure, "determinism verification failed")
	}
	return nil
}

func outputReplayText(f *OutputFormatter, result ReplayResult) error {
	w := f.Writer

	fmt.Fprintf(w, "Replayed %d run(s)\n\n", result.TotalRuns)
	for _, r := range result.Runs {
		status := "✓"
		if !r.Deterministic {
			status = "✗"
		}
		fmt.Fprintf(w, "%s %s (model %s, seed %d)\n", status, r.RunID, r.Model, r.Seed)
		if !r.ConfigMatch {
			fmt.Fprintln(w, "  stored config does not hash to the recorded config hash")
		}
		if r.ReplayDigest != r.StoredDigest {
			fmt.Fprintf(w, "  stored: %s\n", r.StoredDigest)
			fmt.Fprintf(w, "  replay: %s\n", r.ReplayDigest)
		}
	}
	fmt.Fprintln(w)

	if !result.AllDeterministic {
		fmt.Fprintln(w, "✗ Determinism verification FAILED")
		return NewExitError(ExitFailure, "determinism verification failed")
	}

	fmt.Fprintln(w, "✓ All runs deterministic")
	return nil
}
