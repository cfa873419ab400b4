package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roach88/camod/internal/canon"
	"github.com/roach88/camod/internal/config"
	"github.com/roach88/camod/internal/engine"
	"github.com/roach88/camod/internal/model"
	"github.com/roach88/camod/internal/store"
)

// loadRunFile loads and resolves a run file. Signal files resolve relative
// to the run file's directory.
func loadRunFile(reg *model.Registry, path string) (*config.File, *config.Run, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil, &notFoundError{what: "run file", name: path}
	}
	file, err := config.LoadFile(path)
	if err != nil {
		return nil, nil, err
	}
	run, err := file.Resolve(reg, filepath.Dir(path))
	if err != nil {
		return nil, nil, err
	}
	return file, run, nil
}

// decodeStoredRun parses the configuration stored with a run record.
func decodeStoredRun(rec store.RunRecord) (*config.Run, error) {
	var run config.Run
	if err := json.Unmarshal(rec.Config, &run); err != nil {
		return nil, fmt.Errorf("decode stored config of run %s: %w", rec.ID, err)
	}
	return &run, nil
}

// runRecord builds the store record for a finished run.
func runRecord(run *config.Run, res *engine.Result) (store.RunRecord, error) {
	cfgJSON, err := json.Marshal(run)
	if err != nil {
		return store.RunRecord{}, fmt.Errorf("encode run config: %w", err)
	}
	cfgHash, err := canon.RunConfigHash(run)
	if err != nil {
		return store.RunRecord{}, err
	}
	digest, err := canon.TableDigest(res.Table)
	if err != nil {
		return store.RunRecord{}, err
	}
	return store.RunRecord{
		ID:         res.RunID,
		Model:      res.Model,
		Seed:       res.Seed,
		Config:     cfgJSON,
		ConfigHash: cfgHash,
		TableHash:  digest,
		Species:    res.Table.Species(),
		Rows:       res.Table.Rows(),
		Stats:      res.Stats,
	}, nil
}

// exportMetadata is attached to Arrow exports.
func exportMetadata(rec store.RunRecord) map[string]string {
	return map[string]string{
		"camod.run_id":       rec.ID,
		"camod.model":        rec.Model,
		"camod.seed":         fmt.Sprint(rec.Seed),
		"camod.config_hash":  rec.ConfigHash,
		"camod.table_digest": rec.TableHash,
	}
}

type notFoundError struct {
	what string
	name string
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.what, e.name)
}

// classifyRunError maps a load or run failure to an exit code and CLI error
// code.
func classifyRunError(err error) (exitCode int, code string) {
	var (
		nf      *notFoundError
		loadErr *config.LoadError
	)
	switch {
	case errors.As(err, &nf):
		return ExitCommandError, ErrCodeNotFound
	case errors.As(err, &loadErr):
		return ExitCommandError, ErrCodeLoadFailed
	case engine.IsConfigurationError(err):
		return ExitCommandError, ErrCodeConfiguration
	case engine.IsModelInvariantViolation(err):
		return ExitFailure, ErrCodeRunFailed
	case engine.IsCancelled(err):
		return ExitCommandError, ErrCodeRunFailed
	default:
		return ExitCommandError, ErrCodeGeneric
	}
}
