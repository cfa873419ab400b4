package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/camod/internal/engine"
)

// ErrNotFound is returned when no run has the requested id.
var ErrNotFound = errors.New("run not found")

const runColumns = `id, seq, model, seed, config, config_hash, table_hash, species,
	row_count, iterations, reactions, crossings, final_time`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (RunRecord, error) {
	var (
		rec        RunRecord
		seed       string
		config     string
		species    string
		iterations int64
		reactions  int64
		crossings  int64
	)
	err := row.Scan(
		&rec.ID, &rec.Seq, &rec.Model, &seed, &config, &rec.ConfigHash, &rec.TableHash, &species,
		&rec.Rows, &iterations, &reactions, &crossings, &rec.Stats.FinalTime,
	)
	if err != nil {
		return RunRecord{}, err
	}

	if rec.Seed, err = parseSeed(seed); err != nil {
		return RunRecord{}, err
	}
	if rec.Species, err = unmarshalSpecies(species); err != nil {
		return RunRecord{}, err
	}
	rec.Config = []byte(config)
	rec.Stats.Iterations = uint64(iterations)
	rec.Stats.Reactions = uint64(reactions)
	rec.Stats.Crossings = uint64(crossings)
	return rec, nil
}

// GetRun returns the record of run id.
// Returns ErrNotFound if no run has the id.
func (s *Store) GetRun(ctx context.Context, id string) (RunRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	rec, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return RunRecord{}, fmt.Errorf("get run %s: %w", id, err)
	}
	return rec, nil
}

// ListRuns returns every stored run in insertion order.
// Returns an empty slice (not nil) if the store is empty.
func (s *Store) ListRuns(ctx context.Context) ([]RunRecord, error) {
	return s.QueryRuns(ctx, nil)
}

// FindByConfigHash returns the runs whose resolved configuration hashes to
// hash, in insertion order.
func (s *Store) FindByConfigHash(ctx context.Context, hash string) ([]RunRecord, error) {
	return s.QueryRuns(ctx, ConfigHashIs(hash))
}

// LoadTable rebuilds the output table of run id.
// Returns ErrNotFound if no run has the id.
func (s *Store) LoadTable(ctx context.Context, id string) (*engine.Table, error) {
	rec, err := s.GetRun(ctx, id)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT row_idx, time, driving, concentrations
		FROM samples
		WHERE run_id = ?
		ORDER BY row_idx ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load table %s: %w", id, err)
	}
	defer rows.Close()

	table := engine.NewTable(rec.Species, rec.Rows)
	n := 0
	for rows.Next() {
		var (
			idx           int
			time, driving float64
			concJSON      string
		)
		if err := rows.Scan(&idx, &time, &driving, &concJSON); err != nil {
			return nil, fmt.Errorf("load table %s: %w", id, err)
		}
		if idx != n {
			return nil, fmt.Errorf("load table %s: missing row %d", id, n)
		}
		conc, err := unmarshalFloats(concJSON)
		if err != nil {
			return nil, fmt.Errorf("load table %s: row %d: %w", id, idx, err)
		}
		if err := table.SetRow(idx, time, driving, conc); err != nil {
			return nil, fmt.Errorf("load table %s: %w", id, err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load table %s: %w", id, err)
	}
	if n != rec.Rows {
		return nil, fmt.Errorf("load table %s: found %d of %d rows", id, n, rec.Rows)
	}
	return table, nil
}
