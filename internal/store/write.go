package store

import (
	"context"
	"fmt"

	"github.com/roach88/camod/internal/engine"
)

// RunRecord is the metadata of a stored run.
type RunRecord struct {
	ID    string `json:"id"`
	Seq   int64  `json:"seq"`
	Model string `json:"model"`
	Seed  uint64 `json:"seed"`

	// Config is the resolved run configuration as JSON.
	Config []byte `json:"-"`

	ConfigHash string       `json:"config_hash"`
	TableHash  string       `json:"table_hash"`
	Species    []string     `json:"species"`
	Rows       int          `json:"rows"`
	Stats      engine.Stats `json:"stats"`
}

// SaveRun stores rec and every row of table in one transaction.
// rec.Seq is ignored; the next sequence number is assigned and returned.
//
// Saving an id that already exists is an error.
func (s *Store) SaveRun(ctx context.Context, rec RunRecord, table *engine.Table) (int64, error) {
	if rec.ID == "" {
		return 0, fmt.Errorf("save run: empty id")
	}
	if table.Rows() != rec.Rows {
		return 0, fmt.Errorf("save run %s: record has %d rows, table has %d", rec.ID, rec.Rows, table.Rows())
	}

	configJSON, err := marshalConfig(rec.Config)
	if err != nil {
		return 0, fmt.Errorf("save run %s: %w", rec.ID, err)
	}
	speciesJSON, err := marshalSpecies(table.Species())
	if err != nil {
		return 0, fmt.Errorf("save run %s: %w", rec.ID, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("save run %s: begin tx: %w", rec.ID, err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("save run %s: next seq: %w", rec.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, model, seed, config, config_hash, table_hash, species,
		 row_count, iterations, reactions, crossings, final_time)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		rec.ID,
		seq,
		rec.Model,
		formatSeed(rec.Seed),
		configJSON,
		rec.ConfigHash,
		rec.TableHash,
		speciesJSON,
		rec.Rows,
		int64(rec.Stats.Iterations),
		int64(rec.Stats.Reactions),
		int64(rec.Stats.Crossings),
		rec.Stats.FinalTime,
	)
	if err != nil {
		return 0, fmt.Errorf("save run %s: %w", rec.ID, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO samples (run_id, row_idx, time, driving, concentrations)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("save run %s: prepare samples: %w", rec.ID, err)
	}
	defer stmt.Close()

	for i := 0; i < table.Rows(); i++ {
		row := table.Row(i)
		conc, err := marshalFloats(row[2:])
		if err != nil {
			return 0, fmt.Errorf("save run %s: row %d: %w", rec.ID, i, err)
		}
		if _, err := stmt.ExecContext(ctx, rec.ID, i, row[0], row[1], conc); err != nil {
			return 0, fmt.Errorf("save run %s: row %d: %w", rec.ID, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("save run %s: commit: %w", rec.ID, err)
	}
	return seq, nil
}

// DeleteRun removes a run and its samples.
// Returns ErrNotFound if no run has the id.
func (s *Store) DeleteRun(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete run %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete run %s: %w", id, ErrNotFound)
	}
	return nil
}
