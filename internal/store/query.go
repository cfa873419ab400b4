package store

import (
	"context"
	"fmt"
	"strings"
)

// Predicate filters stored runs.
//
// This is a sealed interface: Equals and And are the only implementations,
// so compileWhere can switch over them exhaustively.
type Predicate interface {
	predicateNode()
}

// Equals matches runs whose column equals Value.
type Equals struct {
	Column string
	Value  any
}

func (Equals) predicateNode() {}

// And matches runs satisfying every predicate. An empty And matches all.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// filterColumns lists the columns a predicate may name.
var filterColumns = map[string]bool{
	"id":          true,
	"model":       true,
	"seed":        true,
	"config_hash": true,
	"table_hash":  true,
}

// ModelIs matches runs of the named model.
func ModelIs(name string) Predicate { return Equals{Column: "model", Value: name} }

// SeedIs matches runs with the given seed.
func SeedIs(seed uint64) Predicate { return Equals{Column: "seed", Value: formatSeed(seed)} }

// ConfigHashIs matches runs whose resolved configuration hashes to hash.
func ConfigHashIs(hash string) Predicate { return Equals{Column: "config_hash", Value: hash} }

// compileWhere turns p into a WHERE fragment with ? placeholders.
// Values are never interpolated.
func compileWhere(p Predicate) (string, []any, error) {
	switch pred := p.(type) {
	case nil:
		return "1 = 1", nil, nil
	case Equals:
		if !filterColumns[pred.Column] {
			return "", nil, fmt.Errorf("cannot filter on column %q", pred.Column)
		}
		return pred.Column + " = ?", []any{pred.Value}, nil
	case And:
		if len(pred.Predicates) == 0 {
			return "1 = 1", nil, nil
		}
		parts := make([]string, 0, len(pred.Predicates))
		var params []any
		for _, sub := range pred.Predicates {
			sql, subParams, err := compileWhere(sub)
			if err != nil {
				return "", nil, err
			}
			parts = append(parts, sql)
			params = append(params, subParams...)
		}
		return strings.Join(parts, " AND "), params, nil
	default:
		return "", nil, fmt.Errorf("unsupported predicate type: %T", p)
	}
}

// compileRunQuery builds the SELECT for QueryRuns. Every query orders by
// insertion sequence with the id as tiebreaker.
func compileRunQuery(p Predicate) (string, []any, error) {
	where, params, err := compileWhere(p)
	if err != nil {
		return "", nil, err
	}
	sql := "SELECT " + runColumns + " FROM runs WHERE " + where +
		" ORDER BY seq ASC, id COLLATE BINARY ASC"
	return sql, params, nil
}

// QueryRuns returns the runs matching p in insertion order. A nil p
// matches every run. Returns an empty slice (not nil) when nothing matches.
func (s *Store) QueryRuns(ctx context.Context, p Predicate) ([]RunRecord, error) {
	query, params, err := compileRunQuery(p)
	if err != nil {
		return nil, fmt.Errorf("compile run query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []RunRecord{}
	for rows.Next() {
		rec, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}
