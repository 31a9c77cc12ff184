package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/roach88/parsurf/internal/canon"
)

const circuitColumns = `c.name, c.content_hash, c.run_id, c.family, c.basis, c.diam, c.rounds,
	c.noise, c.feedback, c.qubits, c.detectors, c.metadata, c.path`

// ListCircuits returns the catalogued circuits matching f.
// Results are ordered deterministically: ORDER BY name, then run seq, then
// content hash.
//
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ListCircuits(ctx context.Context, f Filter) ([]Circuit, error) {
	var (
		where []string
		args  []any
	)
	if f.Family != "" {
		where = append(where, "c.family = ?")
		args = append(args, f.Family)
	}
	if f.Basis != "" {
		where = append(where, "c.basis = ?")
		args = append(args, f.Basis)
	}
	if f.Diam != 0 {
		where = append(where, "c.diam = ?")
		args = append(args, f.Diam)
	}
	if f.RunID != "" {
		where = append(where, "c.run_id = ?")
		args = append(args, f.RunID)
	}

	query := `SELECT ` + circuitColumns + ` FROM circuits c JOIN runs r ON c.run_id = r.id`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY c.name COLLATE BINARY ASC, r.seq ASC, c.content_hash COLLATE BINARY ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Wrap(err, "query circuits")
	}
	defer rows.Close()

	circuits := []Circuit{}
	for rows.Next() {
		c, err := scanCircuit(rows)
		if err != nil {
			return nil, err
		}
		circuits = append(circuits, c)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate circuits")
	}
	return circuits, nil
}

// GetCircuit returns the most recently catalogued circuit with the given
// file name. Returns ErrNotFound if there is none.
func (s *Store) GetCircuit(ctx context.Context, name string) (Circuit, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+circuitColumns+`
		FROM circuits c
		JOIN runs r ON c.run_id = r.id
		WHERE c.name = ?
		ORDER BY r.seq DESC
		LIMIT 1
	`, name)
	c, err := scanCircuit(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Circuit{}, errors.Wrapf(ErrNotFound, "circuit %s", name)
	}
	return c, err
}

// MetadataObject returns the decoded metadata object of a circuit.
func (c Circuit) MetadataObject() (canon.Object, error) {
	return unmarshalMetadata(c.Metadata)
}

// ListRuns returns every run ordered by seq.
func (s *Store) ListRuns(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, seq, config_hash, config, out_dir
		FROM runs
		ORDER BY seq ASC
	`)
	if err != nil {
		return nil, errors.Wrap(err, "query runs")
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Seq, &r.ConfigHash, &r.Config, &r.OutDir); err != nil {
			return nil, errors.Wrap(err, "scan run")
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate runs")
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCircuit(row scanner) (Circuit, error) {
	var (
		c        Circuit
		feedback int
	)
	err := row.Scan(
		&c.Name,
		&c.ContentHash,
		&c.RunID,
		&c.Family,
		&c.Basis,
		&c.Diam,
		&c.Rounds,
		&c.Noise,
		&feedback,
		&c.Qubits,
		&c.Detectors,
		&c.Metadata,
		&c.Path,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Circuit{}, err
	}
	if err != nil {
		return Circuit{}, errors.Wrap(err, "scan circuit")
	}
	c.Feedback = feedback != 0
	return c, nil
}
