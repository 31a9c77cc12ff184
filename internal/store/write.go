package store

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/roach88/parsurf/internal/canon"
)

// BeginRun records a new generation run and returns it. The run's seq is one
// past the largest seq in the catalog.
func (s *Store) BeginRun(ctx context.Context, config canon.Object, outDir string) (Run, error) {
	configJSON, err := canon.Marshal(config)
	if err != nil {
		return Run{}, errors.Wrap(err, "begin run")
	}
	run := Run{
		ID:         s.ids.Generate(),
		ConfigHash: canon.HashWithDomain(canon.DomainSweep, configJSON),
		Config:     string(configJSON),
		OutDir:     outDir,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, errors.Wrap(err, "begin run: begin tx")
	}
	defer tx.Rollback() // No-op if committed

	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&run.Seq); err != nil {
		return Run{}, errors.Wrap(err, "begin run: next seq")
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs (id, seq, config_hash, config, out_dir)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Seq, run.ConfigHash, run.Config, run.OutDir)
	if err != nil {
		return Run{}, errors.Wrap(err, "begin run")
	}
	if err := tx.Commit(); err != nil {
		return Run{}, errors.Wrap(err, "begin run: commit")
	}

	s.logger.Info("run started",
		zap.String("run_id", run.ID),
		zap.Int64("seq", run.Seq),
		zap.String("config_hash", run.ConfigHash))
	return run, nil
}

// WriteCircuit inserts a circuit record into the catalog.
// Uses ON CONFLICT DO NOTHING for idempotency: writing the same name and
// content hash again is silently ignored and reports inserted=false.
//
// Note: The run referenced by RunID must exist (foreign key constraint).
func (s *Store) WriteCircuit(ctx context.Context, c Circuit, metadata canon.Object) (inserted bool, err error) {
	metaJSON, err := marshalMetadata(metadata)
	if err != nil {
		return false, errors.Wrapf(err, "write circuit %s", c.Name)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO circuits
		(name, content_hash, run_id, family, basis, diam, rounds, noise, feedback, qubits, detectors, metadata, path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(name, content_hash) DO NOTHING
	`,
		c.Name,
		c.ContentHash,
		c.RunID,
		c.Family,
		c.Basis,
		c.Diam,
		c.Rounds,
		c.Noise,
		boolToInt(c.Feedback),
		c.Qubits,
		c.Detectors,
		metaJSON,
		c.Path,
	)
	if err != nil {
		return false, errors.Wrapf(err, "write circuit %s", c.Name)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return false, errors.Wrapf(err, "write circuit %s: rows affected", c.Name)
	}
	s.logger.Debug("circuit catalogued",
		zap.String("name", c.Name),
		zap.String("content_hash", c.ContentHash),
		zap.Bool("inserted", n > 0))
	return n > 0, nil
}
