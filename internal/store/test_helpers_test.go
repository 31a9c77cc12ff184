package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/roach88/parsurf/internal/canon"
	"github.com/roach88/parsurf/internal/testutil"
)

// createTestStore creates a new store in a temp directory with predictable
// run IDs.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path, WithIDGenerator(testutil.NewSequenceIDs()))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun starts a run with a minimal config.
func createTestRun(t *testing.T, s *Store) Run {
	t.Helper()
	run, err := s.BeginRun(context.Background(), canon.Object{"diam": []any{3}}, "out")
	if err != nil {
		t.Fatalf("BeginRun() failed: %v", err)
	}
	return run
}

// createTestCircuit creates a circuit record with minimal required fields.
func createTestCircuit(name, hash, runID, family string) Circuit {
	return Circuit{
		Name:        name,
		ContentHash: hash,
		RunID:       runID,
		Family:      family,
		Basis:       "X",
		Diam:        3,
		Rounds:      9,
		Noise:       0.001,
		Qubits:      21,
		Detectors:   72,
		Path:        "out/" + name + ".stim",
	}
}

func testMetadata(family string) canon.Object {
	return canon.Object{"b": "X", "c": family, "d": 3, "p": 0.001, "q": 21, "r": 9}
}
