package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDs hands out predetermined run IDs, then numbered fallbacks.
//
// This enables deterministic catalog contents in tests: the same test with
// the same SequenceIDs produces byte-identical rows.
//
// Thread-safety: SequenceIDs is safe for concurrent use via internal mutex.
type SequenceIDs struct {
	mu  sync.Mutex
	ids []string
	n   int
}

// NewSequenceIDs creates a generator that returns ids in order. Once they are
// used up it returns "run-<n>", counting every call from 1.
func NewSequenceIDs(ids ...string) *SequenceIDs {
	return &SequenceIDs{ids: ids}
}

// Generate returns the next ID.
func (g *SequenceIDs) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	if g.n <= len(g.ids) {
		return g.ids[g.n-1]
	}
	return fmt.Sprintf("run-%d", g.n)
}
