package decompose

import (
	"github.com/roach88/parsurf/internal/builder"
	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/key"
	"github.com/roach88/parsurf/internal/pauli"
)

// Stage names one step of a decomposition schedule.
type Stage string

// Stepper emits one stage per Advance.
type Stepper interface {
	Advance() (Stage, error)
}

// Region is one check region as a stepper sees it: up to four data qubits,
// two measurement qubits, the key its group outcome is stored under, and the
// basis of the check.
type Region struct {
	A, B, C, D coord.Opt
	M1, M2     coord.Opt
	Key        key.Key
	Basis      pauli.Basis
}

// step is one entry of a stepper's schedule.
type step struct {
	stage Stage
	run   func(layer int) error
}

// script is the state machine shared by all families. It holds the index of
// the next stage and the layer the current cycle belongs to.
type script struct {
	steps []step
	next  int
	layer int
}

// Advance runs the next stage and moves on; after the final stage the layer
// is incremented and the schedule restarts.
func (s *script) Advance() (Stage, error) {
	st := s.steps[s.next]
	if err := st.run(s.layer); err != nil {
		return st.stage, err
	}
	s.next++
	if s.next == len(s.steps) {
		s.next = 0
		s.layer++
	}
	return st.stage, nil
}

// Layer returns the layer of the stage that will run next.
func (s *script) Layer() int {
	return s.layer
}

// Stages returns the schedule's stage names in order.
func (s *script) Stages() []Stage {
	out := make([]Stage, len(s.steps))
	for i, st := range s.steps {
		out[i] = st.stage
	}
	return out
}

// ops wraps the builder with the filtering every family needs for
// boundary-truncated regions: products over missing qubits are skipped, and
// feedback only uses controls that were actually measured.
type ops struct {
	b *builder.Builder
}

func (o ops) product(basis pauli.Basis, qubits []coord.Coord, k key.Key, layer int) error {
	return o.b.MeasurePauliProduct(builder.Uniform(basis, qubits...), k, layer)
}

func (o ops) feedback(controls []key.Layered, targets []coord.Coord, basis pauli.Basis) error {
	if len(targets) == 0 {
		return nil
	}
	bound := o.bound(controls)
	if len(bound) == 0 {
		return nil
	}
	return o.b.ClassicalPaulis(bound, targets, basis)
}

func (o ops) group(k key.Key, layer int, constituents []key.Layered) error {
	return o.b.DeclareGroup(k, layer, o.bound(constituents))
}

func (o ops) bound(keys []key.Layered) []key.Layered {
	out := make([]key.Layered, 0, len(keys))
	for _, k := range keys {
		if o.b.Tracker().Has(k) {
			out = append(out, k)
		}
	}
	return out
}
