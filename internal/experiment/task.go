package experiment

import (
	"github.com/pkg/errors"

	"github.com/roach88/parsurf/internal/canon"
	"github.com/roach88/parsurf/internal/circuit"
	"github.com/roach88/parsurf/internal/noise"
	"github.com/roach88/parsurf/internal/pauli"
)

// Task is a circuit ready for sampling together with the metadata that
// identifies it.
type Task struct {
	Circuit  *circuit.Circuit
	Metadata Metadata
}

// NewTask builds the experiment p describes and applies uniform two-body
// measurement noise of strength p.Noise. A noise of zero leaves the circuit
// noiseless.
func NewTask(p Params) (*Task, error) {
	c, err := Circuit(p)
	if err != nil {
		return nil, err
	}
	noisy := c
	if p.Noise > 0 {
		noisy, err = noise.DepolarizingTwoBodyMeasurement(p.Noise).Noisy(c)
		if err != nil {
			return nil, errors.Wrapf(err, "apply noise to %s circuit", p.Family)
		}
	}
	return &Task{
		Circuit: noisy,
		Metadata: Metadata{
			Diam:     p.Diam,
			Rounds:   p.Rounds,
			Basis:    p.Basis,
			Noise:    p.Noise,
			Family:   p.Family,
			Qubits:   c.NumQubits(),
			Feedback: p.Feedback,
		},
	}, nil
}

// PentagonalTask is NewTask for the pentagonal families.
func PentagonalTask(basis pauli.Basis, rounds, diam int, p float64, feedback, flip bool) (*Task, error) {
	family := FamilyPentagonalSharp
	if flip {
		family = FamilyPentagonalSmooth
	}
	return NewTask(Params{Family: family, Basis: basis, Rounds: rounds, Diam: diam, Noise: p, Feedback: feedback})
}

// ChaoTask is NewTask for the Chao family.
func ChaoTask(basis pauli.Basis, rounds, diam int, p float64) (*Task, error) {
	return NewTask(Params{Family: FamilyChao, Basis: basis, Rounds: rounds, Diam: diam, Noise: p})
}

// ShingledPentagonalTask is NewTask for the shingled pentagonal family.
func ShingledPentagonalTask(basis pauli.Basis, rounds, diam int, p float64) (*Task, error) {
	return NewTask(Params{Family: FamilyShingled, Basis: basis, Rounds: rounds, Diam: diam, Noise: p})
}

// Text returns the circuit file contents, newline terminated.
func (t *Task) Text() string {
	return t.Circuit.String() + "\n"
}

// Hash returns the content hash of the circuit text.
func (t *Task) Hash() string {
	return canon.CircuitHash(t.Circuit.String())
}
