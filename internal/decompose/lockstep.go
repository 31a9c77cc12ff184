package decompose

import (
	"github.com/roach88/parsurf/internal/pauli"
)

// Ticker appends a moment boundary.
type Ticker interface {
	Tick()
}

// Moment is one group of stages followed by a round boundary. X stages run
// before Z stages unless ZFirst is set.
type Moment struct {
	X      []Stage
	Z      []Stage
	ZFirst bool

	// NoTick leaves the moment open so annotations can follow before the
	// caller ticks.
	NoTick bool
}

// Lockstep advances basis partitions of steppers in barrier-synchronized
// stages.
type Lockstep struct {
	ticker   Ticker
	x        []Stepper
	z        []Stepper
	advances map[pauli.Basis]int
}

// NewLockstep returns a driver over the X and Z partitions.
func NewLockstep(t Ticker, x, z []Stepper) *Lockstep {
	return &Lockstep{
		ticker:   t,
		x:        x,
		z:        z,
		advances: make(map[pauli.Basis]int),
	}
}

// Advances returns how many stages the partition has been advanced.
func (l *Lockstep) Advances(basis pauli.Basis) int {
	return l.advances[basis]
}

// Step advances every stepper in the partition once. Each must report the
// expected stage; the first that does not aborts with ProtocolDesyncError.
func (l *Lockstep) Step(basis pauli.Basis, expected Stage) error {
	steppers, err := l.partition(basis)
	if err != nil {
		return err
	}
	l.advances[basis]++
	for i, s := range steppers {
		got, err := s.Advance()
		if err != nil {
			return err
		}
		if got != expected {
			return &ProtocolDesyncError{
				Basis:    basis,
				Advance:  l.advances[basis],
				Stepper:  i,
				Expected: expected,
				Got:      got,
			}
		}
	}
	return nil
}

// Run applies one moment of the schedule.
func (l *Lockstep) Run(m Moment) error {
	if m.ZFirst {
		if err := l.steps(pauli.Z, m.Z); err != nil {
			return err
		}
	}
	if err := l.steps(pauli.X, m.X); err != nil {
		return err
	}
	if !m.ZFirst {
		if err := l.steps(pauli.Z, m.Z); err != nil {
			return err
		}
	}
	if !m.NoTick {
		l.ticker.Tick()
	}
	return nil
}

// RunAll applies moments in order.
func (l *Lockstep) RunAll(moments ...Moment) error {
	for _, m := range moments {
		if err := l.Run(m); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lockstep) steps(basis pauli.Basis, stages []Stage) error {
	for _, st := range stages {
		if err := l.Step(basis, st); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lockstep) partition(basis pauli.Basis) ([]Stepper, error) {
	switch basis {
	case pauli.X:
		return l.x, nil
	case pauli.Z:
		return l.z, nil
	}
	return nil, &pauli.InvalidBasisError{Value: basis.String(), Allowed: "XZ"}
}
