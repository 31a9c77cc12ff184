package circuit

import (
	"fmt"
	"strconv"

	"github.com/roach88/parsurf/internal/pauli"
)

// TargetKind distinguishes the kinds of instruction targets.
type TargetKind uint8

const (
	// QubitTarget is a bare qubit index.
	QubitTarget TargetKind = iota

	// RecTarget is a measurement record reference, rec[-k].
	RecTarget

	// PauliTarget is a qubit index tagged with a Pauli, as in X5.
	PauliTarget

	// CombinerTarget joins Pauli targets into one product, the '*' in X1*X2.
	CombinerTarget
)

// Target is a single instruction target.
type Target struct {
	Kind  TargetKind
	Value int
	Pauli pauli.Basis
}

// Qubit returns a bare qubit target.
func Qubit(index int) Target {
	return Target{Kind: QubitTarget, Value: index}
}

// Rec returns a measurement record target. offset must be negative.
func Rec(offset int) Target {
	return Target{Kind: RecTarget, Value: offset}
}

// PauliOn returns a Pauli-tagged qubit target.
func PauliOn(b pauli.Basis, index int) Target {
	return Target{Kind: PauliTarget, Value: index, Pauli: b}
}

// Combiner returns the product combiner.
func Combiner() Target {
	return Target{Kind: CombinerTarget}
}

// Product returns the targets of a single Pauli product over terms.
func Product(terms ...Target) []Target {
	out := make([]Target, 0, 2*len(terms))
	for i, t := range terms {
		if i > 0 {
			out = append(out, Combiner())
		}
		out = append(out, t)
	}
	return out
}

// IsQubit reports whether t names a qubit, either bare or Pauli-tagged.
func (t Target) IsQubit() bool {
	return t.Kind == QubitTarget || t.Kind == PauliTarget
}

func (t Target) String() string {
	switch t.Kind {
	case QubitTarget:
		return strconv.Itoa(t.Value)
	case RecTarget:
		return fmt.Sprintf("rec[%d]", t.Value)
	case PauliTarget:
		return t.Pauli.String() + strconv.Itoa(t.Value)
	case CombinerTarget:
		return "*"
	}
	return fmt.Sprintf("Target(%d:%d)", t.Kind, t.Value)
}
