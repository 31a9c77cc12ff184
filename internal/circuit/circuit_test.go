package circuit

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/parsurf/internal/pauli"
)

func mpp(products ...[]Target) Instruction {
	var targets []Target
	for _, p := range products {
		targets = append(targets, p...)
	}
	return Instruction{Name: "MPP", Targets: targets}
}

// =============================================================================
// Fusion
// =============================================================================

func TestCircuit_Append_FusesSameNameAndArgs(t *testing.T) {
	c := New()
	c.Append(Instruction{Name: "RX", Targets: []Target{Qubit(1), Qubit(2)}})
	c.Append(Instruction{Name: "RX", Targets: []Target{Qubit(5)}})
	c.Append(Instruction{Name: "R", Targets: []Target{Qubit(0)}})
	c.Append(Instruction{Name: "RZ", Targets: []Target{Qubit(4)}})

	require.Equal(t, 2, c.Len())
	assert.Equal(t, "RX 1 2 5\nR 0 4", c.String())
}

func TestCircuit_Append_DoesNotFuseDifferentArgs(t *testing.T) {
	c := New()
	c.Append(Instruction{Name: "DEPOLARIZE1", Args: []float64{0.001}, Targets: []Target{Qubit(0)}})
	c.Append(Instruction{Name: "DEPOLARIZE1", Args: []float64{0.002}, Targets: []Target{Qubit(1)}})
	c.Append(Instruction{Name: "DEPOLARIZE1", Args: []float64{0.002}, Targets: []Target{Qubit(2)}})

	assert.Equal(t, "DEPOLARIZE1(0.001) 0\nDEPOLARIZE1(0.002) 1 2", c.String())
}

func TestCircuit_Append_AnnotationsNeverFuse(t *testing.T) {
	c := New()
	c.Append(Instruction{Name: "TICK"})
	c.Append(Instruction{Name: "TICK"})
	c.Append(Instruction{Name: "DETECTOR", Args: []float64{2, 2, 0}, Targets: []Target{Rec(-1)}})
	c.Append(Instruction{Name: "DETECTOR", Args: []float64{2, 2, 0}, Targets: []Target{Rec(-2)}})

	assert.Equal(t, 4, c.Len())
	assert.Equal(t, "TICK\nTICK\nDETECTOR(2, 2, 0) rec[-1]\nDETECTOR(2, 2, 0) rec[-2]", c.String())
}

func TestCircuit_Append_DoesNotAliasCallerTargets(t *testing.T) {
	targets := []Target{Qubit(0), Qubit(1)}
	c := New()
	c.Append(Instruction{Name: "H", Targets: targets})
	targets[0] = Qubit(9)

	assert.Equal(t, "H 0 1", c.String())
}

// =============================================================================
// Products
// =============================================================================

func TestInstruction_Products(t *testing.T) {
	in := mpp(
		Product(PauliOn(pauli.X, 0)),
		Product(PauliOn(pauli.X, 2), PauliOn(pauli.X, 6)),
		Product(PauliOn(pauli.Z, 4), PauliOn(pauli.Z, 8)),
	)

	products := in.Products()
	require.Len(t, products, 3)
	assert.Len(t, products[0], 1)
	assert.Equal(t, []Target{PauliOn(pauli.X, 2), PauliOn(pauli.X, 6)}, products[1])
	assert.Equal(t, 3, in.NumMeasurements())

	c := New()
	c.Append(in)
	assert.Equal(t, "MPP X0 X2*X6 Z4*Z8", c.String())
}

func TestInstruction_ClassicallyControlled(t *testing.T) {
	c := New()
	c.Append(Instruction{Name: "CZ", Targets: []Target{Rec(-4), Qubit(0), Rec(-3), Qubit(6)}})
	assert.Equal(t, "CZ rec[-4] 0 rec[-3] 6", c.String())
	assert.Equal(t, 0, c.NumMeasurements())
}

// =============================================================================
// REPEAT
// =============================================================================

func TestCircuit_RepeatSince(t *testing.T) {
	c := New()
	c.Append(Instruction{Name: "R", Targets: []Target{Qubit(0), Qubit(1)}})
	c.Append(Instruction{Name: "TICK"})
	mark := c.Mark()
	c.Append(Instruction{Name: "M", Targets: []Target{Qubit(0)}})
	c.Append(Instruction{Name: "DETECTOR", Args: []float64{0, 0, 0}, Targets: []Target{Rec(-1)}})
	c.Append(Instruction{Name: "TICK"})

	require.NoError(t, c.RepeatSince(mark, 98))
	c.Append(Instruction{Name: "M", Targets: []Target{Qubit(1)}})

	want := "R 0 1\n" +
		"TICK\n" +
		"REPEAT 98 {\n" +
		"    M 0\n" +
		"    DETECTOR(0, 0, 0) rec[-1]\n" +
		"    TICK\n" +
		"}\n" +
		"M 1"
	assert.Equal(t, want, c.String())
	assert.Equal(t, 99, c.NumMeasurements())
	assert.Equal(t, 98, c.NumDetectors())
	assert.Equal(t, 2, c.NumQubits())
}

func TestCircuit_RepeatSince_Once(t *testing.T) {
	c := New()
	mark := c.Mark()
	c.Append(Instruction{Name: "M", Targets: []Target{Qubit(0)}})

	require.NoError(t, c.RepeatSince(mark, 1))
	assert.Equal(t, "M 0", c.String())

	require.Error(t, c.RepeatSince(mark, 0))
	require.Error(t, c.RepeatSince(5, 2))
}

func TestCircuit_RepeatSince_MatchesPreviousBlock(t *testing.T) {
	c := New()
	c.Mark()
	c.Append(Instruction{Name: "M", Targets: []Target{Qubit(0), Qubit(1)}})
	c.Append(Instruction{Name: "TICK"})
	mark := c.Mark()
	c.Append(Instruction{Name: "M", Targets: []Target{Qubit(0), Qubit(1)}})
	c.Append(Instruction{Name: "DETECTOR", Args: []float64{0, 0, 0}, Targets: []Target{Rec(-1), Rec(-3)}})
	c.Append(Instruction{Name: "TICK"})

	require.NoError(t, c.RepeatSince(mark, 4))
	assert.Equal(t, 10, c.NumMeasurements())
}

func TestCircuit_RepeatSince_SizeMismatch(t *testing.T) {
	c := New()
	c.Mark()
	c.Append(Instruction{Name: "M", Targets: []Target{Qubit(0)}})
	c.Append(Instruction{Name: "TICK"})
	mark := c.Mark()
	c.Append(Instruction{Name: "M", Targets: []Target{Qubit(0), Qubit(1)}})
	c.Append(Instruction{Name: "DETECTOR", Args: []float64{0, 0, 0}, Targets: []Target{Rec(-1), Rec(-3)}})
	before := c.String()

	err := c.RepeatSince(mark, 3)
	require.Error(t, err)
	var sizeErr *RepeatSizeError
	require.True(t, errors.As(err, &sizeErr))
	assert.Equal(t, 2, sizeErr.Block)
	assert.Equal(t, 1, sizeErr.Previous)
	assert.Equal(t, before, c.String(), "circuit is unchanged")

	// A single iteration is never checked.
	require.NoError(t, c.RepeatSince(mark, 1))
}

func TestCircuit_Mark_SealsFusion(t *testing.T) {
	c := New()
	c.Append(Instruction{Name: "R", Targets: []Target{Qubit(0)}})
	mark := c.Mark()
	c.Append(Instruction{Name: "R", Targets: []Target{Qubit(1)}})

	require.Equal(t, 2, c.Len())
	require.NoError(t, c.RepeatSince(mark, 3))
	assert.Equal(t, "R 0\nREPEAT 3 {\n    R 1\n}", c.String())
}

func TestCircuit_NestedRepeatIndentation(t *testing.T) {
	inner := New()
	inner.Append(Instruction{Name: "M", Targets: []Target{Qubit(0)}})
	outer := New()
	outer.AppendRepeat(2, inner)
	c := New()
	c.AppendRepeat(3, outer)

	assert.Equal(t, "REPEAT 3 {\n    REPEAT 2 {\n        M 0\n    }\n}", c.String())
	assert.Equal(t, 6, c.NumMeasurements())
}

func TestCircuit_NumObservables(t *testing.T) {
	c := New()
	assert.Equal(t, 0, c.NumObservables())
	c.Append(Instruction{Name: "OBSERVABLE_INCLUDE", Args: []float64{0}, Targets: []Target{Rec(-1)}})
	c.Append(Instruction{Name: "OBSERVABLE_INCLUDE", Args: []float64{2}, Targets: []Target{Rec(-1)}})
	assert.Equal(t, 3, c.NumObservables())
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "0.001", FormatFloat(0.001))
	assert.Equal(t, "-2", FormatFloat(-2))
	assert.Equal(t, "1e-05", FormatFloat(1e-5))
	assert.Equal(t, "0.5", FormatFloat(0.5))
}

func TestGate_Aliases(t *testing.T) {
	info, ok := Gate("RZ")
	require.True(t, ok)
	assert.Equal(t, "R", info.Name)
	assert.Equal(t, Reset, info.Kind)
	assert.Equal(t, pauli.Z, info.Basis)

	_, ok = Gate("FOO")
	assert.False(t, ok)

	assert.Equal(t, "R", ResetName(pauli.Z))
	assert.Equal(t, "RX", ResetName(pauli.X))
	assert.Equal(t, "M", MeasureName(pauli.Z))
	assert.Equal(t, "MY", MeasureName(pauli.Y))
	assert.Equal(t, "CX", ControlledName(pauli.X))
}
