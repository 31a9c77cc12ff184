package builder

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/key"
	"github.com/roach88/parsurf/internal/pauli"
	"github.com/roach88/parsurf/internal/tracker"
)

var (
	qa = coord.C(0, 0)
	qb = coord.C(4, 0)
	qm = coord.C(1, 2)
)

// body returns the circuit text after the QUBIT_COORDS header.
func body(b *Builder) string {
	lines := strings.Split(b.Circuit().String(), "\n")
	var out []string
	for _, l := range lines {
		if !strings.HasPrefix(l, "QUBIT_COORDS") {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

func TestForQubits_SortsAndAnnounces(t *testing.T) {
	b := ForQubits([]coord.Coord{qb, qm, qa, qm})

	assert.Equal(t, 3, b.NumQubits())
	assert.Equal(t, "QUBIT_COORDS(0, 0) 0\nQUBIT_COORDS(1, 2) 1\nQUBIT_COORDS(4, 0) 2", b.Circuit().String())

	i, ok := b.QubitIndex(qb)
	require.True(t, ok)
	assert.Equal(t, 2, i)
	_, ok = b.QubitIndex(coord.C(9, 9))
	assert.False(t, ok)
}

// =============================================================================
// Gates
// =============================================================================

func TestBuilder_Gate(t *testing.T) {
	b := ForQubits([]coord.Coord{qa, qb, qm})

	require.NoError(t, b.Gate("RZ", []coord.Coord{qb, qa}))
	require.NoError(t, b.Gate("RX", nil))
	require.NoError(t, b.Reset(pauli.X, []coord.Coord{qm}))
	require.NoError(t, b.Gate("CX", []coord.Coord{qb, qa}))

	assert.Equal(t, "R 0 2\nRX 1\nCX 2 0", body(b))
}

func TestBuilder_Gate_Errors(t *testing.T) {
	b := ForQubits([]coord.Coord{qa, qb})

	err := b.Gate("FOO", []coord.Coord{qa})
	assert.True(t, IsInvalidGate(err))

	err = b.Gate("M", []coord.Coord{qa})
	assert.True(t, IsInvalidGate(err), "measurements go through Measure")

	err = b.Gate("CZ", []coord.Coord{qa})
	assert.True(t, IsInvalidGate(err))

	err = b.Gate("H", []coord.Coord{qm})
	assert.True(t, IsUnknownQubit(err))

	err = b.Reset(pauli.Basis('Q'), []coord.Coord{qa})
	assert.True(t, pauli.IsInvalidBasis(err))
}

// =============================================================================
// Measurements
// =============================================================================

func TestBuilder_MeasurePauliProduct(t *testing.T) {
	b := ForQubits([]coord.Coord{qa, qb, qm})

	require.NoError(t, b.MeasurePauliProduct(Uniform(pauli.X, qm, qa), key.Label("a"), 0))
	require.NoError(t, b.MeasurePauliProduct(Product{qb: pauli.Z, qm: pauli.Y}, key.Label("b"), 0))
	require.NoError(t, b.MeasurePauliProduct(Uniform(pauli.X, qb), key.Label("c"), 0))

	assert.Equal(t, "MPP X0*X1 Y1*Z2 X2", body(b))
	assert.Equal(t, 3, b.Tracker().Total())

	recs, err := b.RecordTargets([]key.Layered{key.L(key.Label("a"), 0)})
	require.NoError(t, err)
	assert.Equal(t, []int{-3}, recs)
}

func TestBuilder_MeasurePauliProduct_EmptyDoesNotBind(t *testing.T) {
	b := ForQubits([]coord.Coord{qa})

	require.NoError(t, b.MeasurePauliProduct(Product{}, key.Label("a"), 0))
	assert.Equal(t, "", body(b))
	assert.False(t, b.Tracker().Has(key.L(key.Label("a"), 0)))
}

func TestBuilder_MeasurePauliProduct_Duplicate(t *testing.T) {
	b := ForQubits([]coord.Coord{qa, qb})

	require.NoError(t, b.MeasurePauliProduct(Uniform(pauli.Z, qa, qb), key.Label("a"), 0))
	err := b.MeasurePauliProduct(Uniform(pauli.Z, qa, qb), key.Label("a"), 0)
	require.Error(t, err)
	assert.True(t, tracker.IsDuplicateKey(err))
	assert.Equal(t, "MPP Z0*Z1", body(b), "nothing emitted on failure")
}

func TestBuilder_Measure_BindsEachQubit(t *testing.T) {
	b := ForQubits([]coord.Coord{qa, qb, qm})

	require.NoError(t, b.Measure([]coord.Coord{qb, qa}, pauli.X, 2, nil))
	require.NoError(t, b.Measure([]coord.Coord{qm}, pauli.Z, 2, func(q coord.Coord) key.Key {
		return key.Of("anc", key.At(q))
	}))

	assert.Equal(t, "MX 0 2\nM 1", body(b))

	recs, err := b.RecordTargets([]key.Layered{
		key.L(key.At(qb), 2),
		key.L(key.At(qa), 2),
		key.L(key.Of("anc", key.At(qm)), 2),
	})
	require.NoError(t, err)
	assert.Equal(t, []int{-2, -3, -1}, recs)
}

func TestBuilder_Measure_DuplicateKeyFromKeyFn(t *testing.T) {
	b := ForQubits([]coord.Coord{qa, qb})

	err := b.Measure([]coord.Coord{qa, qb}, pauli.Z, 0, func(coord.Coord) key.Key { return key.Label("same") })
	require.Error(t, err)
	assert.True(t, tracker.IsDuplicateKey(err))
	assert.Equal(t, 0, b.Tracker().Total())
}

// =============================================================================
// Classical feedback, detectors, observables
// =============================================================================

func TestBuilder_ClassicalPaulis(t *testing.T) {
	b := ForQubits([]coord.Coord{qa, qb, qm})
	require.NoError(t, b.MeasurePauliProduct(Uniform(pauli.X, qa, qm), key.Label("a"), 0))
	require.NoError(t, b.MeasurePauliProduct(Uniform(pauli.X, qb, qm), key.Label("b"), 0))

	controls := []key.Layered{key.L(key.Label("a"), 0), key.L(key.Label("b"), 0)}
	require.NoError(t, b.ClassicalPaulis(controls, []coord.Coord{qm, qa}, pauli.Z))
	require.NoError(t, b.ClassicalPaulis(controls, nil, pauli.Z))

	assert.Equal(t, "MPP X0*X1 X1*X2\nCZ rec[-2] 0 rec[-1] 0 rec[-2] 1 rec[-1] 1", body(b))
}

func TestBuilder_ClassicalPaulis_UnknownControl(t *testing.T) {
	b := ForQubits([]coord.Coord{qa})
	err := b.ClassicalPaulis([]key.Layered{key.L(key.Label("nope"), 0)}, []coord.Coord{qa}, pauli.X)
	assert.True(t, tracker.IsUnknownKey(err))
}

func TestBuilder_ClassicalPaulis_UnknownTarget(t *testing.T) {
	b := ForQubits([]coord.Coord{qa, qm})
	require.NoError(t, b.MeasurePauliProduct(Uniform(pauli.X, qa, qm), key.Label("a"), 0))

	err := b.ClassicalPaulis([]key.Layered{key.L(key.Label("a"), 0)}, []coord.Coord{qa, qb}, pauli.X)
	assert.True(t, IsUnknownQubit(err))
	assert.Equal(t, "MPP X0*X1", body(b))
}

func TestBuilder_Detector(t *testing.T) {
	b := ForQubits([]coord.Coord{qa, qb})
	require.NoError(t, b.Measure([]coord.Coord{qa, qb}, pauli.Z, 0, nil))
	require.NoError(t, b.Measure([]coord.Coord{qa, qb}, pauli.Z, 1, nil))

	keys := []key.Layered{key.L(key.At(qa), 1), key.L(key.At(qa), 0), key.L(key.At(qa), -1)}

	err := b.Detector(keys, coord.C(2, 2), false)
	assert.True(t, tracker.IsUnknownKey(err))

	require.NoError(t, b.Detector(keys, coord.C(2, -2), true))
	b.ShiftCoords(1)

	assert.Equal(t, "M 0 1 0 1\nDETECTOR(2, -2, 0) rec[-4] rec[-2]\nSHIFT_COORDS(0, 0, 1)", body(b))
}

func TestBuilder_ObservableInclude(t *testing.T) {
	b := ForQubits([]coord.Coord{qa, qb})
	require.NoError(t, b.Measure([]coord.Coord{qa, qb}, pauli.X, 0, nil))

	require.NoError(t, b.ObservableInclude([]key.Layered{key.L(key.At(qb), 0), key.L(key.At(qa), 0)}, 0))
	require.NoError(t, b.ObservableInclude(nil, 0))
	require.NoError(t, b.ObservableInclude([]key.Layered{key.L(key.At(qb), 0)}, 0))

	assert.Equal(t, "MX 0 1\nOBSERVABLE_INCLUDE(0) rec[-2] rec[-1]\nOBSERVABLE_INCLUDE(0) rec[-1]", body(b))
	assert.Equal(t, 1, b.Circuit().NumObservables())
}

func TestBuilder_DeclareGroup(t *testing.T) {
	b := ForQubits([]coord.Coord{qa, qb, qm})
	require.NoError(t, b.MeasurePauliProduct(Uniform(pauli.X, qa, qm), key.Label("a"), 3))
	require.NoError(t, b.MeasurePauliProduct(Uniform(pauli.X, qb, qm), key.Label("b"), 3))
	require.NoError(t, b.DeclareGroup(key.Label("g"), 3, []key.Layered{
		key.L(key.Label("a"), 3),
		key.L(key.Label("b"), 3),
	}))

	recs, err := b.RecordTargets([]key.Layered{key.L(key.Label("g"), 3)})
	require.NoError(t, err)
	assert.Equal(t, []int{-2, -1}, recs)

	err = b.DeclareGroup(key.Label("g"), 3, nil)
	assert.True(t, tracker.IsDuplicateKey(err))
}

// =============================================================================
// Repetition
// =============================================================================

func TestBuilder_RepeatSince_KeepsOffsetsValid(t *testing.T) {
	b := ForQubits([]coord.Coord{qa})

	require.NoError(t, b.Measure([]coord.Coord{qa}, pauli.Z, 0, nil))
	b.Tick()
	m := b.Mark()
	require.NoError(t, b.Measure([]coord.Coord{qa}, pauli.Z, 1, nil))
	require.NoError(t, b.Detector([]key.Layered{key.L(key.At(qa), 1), key.L(key.At(qa), 0)}, qa, false))
	b.Tick()
	require.NoError(t, b.RepeatSince(m, 5))

	require.NoError(t, b.Measure([]coord.Coord{qa}, pauli.Z, 2, nil))
	require.NoError(t, b.Detector([]key.Layered{key.L(key.At(qa), 2), key.L(key.At(qa), 1)}, qa, false))

	want := "M 0\nTICK\nREPEAT 5 {\n    M 0\n    DETECTOR(0, 0, 0) rec[-2] rec[-1]\n    TICK\n}\nM 0\nDETECTOR(0, 0, 0) rec[-2] rec[-1]"
	assert.Equal(t, want, body(b))
	assert.Equal(t, 7, b.Circuit().NumMeasurements())
}
