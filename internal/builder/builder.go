package builder

import (
	"sort"

	"github.com/roach88/parsurf/internal/circuit"
	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/key"
	"github.com/roach88/parsurf/internal/pauli"
	"github.com/roach88/parsurf/internal/tracker"
)

// Product maps each qubit of a Pauli product to its basis.
type Product map[coord.Coord]pauli.Basis

// Uniform returns the product of the same Pauli on every qubit.
func Uniform(b pauli.Basis, qubits ...coord.Coord) Product {
	p := make(Product, len(qubits))
	for _, q := range qubits {
		p[q] = b
	}
	return p
}

// Mark is a position in the circuit that a REPEAT block can start from.
type Mark struct {
	pos int
}

// Builder owns the qubit table, circuit and tracker of one construction.
type Builder struct {
	qubits  []coord.Coord
	q2i     map[coord.Coord]int
	circuit *circuit.Circuit
	tracker *tracker.Tracker
}

// ForQubits creates a builder over the given qubits. Indices are assigned in
// (X, Y) order and announced with QUBIT_COORDS.
func ForQubits(qubits []coord.Coord) *Builder {
	sorted := coord.Unique(qubits)
	b := &Builder{
		qubits:  sorted,
		q2i:     make(map[coord.Coord]int, len(sorted)),
		circuit: circuit.New(),
		tracker: tracker.New(),
	}
	for i, q := range sorted {
		b.q2i[q] = i
		b.circuit.Append(circuit.Instruction{
			Name:    "QUBIT_COORDS",
			Args:    []float64{float64(q.X), float64(q.Y)},
			Targets: []circuit.Target{circuit.Qubit(i)},
		})
	}
	return b
}

// Circuit returns the circuit built so far.
func (b *Builder) Circuit() *circuit.Circuit {
	return b.circuit
}

// Tracker returns the measurement tracker.
func (b *Builder) Tracker() *tracker.Tracker {
	return b.tracker
}

// NumQubits returns the size of the qubit table.
func (b *Builder) NumQubits() int {
	return len(b.qubits)
}

// Qubits returns the known qubits in index order.
func (b *Builder) Qubits() []coord.Coord {
	return append([]coord.Coord(nil), b.qubits...)
}

// QubitIndex returns the index assigned to q.
func (b *Builder) QubitIndex(q coord.Coord) (int, bool) {
	i, ok := b.q2i[q]
	return i, ok
}

func (b *Builder) index(q coord.Coord) (int, error) {
	i, ok := b.q2i[q]
	if !ok {
		return 0, &UnknownQubitError{Qubit: q}
	}
	return i, nil
}

// sortedIndices maps qubits to indices in ascending index order, keeping the
// coordinates aligned with them.
func (b *Builder) sortedIndices(qubits []coord.Coord) ([]int, []coord.Coord, error) {
	qs := append([]coord.Coord(nil), qubits...)
	for _, q := range qs {
		if _, ok := b.q2i[q]; !ok {
			return nil, nil, &UnknownQubitError{Qubit: q}
		}
	}
	sort.Slice(qs, func(i, j int) bool { return b.q2i[qs[i]] < b.q2i[qs[j]] })
	indices := make([]int, len(qs))
	for i, q := range qs {
		indices[i] = b.q2i[q]
	}
	return indices, qs, nil
}

// Gate appends a reset or unitary instruction. Single-qubit targets are
// emitted in index order; two-qubit gates keep their pairing order.
func (b *Builder) Gate(name string, qubits []coord.Coord) error {
	info, ok := circuit.Gate(name)
	if !ok {
		return &InvalidGateError{Name: name, Reason: "unknown instruction"}
	}
	if len(qubits) == 0 {
		return nil
	}

	var targets []circuit.Target
	switch info.Kind {
	case circuit.Reset, circuit.Unitary1:
		indices, _, err := b.sortedIndices(qubits)
		if err != nil {
			return err
		}
		for _, i := range indices {
			targets = append(targets, circuit.Qubit(i))
		}
	case circuit.Unitary2:
		if len(qubits)%2 != 0 {
			return &InvalidGateError{Name: name, Reason: "two-qubit gate needs an even number of targets"}
		}
		for _, q := range qubits {
			i, err := b.index(q)
			if err != nil {
				return err
			}
			targets = append(targets, circuit.Qubit(i))
		}
	default:
		return &InvalidGateError{Name: name, Reason: "not a reset or unitary gate"}
	}

	b.circuit.Append(circuit.Instruction{Name: info.Name, Targets: targets})
	return nil
}

// Reset resets qubits into the +1 eigenstate of basis.
func (b *Builder) Reset(basis pauli.Basis, qubits []coord.Coord) error {
	if !basis.Valid() {
		return &pauli.InvalidBasisError{Value: basis.String()}
	}
	return b.Gate(circuit.ResetName(basis), qubits)
}

// MeasurePauliProduct measures the product p with one MPP target and binds the
// outcome to (k, layer). An empty product emits nothing and binds nothing.
func (b *Builder) MeasurePauliProduct(p Product, k key.Key, layer int) error {
	if len(p) == 0 {
		return nil
	}
	lk := key.L(k, layer)
	if b.tracker.Has(lk) {
		return &tracker.DuplicateKeyError{Key: lk}
	}

	qubits := make([]coord.Coord, 0, len(p))
	for q, basis := range p {
		if !basis.Valid() {
			return &pauli.InvalidBasisError{Value: basis.String()}
		}
		qubits = append(qubits, q)
	}
	indices, qubits, err := b.sortedIndices(qubits)
	if err != nil {
		return err
	}

	terms := make([]circuit.Target, len(indices))
	for i, idx := range indices {
		terms[i] = circuit.PauliOn(p[qubits[i]], idx)
	}
	b.circuit.Append(circuit.Instruction{Name: "MPP", Targets: circuit.Product(terms...)})
	return b.tracker.Bind(lk, b.tracker.RecordProduct(qubits...))
}

// Measure measures each qubit in basis and binds each outcome individually to
// (keyFn(q), layer). A nil keyFn names each outcome after its qubit.
func (b *Builder) Measure(qubits []coord.Coord, basis pauli.Basis, layer int, keyFn func(coord.Coord) key.Key) error {
	if !basis.Valid() {
		return &pauli.InvalidBasisError{Value: basis.String()}
	}
	if len(qubits) == 0 {
		return nil
	}
	if keyFn == nil {
		keyFn = key.At
	}

	indices, qubits, err := b.sortedIndices(qubits)
	if err != nil {
		return err
	}
	keys := make([]key.Layered, len(qubits))
	seen := make(map[key.Layered]bool, len(qubits))
	for i, q := range qubits {
		keys[i] = key.L(keyFn(q), layer)
		if seen[keys[i]] || b.tracker.Has(keys[i]) {
			return &tracker.DuplicateKeyError{Key: keys[i]}
		}
		seen[keys[i]] = true
	}

	targets := make([]circuit.Target, len(indices))
	for i, idx := range indices {
		targets[i] = circuit.Qubit(idx)
	}
	b.circuit.Append(circuit.Instruction{Name: circuit.MeasureName(basis), Targets: targets})

	ev := b.tracker.Record(qubits...)
	for i, k := range keys {
		if err := b.tracker.Bind(k, ev, i); err != nil {
			return err
		}
	}
	return nil
}

// ClassicalPaulis applies the Pauli for basis to every target, conditioned on
// the parity of controls. Controls are resolved immediately. Targets are
// emitted in qubit index order.
func (b *Builder) ClassicalPaulis(controls []key.Layered, targets []coord.Coord, basis pauli.Basis) error {
	if !basis.Valid() {
		return &pauli.InvalidBasisError{Value: basis.String()}
	}
	recs, err := b.tracker.Resolve(controls)
	if err != nil {
		return err
	}
	if len(targets) == 0 || len(recs) == 0 {
		return nil
	}

	indices, _, err := b.sortedIndices(targets)
	if err != nil {
		return err
	}
	var ts []circuit.Target
	for _, idx := range indices {
		for _, r := range recs {
			ts = append(ts, circuit.Rec(r), circuit.Qubit(idx))
		}
	}
	b.circuit.Append(circuit.Instruction{Name: circuit.ControlledName(basis), Targets: ts})
	return nil
}

// DeclareGroup defines (k, layer) as the parity of constituents.
func (b *Builder) DeclareGroup(k key.Key, layer int, constituents []key.Layered) error {
	return b.tracker.DefineGroup(key.L(k, layer), constituents)
}

// RecordTargets resolves keys to record offsets against the current circuit.
func (b *Builder) RecordTargets(keys []key.Layered) ([]int, error) {
	return b.tracker.Resolve(keys)
}

// Detector declares a detector over keys at pos. With ignoreMissing, keys that
// were never defined are dropped instead of failing.
func (b *Builder) Detector(keys []key.Layered, pos coord.Coord, ignoreMissing bool) error {
	if ignoreMissing {
		keys = b.known(keys)
	}
	recs, err := b.tracker.Resolve(keys)
	if err != nil {
		return err
	}
	b.circuit.Append(circuit.Instruction{
		Name:    "DETECTOR",
		Args:    []float64{float64(pos.X), float64(pos.Y), 0},
		Targets: recTargets(recs),
	})
	return nil
}

// ObservableInclude adds keys into logical observable index. Repeated calls
// for one index accumulate. Nothing is emitted for an empty key set.
func (b *Builder) ObservableInclude(keys []key.Layered, index int) error {
	recs, err := b.tracker.Resolve(keys)
	if err != nil {
		return err
	}
	if len(recs) == 0 {
		return nil
	}
	b.circuit.Append(circuit.Instruction{
		Name:    "OBSERVABLE_INCLUDE",
		Args:    []float64{float64(index)},
		Targets: recTargets(recs),
	})
	return nil
}

// Tick marks the end of a moment.
func (b *Builder) Tick() {
	b.circuit.Append(circuit.Instruction{Name: "TICK"})
}

// ShiftCoords advances the time coordinate used by later detectors.
func (b *Builder) ShiftCoords(dt int) {
	b.circuit.Append(circuit.Instruction{Name: "SHIFT_COORDS", Args: []float64{0, 0, float64(dt)}})
}

// Mark records the current end of the circuit as the start of a block that
// may later be repeated.
func (b *Builder) Mark() Mark {
	return Mark{pos: b.circuit.Mark()}
}

// RepeatSince wraps everything emitted after m into a block run n times.
// The block must have the shape of one steady-state round: each iteration
// then reaches back by the same offsets into the iteration before it. Callers
// mark the start of every round; a block whose measurement count differs from
// the round marked before it fails with circuit.RepeatSizeError.
func (b *Builder) RepeatSince(m Mark, n int) error {
	return b.circuit.RepeatSince(m.pos, n)
}

func (b *Builder) known(keys []key.Layered) []key.Layered {
	out := make([]key.Layered, 0, len(keys))
	for _, k := range keys {
		if b.tracker.Has(k) {
			out = append(out, k)
		}
	}
	return out
}

func recTargets(recs []int) []circuit.Target {
	sorted := append([]int(nil), recs...)
	sort.Ints(sorted)
	out := make([]circuit.Target, len(sorted))
	for i, r := range sorted {
		out[i] = circuit.Rec(r)
	}
	return out
}
