package tracker

import (
	"fmt"

	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/key"
)

// Event is the handle for one physical measurement instruction.
type Event struct {
	// Qubits are the measured qubits, in emission order.
	Qubits []coord.Coord

	// Pos is the absolute index of the event's first outcome.
	Pos int

	// Outcomes is how many scalar outcomes the event produced.
	Outcomes int
}

// binding is either a set of absolute positions or a group of other keys.
type binding struct {
	positions []int
	group     []key.Layered
}

// Tracker is the append-only log of measurement events.
type Tracker struct {
	total    int
	bindings map[key.Layered]binding
}

// New returns an empty tracker.
func New() *Tracker {
	return &Tracker{bindings: make(map[key.Layered]binding)}
}

// Total returns the number of scalar outcomes recorded so far.
func (t *Tracker) Total() int {
	return t.total
}

// Record logs a measurement producing one outcome per qubit.
func (t *Tracker) Record(qubits ...coord.Coord) Event {
	return t.advance(qubits, len(qubits))
}

// RecordProduct logs a Pauli product measurement, which produces a single
// outcome no matter how many qubits it spans.
func (t *Tracker) RecordProduct(qubits ...coord.Coord) Event {
	return t.advance(qubits, 1)
}

func (t *Tracker) advance(qubits []coord.Coord, outcomes int) Event {
	ev := Event{
		Qubits:   append([]coord.Coord(nil), qubits...),
		Pos:      t.total,
		Outcomes: outcomes,
	}
	t.total += outcomes
	return ev
}

// Bind associates k with outcomes of ev. With no outcome indices every
// outcome of the event is bound. Binding an existing key fails with
// DuplicateKeyError and leaves the tracker unchanged.
func (t *Tracker) Bind(k key.Layered, ev Event, outcomes ...int) error {
	if _, exists := t.bindings[k]; exists {
		return &DuplicateKeyError{Key: k}
	}

	var positions []int
	if len(outcomes) == 0 {
		for i := 0; i < ev.Outcomes; i++ {
			positions = append(positions, ev.Pos+i)
		}
	} else {
		for _, i := range outcomes {
			if i < 0 || i >= ev.Outcomes {
				return fmt.Errorf("bind %s: outcome %d out of range [0, %d)", k, i, ev.Outcomes)
			}
			positions = append(positions, ev.Pos+i)
		}
	}

	t.bindings[k] = binding{positions: positions}
	return nil
}

// DefineGroup defines k as the parity of constituents. Every constituent must
// already be defined.
func (t *Tracker) DefineGroup(k key.Layered, constituents []key.Layered) error {
	if _, exists := t.bindings[k]; exists {
		return &DuplicateKeyError{Key: k}
	}
	for _, c := range constituents {
		if _, ok := t.bindings[c]; !ok {
			return &UnknownKeyError{Key: c}
		}
	}

	t.bindings[k] = binding{group: append([]key.Layered(nil), constituents...)}
	return nil
}

// Has reports whether k is bound or defined as a group.
func (t *Tracker) Has(k key.Layered) bool {
	_, ok := t.bindings[k]
	return ok
}

// Resolve returns record references (negative offsets from the current end of
// the record) for keys, in order.
func (t *Tracker) Resolve(keys []key.Layered) ([]int, error) {
	var out []int
	for _, k := range keys {
		var err error
		out, err = t.resolveInto(out, k)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

func (t *Tracker) resolveInto(out []int, k key.Layered) ([]int, error) {
	b, ok := t.bindings[k]
	if !ok {
		return nil, &UnknownKeyError{Key: k}
	}
	if b.group != nil {
		for _, c := range b.group {
			var err error
			out, err = t.resolveInto(out, c)
			if err != nil {
				return nil, err
			}
		}
		return out, nil
	}
	for _, pos := range b.positions {
		out = append(out, pos-t.total)
	}
	return out, nil
}
