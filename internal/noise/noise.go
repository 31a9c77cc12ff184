// Package noise turns a noiseless circuit into a noisy one.
//
// Noise is inserted per moment, where a moment is the run of instructions
// between two TICKs. Every channel caused by a moment is appended after the
// moment's last instruction and before its TICK, in a fixed order:
// measurement depolarization, two-body product depolarization, reset errors
// (X_ERROR, Y_ERROR, Z_ERROR), then idle depolarization on untouched qubits.
package noise

import (
	"errors"
	"fmt"

	"github.com/roach88/parsurf/internal/circuit"
	"github.com/roach88/parsurf/internal/pauli"
)

// Model holds the strength of each channel. A zero strength disables the
// channel.
type Model struct {
	// Measure is the flip probability attached to every measurement.
	Measure float64

	// After is the depolarizing strength applied to qubits after they are
	// measured or acted on by a gate. Two-body products get DEPOLARIZE2.
	After float64

	// Reset is the probability that a reset lands in the wrong state.
	Reset float64

	// Idle is the depolarizing strength on qubits a moment leaves untouched.
	Idle float64
}

// DepolarizingTwoBodyMeasurement is the uniform model where every channel
// has strength p.
func DepolarizingTwoBodyMeasurement(p float64) Model {
	return Model{Measure: p, After: p, Reset: p, Idle: p}
}

// ProductTooLargeError reports a product measurement the model cannot
// attach two-body noise to.
type ProductTooLargeError struct {
	Qubits int
}

func (e *ProductTooLargeError) Error() string {
	return fmt.Sprintf("noise: product measurement over %d qubits, at most 2 supported", e.Qubits)
}

// IsProductTooLarge returns true if err is a ProductTooLargeError.
func IsProductTooLarge(err error) bool {
	var pe *ProductTooLargeError
	return errors.As(err, &pe)
}

// Noisy returns a noisy copy of c. c is not modified.
func (m Model) Noisy(c *circuit.Circuit) (*circuit.Circuit, error) {
	out := circuit.New()
	if err := m.apply(out, c, c.NumQubits()); err != nil {
		return nil, err
	}
	return out, nil
}

// moment collects what the instructions since the last TICK did.
type moment struct {
	active  bool
	after1  []int
	after2  []int
	resets  map[pauli.Basis][]int
	touched map[int]bool
}

func newMoment() *moment {
	return &moment{resets: make(map[pauli.Basis][]int), touched: make(map[int]bool)}
}

func (mo *moment) touch(qs ...int) {
	mo.active = true
	for _, q := range qs {
		mo.touched[q] = true
	}
}

func (m Model) apply(out, c *circuit.Circuit, numQubits int) error {
	mo := newMoment()
	for _, in := range c.Instructions() {
		info, ok := circuit.Gate(in.Name)
		if !ok {
			return fmt.Errorf("noise: unknown instruction %s", in.Name)
		}

		switch info.Kind {
		case circuit.Block:
			m.flush(out, mo, numQubits)
			mo = newMoment()
			body := circuit.New()
			if err := m.apply(body, in.Body, numQubits); err != nil {
				return err
			}
			out.AppendRepeat(in.Repeat, body)
			continue

		case circuit.Annotation:
			if in.Name == "TICK" {
				m.flush(out, mo, numQubits)
				mo = newMoment()
			}

		case circuit.Reset:
			qs := qubits(in.Targets)
			mo.touch(qs...)
			mo.resets[info.Basis] = append(mo.resets[info.Basis], qs...)

		case circuit.Measurement:
			qs := qubits(in.Targets)
			mo.touch(qs...)
			mo.after1 = append(mo.after1, qs...)
			in = m.withMeasureNoise(in)

		case circuit.ProductMeasurement:
			for _, prod := range in.Products() {
				qs := qubits(prod)
				mo.touch(qs...)
				switch len(qs) {
				case 1:
					mo.after1 = append(mo.after1, qs...)
				case 2:
					mo.after2 = append(mo.after2, qs...)
				default:
					return &ProductTooLargeError{Qubits: len(qs)}
				}
			}
			in = m.withMeasureNoise(in)

		case circuit.Unitary1:
			qs := qubits(in.Targets)
			mo.touch(qs...)
			mo.after1 = append(mo.after1, qs...)

		case circuit.Unitary2:
			// Pairs whose control is a record target are classical feedback
			// and stay noiseless.
			for i := 0; i+1 < len(in.Targets); i += 2 {
				a, b := in.Targets[i], in.Targets[i+1]
				if !a.IsQubit() || !b.IsQubit() {
					mo.active = true
					continue
				}
				mo.touch(a.Value, b.Value)
				mo.after2 = append(mo.after2, a.Value, b.Value)
			}
		}
		out.Append(in)
	}
	m.flush(out, mo, numQubits)
	return nil
}

func (m Model) withMeasureNoise(in circuit.Instruction) circuit.Instruction {
	if m.Measure > 0 && len(in.Args) == 0 {
		in.Args = []float64{m.Measure}
	}
	return in
}

// flush appends the noise a finished moment causes. Moments that did nothing
// but annotate stay noiseless.
func (m Model) flush(out *circuit.Circuit, mo *moment, numQubits int) {
	if !mo.active {
		return
	}
	channel(out, "DEPOLARIZE1", m.After, mo.after1)
	channel(out, "DEPOLARIZE2", m.After, mo.after2)
	channel(out, "X_ERROR", m.Reset, mo.resets[pauli.Z])
	channel(out, "Y_ERROR", m.Reset, mo.resets[pauli.Y])
	channel(out, "Z_ERROR", m.Reset, mo.resets[pauli.X])

	var idle []int
	for q := range numQubits {
		if !mo.touched[q] {
			idle = append(idle, q)
		}
	}
	channel(out, "DEPOLARIZE1", m.Idle, idle)
}

func channel(out *circuit.Circuit, name string, p float64, qs []int) {
	if p <= 0 || len(qs) == 0 {
		return
	}
	targets := make([]circuit.Target, len(qs))
	for i, q := range qs {
		targets[i] = circuit.Qubit(q)
	}
	out.Append(circuit.Instruction{Name: name, Args: []float64{p}, Targets: targets})
}

func qubits(ts []circuit.Target) []int {
	var out []int
	for _, t := range ts {
		if t.IsQubit() {
			out = append(out, t.Value)
		}
	}
	return out
}
