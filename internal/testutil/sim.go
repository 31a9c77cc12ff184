package testutil

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand/v2"

	"github.com/roach88/parsurf/internal/circuit"
	"github.com/roach88/parsurf/internal/pauli"
)

// Sim is a dense state-vector simulator for noiseless circuits.
//
// Qubit q is bit q of the amplitude index. Noise channels are ignored, so in
// a correct circuit every detector and observable takes the same value no
// matter which seed picked the random measurement outcomes.
type Sim struct {
	n    int
	amp  []complex128
	rng  *rand.Rand
	rec  []bool
	dets []bool
	obs  map[int]bool
}

// NewSim returns a simulator over n qubits prepared in |0...0>. seed picks the
// outcome of every random measurement.
func NewSim(n int, seed uint64) *Sim {
	amp := make([]complex128, 1<<n)
	amp[0] = 1
	return &Sim{
		n:   n,
		amp: amp,
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		obs: make(map[int]bool),
	}
}

// NumQubits returns the register size.
func (s *Sim) NumQubits() int {
	return s.n
}

// Record returns the measurement record so far. true means the -1 outcome.
func (s *Sim) Record() []bool {
	return append([]bool(nil), s.rec...)
}

// Detectors returns the value of every detector evaluated so far.
func (s *Sim) Detectors() []bool {
	return append([]bool(nil), s.dets...)
}

// Observable returns the accumulated value of logical observable index.
func (s *Sim) Observable(index int) bool {
	return s.obs[index]
}

// Pauli applies the single-qubit Pauli b to q.
func (s *Sim) Pauli(b pauli.Basis, q int) {
	s.applyPauli(s.amp, b, q)
}

// H applies a Hadamard to q.
func (s *Sim) H(q int) {
	bit := 1 << q
	for i := range s.amp {
		if i&bit != 0 {
			continue
		}
		a, b := s.amp[i], s.amp[i|bit]
		s.amp[i] = (a + b) / math.Sqrt2
		s.amp[i|bit] = (a - b) / math.Sqrt2
	}
}

// Measure projects onto an eigenspace of the Pauli product p and appends the
// outcome to the record.
func (s *Sim) Measure(p map[int]pauli.Basis) bool {
	phi := append([]complex128(nil), s.amp...)
	for q, b := range p {
		s.applyPauli(phi, b, q)
	}
	var expect float64
	for i, a := range s.amp {
		expect += real(cmplx.Conj(a) * phi[i])
	}
	p0 := math.Min(1, math.Max(0, (1+expect)/2))

	outcome := s.rng.Float64() >= p0
	sign, norm := complex(1, 0), p0
	if outcome {
		sign, norm = -1, 1-p0
	}
	scale := complex(1/(2*math.Sqrt(norm)), 0)
	for i := range s.amp {
		s.amp[i] = (s.amp[i] + sign*phi[i]) * scale
	}
	s.rec = append(s.rec, outcome)
	return outcome
}

// Reset puts q into the +1 eigenstate of b without touching the record.
func (s *Sim) Reset(b pauli.Basis, q int) {
	n := len(s.rec)
	if s.Measure(map[int]pauli.Basis{q: b}) {
		// Any Pauli anticommuting with b flips the outcome.
		flip := pauli.X
		if b == pauli.X {
			flip = pauli.Z
		}
		s.Pauli(flip, q)
	}
	s.rec = s.rec[:n]
}

// Run executes c, expanding REPEAT blocks.
func (s *Sim) Run(c *circuit.Circuit) error {
	for _, in := range c.Instructions() {
		if err := s.exec(in); err != nil {
			return err
		}
	}
	return nil
}

func (s *Sim) exec(in circuit.Instruction) error {
	info, ok := circuit.Gate(in.Name)
	if !ok {
		return fmt.Errorf("sim: unknown instruction %s", in.Name)
	}
	switch info.Kind {
	case circuit.Block:
		for range in.Repeat {
			if err := s.Run(in.Body); err != nil {
				return err
			}
		}
	case circuit.Annotation:
		return s.annotate(in)
	case circuit.Noise1, circuit.Noise2:
	case circuit.Reset:
		for _, t := range in.Targets {
			s.Reset(info.Basis, t.Value)
		}
	case circuit.Measurement:
		for _, t := range in.Targets {
			s.Measure(map[int]pauli.Basis{t.Value: info.Basis})
			if in.Name == "MR" || in.Name == "MRX" {
				s.Reset(info.Basis, t.Value)
			}
		}
	case circuit.ProductMeasurement:
		for _, prod := range in.Products() {
			p := make(map[int]pauli.Basis, len(prod))
			for _, t := range prod {
				p[t.Value] = t.Pauli
			}
			s.Measure(p)
		}
	case circuit.Unitary1:
		for _, t := range in.Targets {
			if err := s.unitary1(in.Name, t.Value); err != nil {
				return err
			}
		}
	case circuit.Unitary2:
		return s.controlled(in, info)
	}
	return nil
}

func (s *Sim) annotate(in circuit.Instruction) error {
	switch in.Name {
	case "DETECTOR":
		v, err := s.parity(in.Targets)
		if err != nil {
			return err
		}
		s.dets = append(s.dets, v)
	case "OBSERVABLE_INCLUDE":
		v, err := s.parity(in.Targets)
		if err != nil {
			return err
		}
		idx := int(in.Args[0])
		s.obs[idx] = s.obs[idx] != v
	}
	return nil
}

func (s *Sim) unitary1(name string, q int) error {
	switch name {
	case "I":
	case "X":
		s.Pauli(pauli.X, q)
	case "Y":
		s.Pauli(pauli.Y, q)
	case "Z":
		s.Pauli(pauli.Z, q)
	case "H":
		s.H(q)
	default:
		return fmt.Errorf("sim: unsupported gate %s", name)
	}
	return nil
}

// controlled runs CX, CY and CZ pairs, including classically controlled ones
// whose control is a record target.
func (s *Sim) controlled(in circuit.Instruction, info circuit.GateInfo) error {
	if in.Name == "SWAP" {
		return fmt.Errorf("sim: unsupported gate %s", in.Name)
	}
	for i := 0; i+1 < len(in.Targets); i += 2 {
		ctl, tgt := in.Targets[i], in.Targets[i+1]
		switch ctl.Kind {
		case circuit.RecTarget:
			bit, err := s.lookback(ctl.Value)
			if err != nil {
				return err
			}
			if bit {
				s.Pauli(info.Basis, tgt.Value)
			}
		case circuit.QubitTarget:
			phi := append([]complex128(nil), s.amp...)
			s.applyPauli(phi, info.Basis, tgt.Value)
			cb := 1 << ctl.Value
			for j := range s.amp {
				if j&cb != 0 {
					s.amp[j] = phi[j]
				}
			}
		default:
			return fmt.Errorf("sim: bad control target %s", ctl)
		}
	}
	return nil
}

func (s *Sim) parity(targets []circuit.Target) (bool, error) {
	v := false
	for _, t := range targets {
		bit, err := s.lookback(t.Value)
		if err != nil {
			return false, err
		}
		v = v != bit
	}
	return v, nil
}

func (s *Sim) lookback(offset int) (bool, error) {
	i := len(s.rec) + offset
	if offset >= 0 || i < 0 {
		return false, fmt.Errorf("sim: rec[%d] out of range with %d measurements", offset, len(s.rec))
	}
	return s.rec[i], nil
}

func (s *Sim) applyPauli(amp []complex128, b pauli.Basis, q int) {
	bit := 1 << q
	switch b {
	case pauli.X:
		for i := range amp {
			if i&bit == 0 {
				amp[i], amp[i|bit] = amp[i|bit], amp[i]
			}
		}
	case pauli.Z:
		for i := range amp {
			if i&bit != 0 {
				amp[i] = -amp[i]
			}
		}
	case pauli.Y:
		for i := range amp {
			if i&bit == 0 {
				a0, a1 := amp[i], amp[i|bit]
				amp[i] = -1i * a1
				amp[i|bit] = 1i * a0
			}
		}
	}
}
