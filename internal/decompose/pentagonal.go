package decompose

import (
	"github.com/roach88/parsurf/internal/builder"
	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/key"
	"github.com/roach88/parsurf/internal/layout"
	"github.com/roach88/parsurf/internal/pauli"
)

// Pentagonal stage names.
const (
	StageReset   Stage = "R"
	StageAB      Stage = "AB"
	StageBridge  Stage = "|"
	StageCD      Stage = "CD"
	StageMeasure Stage = "M"
	StageCollect Stage = "C"
)

// Shingled stage names that differ from the pentagonal ones. The shingled
// schedule reuses "C" for both the c product and the final collection, so
// StageC and StageCollect compare equal.
const (
	StageA Stage = "A"
	StageB Stage = "B"
	StageC Stage = "C"
	StageD Stage = "D"
)

// Pentagonal decomposes a four-body check using two measurement qubits.
//
// Each data qubit is measured jointly with the measurement qubit on its half
// (a and c with m1, b and d with m2), and one bridge product between m1 and m2
// in the opposite basis stitches the halves together.
type Pentagonal struct {
	script
	r        Region
	feedback bool
}

// PentagonalRegion maps a tile onto the pentagonal region layout.
func PentagonalRegion(t layout.Tile) Region {
	return Region{
		A: t.A, B: t.B, C: t.C, D: t.D,
		M1: t.M1(), M2: t.M2(),
		Key:   key.At(t.Center),
		Basis: t.Basis,
	}
}

// PartKey names the two-body product of one data qubit ("a".."d") or the
// bridge ("|") of the region keyed k.
func PartKey(part string, k key.Key) key.Key {
	return key.Of(part, k)
}

// NewPentagonal returns a stepper for r. With feedback, classically
// controlled corrections make the group key equal the four-body check.
func NewPentagonal(b *builder.Builder, r Region, feedback bool) (*Pentagonal, error) {
	if err := pauli.RequireCheck(r.Basis); err != nil {
		return nil, err
	}
	p := &Pentagonal{r: r, feedback: feedback}
	o := ops{b: b}
	bas := r.Basis
	opp := bas.Opposite()
	m := coord.Present(r.M1, r.M2)

	p.steps = []step{
		{StageReset, func(int) error {
			return b.Reset(opp, m)
		}},
		{StageAB, func(layer int) error {
			if err := o.product(bas, coord.Present(r.A, r.M1), PartKey("a", r.Key), layer); err != nil {
				return err
			}
			return o.product(bas, coord.Present(r.B, r.M2), PartKey("b", r.Key), layer)
		}},
		{StageBridge, func(layer int) error {
			return p.bridge(o, layer)
		}},
		{StageCD, func(layer int) error {
			if err := o.product(bas, coord.Present(r.C, r.M1), PartKey("c", r.Key), layer); err != nil {
				return err
			}
			return o.product(bas, coord.Present(r.D, r.M2), PartKey("d", r.Key), layer)
		}},
		{StageMeasure, func(layer int) error {
			return b.Measure(m, opp, layer, nil)
		}},
		{StageCollect, func(layer int) error {
			return p.collect(o, layer)
		}},
	}
	return p, nil
}

func (p *Pentagonal) bridge(o ops, layer int) error {
	if !coord.AllPresent(p.r.M1, p.r.M2) {
		return nil
	}
	return o.product(p.r.Basis.Opposite(), coord.Present(p.r.M1, p.r.M2), PartKey("|", p.r.Key), layer)
}

// collect defines the group key and, in feedback mode, undoes the byproduct
// Paulis left on the data qubits.
func (p *Pentagonal) collect(o ops, layer int) error {
	r := p.r
	if err := o.group(r.Key, layer, partKeys(r.Key, layer, "a", "b", "c", "d")); err != nil {
		return err
	}
	if !p.feedback {
		return nil
	}
	if err := o.feedback(opt(r.M1, layer), coord.Present(r.C), r.Basis); err != nil {
		return err
	}
	if err := o.feedback(opt(r.M2, layer), coord.Present(r.D), r.Basis); err != nil {
		return err
	}
	return o.feedback(partKeys(r.Key, layer, "|"), coord.Present(r.A, r.C), r.Basis)
}

// ShingledPentagonal is the pentagonal decomposition with every product in a
// stage of its own.
type ShingledPentagonal struct {
	script
	r Region
}

// NewShingledPentagonal returns a stepper for r.
func NewShingledPentagonal(b *builder.Builder, r Region) (*ShingledPentagonal, error) {
	if err := pauli.RequireCheck(r.Basis); err != nil {
		return nil, err
	}
	s := &ShingledPentagonal{r: r}
	o := ops{b: b}
	bas := r.Basis
	opp := bas.Opposite()
	m := coord.Present(r.M1, r.M2)
	half := func(part string, data, anc coord.Opt) func(int) error {
		return func(layer int) error {
			return o.product(bas, coord.Present(data, anc), PartKey(part, r.Key), layer)
		}
	}

	s.steps = []step{
		{StageReset, func(int) error { return b.Reset(opp, m) }},
		{StageA, half("a", r.A, r.M1)},
		{StageB, half("b", r.B, r.M2)},
		{StageBridge, func(layer int) error {
			if !coord.AllPresent(r.M1, r.M2) {
				return nil
			}
			return o.product(opp, m, PartKey("|", r.Key), layer)
		}},
		{StageC, half("c", r.C, r.M1)},
		{StageD, half("d", r.D, r.M2)},
		{StageMeasure, func(layer int) error { return b.Measure(m, opp, layer, nil) }},
		{StageCollect, func(layer int) error {
			return o.group(r.Key, layer, partKeys(r.Key, layer, "a", "b", "c", "d"))
		}},
	}
	return s, nil
}

func partKeys(k key.Key, layer int, parts ...string) []key.Layered {
	out := make([]key.Layered, len(parts))
	for i, part := range parts {
		out[i] = key.L(PartKey(part, k), layer)
	}
	return out
}

// opt returns the layered qubit key of a present coordinate, or nothing.
func opt(q coord.Opt, layer int) []key.Layered {
	c, ok := q.Get()
	if !ok {
		return nil
	}
	return []key.Layered{key.L(key.At(c), layer)}
}
