package decompose

import (
	"github.com/pkg/errors"

	"github.com/roach88/parsurf/internal/builder"
	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/key"
	"github.com/roach88/parsurf/internal/layout"
	"github.com/roach88/parsurf/internal/pauli"
)

// Chao stage names, in schedule order.
const (
	ChaoR    Stage = "R"
	ChaoP1a  Stage = "P1_a"
	ChaoP1b  Stage = "P1_b"
	ChaoP1c  Stage = "P1_c"
	ChaoP2a  Stage = "P2_a"
	ChaoP2b  Stage = "P2_b"
	ChaoP3a  Stage = "P3_a"
	ChaoP3b  Stage = "P3_b"
	ChaoM1a  Stage = "M1_a"
	ChaoM1b  Stage = "M1_b"
	ChaoR3   Stage = "R3"
	ChaoP4a  Stage = "P4_a"
	ChaoP4b  Stage = "P4_b"
	ChaoP5a  Stage = "P5_a"
	ChaoP5b  Stage = "P5_b"
	ChaoP6a  Stage = "P6_a"
	ChaoP6b  Stage = "P6_b"
	ChaoM2a  Stage = "M2_a"
	ChaoM2b  Stage = "M2_b"
	ChaoDone Stage = "C"
)

// Chao decomposes a four-body check by walking a single measurement qubit
// along the data qubits, with a second measurement qubit carrying the parity
// across the mid-cycle reset. Every byproduct is corrected with classical
// feedback.
type Chao struct {
	script
	r Region
}

// ChaoRegion maps a tile onto the Chao region layout. The walk visits the
// tile's corners in a, c, b, d order, m1 sits on the center and m2 one step to
// its right.
func ChaoRegion(t layout.Tile) Region {
	return Region{
		A: t.A, B: t.C, C: t.B, D: t.D,
		M1:    coord.Some(t.Center),
		M2:    coord.Some(t.Center.Add(coord.C(1, 0))),
		Key:   key.At(t.Center),
		Basis: t.Basis,
	}
}

// ChaoMeasureQubits returns both measurement qubits of a tile under the Chao
// layout. Unlike the pentagonal layout they exist even on the boundary.
func ChaoMeasureQubits(t layout.Tile) []coord.Coord {
	r := ChaoRegion(t)
	return coord.Present(r.M1, r.M2)
}

// NewChao returns a stepper for r. Both measurement qubits must be present.
func NewChao(b *builder.Builder, r Region) (*Chao, error) {
	if err := pauli.RequireCheck(r.Basis); err != nil {
		return nil, err
	}
	m1, ok1 := r.M1.Get()
	m2, ok2 := r.M2.Get()
	if !ok1 || !ok2 {
		return nil, errors.Errorf("chao region %s needs both measurement qubits", r.Key)
	}

	c := &Chao{r: r}
	o := ops{b: b}
	bas := r.Basis
	opp := bas.Opposite()
	m1k, m2k := key.At(m1), key.At(m2)
	pairKey := func(tag string, q coord.Opt) key.Key { return key.Of(tag, key.Opt(q), m1k) }
	bridgeKey := func(tag string) key.Key { return key.Of(tag, m1k, m2k) }
	anc := func(tag string, q key.Key) func(coord.Coord) key.Key {
		return func(coord.Coord) key.Key { return key.Of(tag, q) }
	}
	at := func(k key.Key, layer int) []key.Layered { return []key.Layered{key.L(k, layer)} }

	// pair measures one data qubit jointly with m1.
	pair := func(tag string, q coord.Opt) func(int) error {
		return func(layer int) error {
			return o.product(bas, append(coord.Present(q), m1), pairKey(tag, q), layer)
		}
	}

	c.steps = []step{
		{ChaoR, func(int) error { return b.Reset(opp, []coord.Coord{m1}) }},

		{ChaoP1a, pair("a_m1", r.A)},
		{ChaoP1b, func(layer int) error {
			return o.feedback(at(pairKey("a_m1", r.A), layer), []coord.Coord{m1}, opp)
		}},
		{ChaoP1c, func(int) error { return b.Reset(bas, []coord.Coord{m2}) }},
		{ChaoP2a, func(layer int) error {
			return o.product(opp, []coord.Coord{m1, m2}, bridgeKey("m1_m2_1"), layer)
		}},
		{ChaoP2b, func(layer int) error {
			return o.feedback(at(bridgeKey("m1_m2_1"), layer), coord.Present(r.A, r.M1), bas)
		}},
		{ChaoP3a, pair("b_m1", r.B)},
		{ChaoP3b, func(layer int) error {
			return o.feedback(at(pairKey("b_m1", r.B), layer), []coord.Coord{m1, m2}, opp)
		}},

		{ChaoM1a, func(layer int) error {
			return b.Measure([]coord.Coord{m1}, opp, layer, anc("anc1", m1k))
		}},
		{ChaoM1b, func(layer int) error {
			return o.feedback(at(key.Of("anc1", m1k), layer), coord.Present(r.B), bas)
		}},
		{ChaoR3, func(int) error { return b.Reset(opp, []coord.Coord{m1}) }},

		{ChaoP4a, pair("c_m1", r.C)},
		{ChaoP4b, func(layer int) error {
			return o.feedback(at(pairKey("c_m1", r.C), layer), []coord.Coord{m1}, opp)
		}},
		{ChaoP5a, func(layer int) error {
			return o.product(opp, []coord.Coord{m1, m2}, bridgeKey("m1_m2_2"), layer)
		}},
		{ChaoP5b, func(layer int) error {
			return o.feedback(at(bridgeKey("m1_m2_2"), layer), coord.Present(r.C, r.M1), bas)
		}},
		{ChaoP6a, pair("d_m1", r.D)},
		{ChaoP6b, func(layer int) error {
			return b.Measure([]coord.Coord{m2}, bas, layer, anc("anc2", m2k))
		}},

		{ChaoM2a, func(layer int) error {
			return b.Measure([]coord.Coord{m1}, opp, layer, anc("anc2", m1k))
		}},
		{ChaoM2b, func(layer int) error {
			return o.feedback(at(key.Of("anc2", m1k), layer), coord.Present(r.D), bas)
		}},
		{ChaoDone, func(layer int) error {
			return o.group(r.Key, layer, []key.Layered{
				key.L(pairKey("d_m1", r.D), layer),
				key.L(key.Of("anc2", m2k), layer),
			})
		}},
	}
	return c, nil
}
