package decompose

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/parsurf/internal/builder"
	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/key"
	"github.com/roach88/parsurf/internal/pauli"
	"github.com/roach88/parsurf/internal/testutil"
)

var (
	fa  = coord.C(0, 0)
	fb  = coord.C(1, 0)
	fc  = coord.C(2, 0)
	fd  = coord.C(3, 0)
	fm1 = coord.C(0, 1)
	fm2 = coord.C(1, 1)

	regionKey = key.Label("key")
)

// flow says that the input stabilizer, propagated through the circuit, equals
// the output stabilizer times the parity of recs, up to a fixed sign.
type flow struct {
	in   builder.Product
	out  builder.Product
	recs []key.Layered
}

func prod(b pauli.Basis, qs ...coord.Coord) builder.Product {
	return builder.Uniform(b, qs...)
}

func region(basis pauli.Basis, a, b, c, d coord.Opt) Region {
	return Region{
		A: a, B: b, C: c, D: d,
		M1: coord.Some(fm1), M2: coord.Some(fm2),
		Key:   regionKey,
		Basis: basis,
	}
}

// runCycle advances s through one full schedule.
func runCycle(t *testing.T, s interface {
	Stepper
	Stages() []Stage
}) {
	t.Helper()
	for range s.Stages() {
		_, err := s.Advance()
		require.NoError(t, err)
	}
}

// checkFlows simulates the built circuit on every product-state input of the
// data qubits, each in X or Z, with a few measurement seeds per input.
func checkFlows(t *testing.T, b *builder.Builder, data []coord.Coord, flows []flow) {
	t.Helper()
	c := b.Circuit()
	total := c.NumMeasurements()

	indices := func(p builder.Product) map[int]pauli.Basis {
		out := make(map[int]pauli.Basis, len(p))
		for q, basis := range p {
			i, ok := b.QubitIndex(q)
			require.True(t, ok, "unknown qubit %s", q)
			out[i] = basis
		}
		return out
	}

	for fi, f := range flows {
		offsets, err := b.RecordTargets(f.recs)
		require.NoError(t, err)

		var want *bool
		for input := range 1 << len(data) {
			for rep := range uint64(3) {
				s := testutil.NewSim(b.NumQubits(), uint64(input)*31+rep)
				for i, q := range data {
					basis := pauli.Z
					if input>>i&1 == 1 {
						basis = pauli.X
					}
					idx, _ := b.QubitIndex(q)
					s.Reset(basis, idx)
				}

				got := s.Measure(indices(f.in))
				require.NoError(t, s.Run(c))
				if len(f.out) > 0 {
					got = got != s.Measure(indices(f.out))
				}
				rec := s.Record()
				for _, off := range offsets {
					got = got != rec[1+total+off]
				}

				if want == nil {
					want = &got
					continue
				}
				require.Equal(t, *want, got, "flow %d input %04b rep %d", fi, input, rep)
			}
		}
	}
}

// =============================================================================
// Pentagonal
// =============================================================================

func TestPentagonal_Flows_X4_Feedback(t *testing.T) {
	b := builder.ForQubits([]coord.Coord{fa, fb, fc, fd, fm1, fm2})
	p, err := NewPentagonal(b, region(pauli.X, coord.Some(fa), coord.Some(fb), coord.Some(fc), coord.Some(fd)), true)
	require.NoError(t, err)
	runCycle(t, p)

	checkFlows(t, b, []coord.Coord{fa, fb, fc, fd}, []flow{
		{in: prod(pauli.X, fa), out: prod(pauli.X, fa)},
		{in: prod(pauli.X, fb), out: prod(pauli.X, fb)},
		{in: prod(pauli.X, fc), out: prod(pauli.X, fc)},
		{in: prod(pauli.X, fd), out: prod(pauli.X, fd)},
		{in: prod(pauli.Z, fa, fb), out: prod(pauli.Z, fa, fb)},
		{in: prod(pauli.Z, fb, fc), out: prod(pauli.Z, fb, fc)},
		{in: prod(pauli.Z, fc, fd), out: prod(pauli.Z, fc, fd)},
		{in: prod(pauli.X, fa, fb, fc, fd), recs: []key.Layered{key.L(regionKey, 0)}},
	})
}

func TestPentagonal_Flows_X4(t *testing.T) {
	b := builder.ForQubits([]coord.Coord{fa, fb, fc, fd, fm1, fm2})
	p, err := NewPentagonal(b, region(pauli.X, coord.Some(fa), coord.Some(fb), coord.Some(fc), coord.Some(fd)), false)
	require.NoError(t, err)
	runCycle(t, p)

	k1 := key.L(key.At(fm1), 0)
	k2 := key.L(key.At(fm2), 0)
	k3 := key.L(PartKey("|", regionKey), 0)
	checkFlows(t, b, []coord.Coord{fa, fb, fc, fd}, []flow{
		{in: prod(pauli.X, fa), out: prod(pauli.X, fa)},
		{in: prod(pauli.X, fb), out: prod(pauli.X, fb)},
		{in: prod(pauli.X, fc), out: prod(pauli.X, fc)},
		{in: prod(pauli.X, fd), out: prod(pauli.X, fd)},
		{in: prod(pauli.Z, fa, fb), out: prod(pauli.Z, fa, fb), recs: []key.Layered{k3}},
		{in: prod(pauli.Z, fb, fc), out: prod(pauli.Z, fb, fc), recs: []key.Layered{k1, k3}},
		{in: prod(pauli.Z, fc, fd), out: prod(pauli.Z, fc, fd), recs: []key.Layered{k1, k2, k3}},
		{in: prod(pauli.X, fa, fb, fc, fd), recs: []key.Layered{key.L(regionKey, 0)}},
	})
}

func TestPentagonal_Flows_X2_AB(t *testing.T) {
	b := builder.ForQubits([]coord.Coord{fa, fb, fm1, fm2})
	p, err := NewPentagonal(b, region(pauli.X, coord.Some(fa), coord.Some(fb), coord.None(), coord.None()), false)
	require.NoError(t, err)
	runCycle(t, p)

	k3 := key.L(PartKey("|", regionKey), 0)
	checkFlows(t, b, []coord.Coord{fa, fb}, []flow{
		{in: prod(pauli.X, fa), out: prod(pauli.X, fa)},
		{in: prod(pauli.X, fb), out: prod(pauli.X, fb)},
		{in: prod(pauli.Z, fa, fb), out: prod(pauli.Z, fa, fb), recs: []key.Layered{k3}},
		{in: prod(pauli.X, fa, fb), recs: []key.Layered{key.L(regionKey, 0)}},
	})
}

func TestPentagonal_Flows_X2_CD(t *testing.T) {
	b := builder.ForQubits([]coord.Coord{fc, fd, fm1, fm2})
	p, err := NewPentagonal(b, region(pauli.X, coord.None(), coord.None(), coord.Some(fc), coord.Some(fd)), false)
	require.NoError(t, err)
	runCycle(t, p)

	k1 := key.L(key.At(fm1), 0)
	k2 := key.L(key.At(fm2), 0)
	k3 := key.L(PartKey("|", regionKey), 0)
	checkFlows(t, b, []coord.Coord{fc, fd}, []flow{
		{in: prod(pauli.X, fc), out: prod(pauli.X, fc)},
		{in: prod(pauli.X, fd), out: prod(pauli.X, fd)},
		{in: prod(pauli.Z, fc, fd), out: prod(pauli.Z, fc, fd), recs: []key.Layered{k1, k2, k3}},
		{in: prod(pauli.X, fc, fd), recs: []key.Layered{key.L(regionKey, 0)}},
	})
}

func TestPentagonal_Flows_Z2_BC(t *testing.T) {
	b := builder.ForQubits([]coord.Coord{fb, fc, fm1, fm2})
	p, err := NewPentagonal(b, region(pauli.Z, coord.None(), coord.Some(fb), coord.Some(fc), coord.None()), false)
	require.NoError(t, err)
	runCycle(t, p)

	k1 := key.L(key.At(fm1), 0)
	k3 := key.L(PartKey("|", regionKey), 0)
	checkFlows(t, b, []coord.Coord{fb, fc}, []flow{
		{in: prod(pauli.Z, fb), out: prod(pauli.Z, fb)},
		{in: prod(pauli.Z, fc), out: prod(pauli.Z, fc)},
		{in: prod(pauli.X, fb, fc), out: prod(pauli.X, fb, fc), recs: []key.Layered{k1, k3}},
		{in: prod(pauli.Z, fb, fc), recs: []key.Layered{key.L(regionKey, 0)}},
	})
}

func TestShingledPentagonal_Flows_Z4(t *testing.T) {
	b := builder.ForQubits([]coord.Coord{fa, fb, fc, fd, fm1, fm2})
	s, err := NewShingledPentagonal(b, region(pauli.Z, coord.Some(fa), coord.Some(fb), coord.Some(fc), coord.Some(fd)))
	require.NoError(t, err)
	runCycle(t, s)

	k1 := key.L(key.At(fm1), 0)
	k2 := key.L(key.At(fm2), 0)
	k3 := key.L(PartKey("|", regionKey), 0)
	checkFlows(t, b, []coord.Coord{fa, fb, fc, fd}, []flow{
		{in: prod(pauli.Z, fa), out: prod(pauli.Z, fa)},
		{in: prod(pauli.Z, fd), out: prod(pauli.Z, fd)},
		{in: prod(pauli.X, fa, fb), out: prod(pauli.X, fa, fb), recs: []key.Layered{k3}},
		{in: prod(pauli.X, fb, fc), out: prod(pauli.X, fb, fc), recs: []key.Layered{k1, k3}},
		{in: prod(pauli.X, fc, fd), out: prod(pauli.X, fc, fd), recs: []key.Layered{k1, k2, k3}},
		{in: prod(pauli.Z, fa, fb, fc, fd), recs: []key.Layered{key.L(regionKey, 0)}},
	})
}

// =============================================================================
// Chao
// =============================================================================

func TestChao_Flows_X4(t *testing.T) {
	b := builder.ForQubits([]coord.Coord{fa, fb, fc, fd, fm1, fm2})
	c, err := NewChao(b, region(pauli.X, coord.Some(fa), coord.Some(fb), coord.Some(fc), coord.Some(fd)))
	require.NoError(t, err)
	runCycle(t, c)

	checkFlows(t, b, []coord.Coord{fa, fb, fc, fd}, []flow{
		{in: prod(pauli.X, fa), out: prod(pauli.X, fa)},
		{in: prod(pauli.X, fb), out: prod(pauli.X, fb)},
		{in: prod(pauli.X, fc), out: prod(pauli.X, fc)},
		{in: prod(pauli.X, fd), out: prod(pauli.X, fd)},
		{in: prod(pauli.Z, fa, fb), out: prod(pauli.Z, fa, fb)},
		{in: prod(pauli.Z, fb, fc), out: prod(pauli.Z, fb, fc)},
		{in: prod(pauli.Z, fc, fd), out: prod(pauli.Z, fc, fd)},
		{in: prod(pauli.X, fa, fb, fc, fd), recs: []key.Layered{key.L(regionKey, 0)}},
	})
}

func TestChao_Flows_Z4(t *testing.T) {
	b := builder.ForQubits([]coord.Coord{fa, fb, fc, fd, fm1, fm2})
	c, err := NewChao(b, region(pauli.Z, coord.Some(fa), coord.Some(fb), coord.Some(fc), coord.Some(fd)))
	require.NoError(t, err)
	runCycle(t, c)

	checkFlows(t, b, []coord.Coord{fa, fb, fc, fd}, []flow{
		{in: prod(pauli.Z, fa), out: prod(pauli.Z, fa)},
		{in: prod(pauli.Z, fb), out: prod(pauli.Z, fb)},
		{in: prod(pauli.Z, fc), out: prod(pauli.Z, fc)},
		{in: prod(pauli.Z, fd), out: prod(pauli.Z, fd)},
		{in: prod(pauli.X, fa, fb), out: prod(pauli.X, fa, fb)},
		{in: prod(pauli.X, fb, fc), out: prod(pauli.X, fb, fc)},
		{in: prod(pauli.X, fc, fd), out: prod(pauli.X, fc, fd)},
		{in: prod(pauli.Z, fa, fb, fc, fd), recs: []key.Layered{key.L(regionKey, 0)}},
	})
}

func TestChao_Flows_X2(t *testing.T) {
	for name, r := range map[string]Region{
		"ab": region(pauli.X, coord.Some(fa), coord.Some(fb), coord.None(), coord.None()),
		"cd": region(pauli.X, coord.None(), coord.None(), coord.Some(fa), coord.Some(fb)),
	} {
		t.Run(name, func(t *testing.T) {
			b := builder.ForQubits([]coord.Coord{fa, fb, fm1, fm2})
			c, err := NewChao(b, r)
			require.NoError(t, err)
			runCycle(t, c)

			checkFlows(t, b, []coord.Coord{fa, fb}, []flow{
				{in: prod(pauli.X, fa), out: prod(pauli.X, fa)},
				{in: prod(pauli.X, fb), out: prod(pauli.X, fb)},
				{in: prod(pauli.Z, fa, fb), out: prod(pauli.Z, fa, fb)},
				{in: prod(pauli.X, fa, fb), recs: []key.Layered{key.L(regionKey, 0)}},
			})
		})
	}
}

func TestChao_RequiresBothMeasureQubits(t *testing.T) {
	b := builder.ForQubits([]coord.Coord{fa, fm1})
	r := region(pauli.X, coord.Some(fa), coord.None(), coord.None(), coord.None())
	r.M2 = coord.None()
	_, err := NewChao(b, r)
	require.Error(t, err)
}
