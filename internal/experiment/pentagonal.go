package experiment

import (
	"github.com/roach88/parsurf/internal/builder"
	"github.com/roach88/parsurf/internal/circuit"
	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/decompose"
	"github.com/roach88/parsurf/internal/key"
	"github.com/roach88/parsurf/internal/layout"
	"github.com/roach88/parsurf/internal/pauli"
)

// Pentagonal builds a memory experiment where every check is decomposed
// pentagonally. rounds counts how often each measurement qubit is measured,
// ignoring the two-body products. Without feedback no classically controlled
// Paulis are emitted and the detectors and observable absorb the byproducts
// instead. flip changes the order in which each check visits its corners.
//
// X and Z checks run half a cycle apart, so that the X checks' bridge
// products overlap the Z checks' resets and measurements.
func Pentagonal(basis pauli.Basis, rounds, diam int, feedback, flip bool) (*circuit.Circuit, error) {
	if err := validate(basis, rounds, diam); err != nil {
		return nil, err
	}
	tiles := layout.SurfaceCodeTiles(diam, flip)
	m, err := newMemory(basis, tiles, layout.MeasureQubits(tiles), func(b *builder.Builder) decompose.Factory {
		return decompose.PentagonalFactory(b, feedback)
	})
	if err != nil {
		return nil, err
	}
	b := m.b

	if err := m.prepare(); err != nil {
		return nil, err
	}
	if err := m.ls.RunAll(
		decompose.Moment{X: stages(decompose.StageReset)},
		decompose.Moment{X: stages(decompose.StageAB)},
	); err != nil {
		return nil, err
	}

	var obsKeys []key.Key
	if !feedback {
		obsKeys = m.pentagonalObservableFeedback(flip)
	}

	var mark builder.Mark
	for layer := 0; layer < min(3, rounds)-1; layer++ {
		mark = b.Mark()
		if err := m.ls.RunAll(
			decompose.Moment{X: stages(decompose.StageBridge)},
			decompose.Moment{X: stages(decompose.StageCD), Z: stages(decompose.StageReset), ZFirst: true},
			decompose.Moment{X: stages(decompose.StageMeasure, decompose.StageCollect), Z: stages(decompose.StageAB)},
			decompose.Moment{Z: stages(decompose.StageBridge)},
			decompose.Moment{X: stages(decompose.StageReset), Z: stages(decompose.StageCD)},
			decompose.Moment{X: stages(decompose.StageAB), Z: stages(decompose.StageMeasure, decompose.StageCollect), ZFirst: true, NoTick: true},
		); err != nil {
			return nil, err
		}
		for _, t := range m.tiles {
			if t.Basis != basis && layer == 0 {
				continue
			}
			if err := b.Detector(pentagonalDetectorKeys(t, layer, feedback), t.Center, true); err != nil {
				return nil, err
			}
		}
		if err := b.ObservableInclude(layered(obsKeys, layer), 0); err != nil {
			return nil, err
		}
		b.ShiftCoords(1)
		b.Tick()
	}

	last := rounds - 1
	if rounds >= 3 {
		if err := b.RepeatSince(mark, rounds-2); err != nil {
			return nil, err
		}
		last = 2
	}

	if err := m.ls.RunAll(
		decompose.Moment{X: stages(decompose.StageBridge)},
		decompose.Moment{X: stages(decompose.StageCD), Z: stages(decompose.StageReset), ZFirst: true},
		decompose.Moment{X: stages(decompose.StageMeasure, decompose.StageCollect), Z: stages(decompose.StageAB)},
		decompose.Moment{Z: stages(decompose.StageBridge)},
		decompose.Moment{Z: stages(decompose.StageCD)},
		decompose.Moment{Z: stages(decompose.StageMeasure, decompose.StageCollect), NoTick: true},
	); err != nil {
		return nil, err
	}
	if err := b.ObservableInclude(layered(obsKeys, last), 0); err != nil {
		return nil, err
	}

	if err := m.measureData(last); err != nil {
		return nil, err
	}
	for _, t := range m.tiles {
		if err := b.Detector(pentagonalDetectorKeys(t, last, feedback), t.Center, true); err != nil {
			return nil, err
		}
	}
	b.ShiftCoords(1)
	for _, t := range m.tiles {
		if t.Basis != basis {
			continue
		}
		keys := append(pentagonalDetectorKeys(t, last+1, feedback), dataKeys(t, last)...)
		if err := b.Detector(keys, t.Center, true); err != nil {
			return nil, err
		}
	}
	if err := b.ObservableInclude(qubitKeys(m.observableQubits(), last), 0); err != nil {
		return nil, err
	}
	return b.Circuit(), nil
}

// pentagonalDetectorKeys lists every key that may take part in the detector
// of tile t comparing layer with the layer before. Callers drop the keys that
// were never bound.
//
// Without feedback the group outcome of a check is flipped by the bridge and
// measurement-qubit outcomes of the neighbouring checks of the other basis.
// X checks pick those up from the previous layer because they run half a
// cycle ahead.
func pentagonalDetectorKeys(t layout.Tile, layer int, feedback bool) []key.Layered {
	c := t.Center
	keys := []key.Layered{
		key.L(key.At(c), layer),
		key.L(key.At(c), layer-1),
	}
	if feedback {
		return keys
	}

	at := layer
	if t.Basis != pauli.Z {
		at = layer - 1
	}
	f := func(x, y int) coord.Coord {
		e := coord.C(x, y)
		if t.UM1().X != t.UM2().X {
			e = e.Swap()
		}
		return c.Add(e)
	}
	return append(keys,
		key.L(bridge(f(0, -4)), at),
		key.L(bridge(f(0, 4)), at),
		key.L(key.At(f(-1, -4)), at),
		key.L(key.At(f(1, -4)), at),
		key.L(key.At(f(3, 0)), at),
		key.L(key.At(f(-3, 0)), at),
	)
}

// pentagonalObservableFeedback lists the keys that must be folded into the
// observable each layer when byproducts are not corrected.
func (m *memory) pentagonalObservableFeedback(flip bool) []key.Key {
	var out []key.Key
	if !flip {
		for _, t := range m.tiles {
			if t.Basis == m.basis {
				continue
			}
			for _, q := range t.MeasureSet() {
				if r := m.relevant(q); r == 1 || r == -1 {
					out = append(out, key.At(q))
				}
			}
		}
		return out
	}

	for _, t := range m.tiles {
		if t.Basis == m.basis || m.relevant(t.Center) != -2 {
			continue
		}
		out = append(out, bridge(t.Center))
		for _, q := range t.MeasureSet() {
			out = append(out, key.At(q))
		}
	}
	for _, t := range m.tiles {
		if t.Basis != m.basis && m.relevant(t.Center) == 2 {
			out = append(out, bridge(t.Center))
		}
	}
	return out
}
