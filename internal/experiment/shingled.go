package experiment

import (
	"github.com/roach88/parsurf/internal/circuit"
	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/decompose"
	"github.com/roach88/parsurf/internal/key"
	"github.com/roach88/parsurf/internal/layout"
	"github.com/roach88/parsurf/internal/pauli"
)

var shingledMoments = [][]decompose.Stage{
	{decompose.StageReset},
	{decompose.StageA},
	{decompose.StageB},
	{decompose.StageBridge},
	{decompose.StageC},
	{decompose.StageD},
	{decompose.StageMeasure, decompose.StageCollect},
}

// ShingledPentagonal builds a memory experiment using the shingled pentagonal
// decomposition. Every round is written out; there is no REPEAT block.
func ShingledPentagonal(basis pauli.Basis, rounds, diam int) (*circuit.Circuit, error) {
	if err := validate(basis, rounds, diam); err != nil {
		return nil, err
	}
	tiles := layout.SurfaceCodeTiles(diam, false)
	m, err := newMemory(basis, tiles, layout.MeasureQubits(tiles), decompose.ShingledFactory)
	if err != nil {
		return nil, err
	}
	b := m.b
	centers := layout.Centers(tiles)

	// Measurement qubits right next to the observable line anticommute with
	// it through their two-body products.
	var anticommuting []coord.Coord
	for _, q := range layout.MeasureQubits(tiles) {
		if r := m.relevant(q); r == 1 || r == -1 {
			anticommuting = append(anticommuting, q)
		}
	}

	if err := m.prepare(); err != nil {
		return nil, err
	}
	for layer := range rounds {
		for i, st := range shingledMoments {
			mo := decompose.Moment{X: st, Z: st, NoTick: i == len(shingledMoments)-1}
			if err := m.ls.Run(mo); err != nil {
				return nil, err
			}
		}
		for _, t := range tiles {
			if layer == 0 && t.Basis != basis {
				continue
			}
			if err := b.Detector(shingledDetectorKeys(t, layer, centers), t.Center, false); err != nil {
				return nil, err
			}
		}
		b.ShiftCoords(1)
		if err := b.ObservableInclude(qubitKeys(anticommuting, layer), 0); err != nil {
			return nil, err
		}
		if layer < rounds-1 {
			b.Tick()
		}
	}

	if err := m.measureData(rounds - 1); err != nil {
		return nil, err
	}
	for _, t := range tiles {
		if t.Basis != basis {
			continue
		}
		if err := b.Detector(shingledFinalKeys(t, rounds-1, centers), t.Center, false); err != nil {
			return nil, err
		}
	}
	if err := b.ObservableInclude(qubitKeys(m.observableQubits(), rounds-1), 0); err != nil {
		return nil, err
	}
	return b.Circuit(), nil
}

// shingledOffset maps an offset written for a Z check onto tile t. X checks
// are the same picture transposed.
func shingledOffset(t layout.Tile) func(x, y int) coord.Coord {
	return func(x, y int) coord.Coord {
		e := coord.C(x, y)
		if t.Basis != pauli.Z {
			e = e.Swap()
		}
		return t.Center.Add(e)
	}
}

// shingledDetectorKeys compares the check of t at layer against the previous
// layer, including the neighbouring outcomes that flip it.
func shingledDetectorKeys(t layout.Tile, layer int, centers map[coord.Coord]bool) []key.Layered {
	f := shingledOffset(t)
	cur := func(k key.Key) key.Layered { return key.L(k, layer) }
	prev := func(k key.Key) key.Layered { return key.L(k, layer-1) }

	keys := []key.Layered{cur(key.At(f(0, 0)))}
	if layer > 0 {
		keys = append(keys, prev(key.At(f(0, 0))))
		if centers[f(-4, 0)] {
			keys = append(keys, prev(key.At(f(-3, 0))))
		}
	}
	if centers[f(4, 0)] {
		keys = append(keys, cur(key.At(f(3, 0))))
	}
	if layer > 0 && centers[f(0, -4)] {
		keys = append(keys, prev(bridge(f(0, -4))), prev(key.At(f(-1, -4))), prev(key.At(f(1, -4))))
	}
	if centers[f(0, 4)] {
		keys = append(keys, cur(bridge(f(0, 4))))
	}
	return keys
}

// shingledFinalKeys compares the last check of t against the transversal
// data measurement made at layer.
func shingledFinalKeys(t layout.Tile, layer int, centers map[coord.Coord]bool) []key.Layered {
	f := shingledOffset(t)
	keys := append([]key.Layered{key.L(key.At(f(0, 0)), layer)}, dataKeys(t, layer)...)
	if centers[f(-4, 0)] {
		keys = append(keys, key.L(key.At(f(-3, 0)), layer))
	}
	if centers[f(0, -4)] {
		keys = append(keys,
			key.L(bridge(f(0, -4)), layer),
			key.L(key.At(f(-1, -4)), layer),
			key.L(key.At(f(1, -4)), layer),
		)
	}
	return keys
}
