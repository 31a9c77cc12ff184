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

// chaoMoments is one Chao cycle. X and Z checks run the same stages side by
// side.
var chaoMoments = [][]decompose.Stage{
	{decompose.ChaoR},
	{decompose.ChaoP1a, decompose.ChaoP1b, decompose.ChaoP1c},
	{decompose.ChaoP2a, decompose.ChaoP2b},
	{decompose.ChaoP3a, decompose.ChaoP3b},
	{decompose.ChaoM1a, decompose.ChaoM1b},
	{decompose.ChaoR3},
	{decompose.ChaoP4a, decompose.ChaoP4b},
	{decompose.ChaoP5a, decompose.ChaoP5b},
	{decompose.ChaoP6a, decompose.ChaoP6b},
	{decompose.ChaoM2a, decompose.ChaoM2b, decompose.ChaoDone},
}

// Chao builds a memory experiment using the Chao decomposition. Every
// byproduct is corrected with classical feedback, so detectors compare a
// check directly against its previous outcome.
func Chao(basis pauli.Basis, rounds, diam int) (*circuit.Circuit, error) {
	if err := validate(basis, rounds, diam); err != nil {
		return nil, err
	}
	tiles := layout.SurfaceCodeTiles(diam, false)
	var measure []coord.Coord
	for _, t := range tiles {
		measure = append(measure, decompose.ChaoMeasureQubits(t)...)
	}
	m, err := newMemory(basis, tiles, measure, decompose.ChaoFactory)
	if err != nil {
		return nil, err
	}
	b := m.b

	if err := m.prepare(); err != nil {
		return nil, err
	}

	var mark builder.Mark
	for layer := 0; layer < min(2, rounds); layer++ {
		mark = b.Mark()
		for i, st := range chaoMoments {
			mo := decompose.Moment{X: st, Z: st, NoTick: i == len(chaoMoments)-1}
			if err := m.ls.Run(mo); err != nil {
				return nil, err
			}
		}
		for _, t := range tiles {
			keys := []key.Layered{key.L(key.At(t.Center), layer)}
			if layer == 0 {
				if t.Basis != basis {
					continue
				}
			} else {
				keys = append(keys, key.L(key.At(t.Center), layer-1))
			}
			if err := b.Detector(keys, t.Center, false); err != nil {
				return nil, err
			}
		}
		b.ShiftCoords(1)
		b.Tick()
	}
	if err := b.RepeatSince(mark, max(1, rounds-1)); err != nil {
		return nil, err
	}

	last := min(1, rounds-1)
	if err := m.measureData(last); err != nil {
		return nil, err
	}
	for _, t := range tiles {
		if t.Basis != basis {
			continue
		}
		keys := append(dataKeys(t, last), key.L(key.At(t.Center), last))
		if err := b.Detector(keys, t.Center, false); err != nil {
			return nil, err
		}
	}
	if err := b.ObservableInclude(qubitKeys(m.observableQubits(), last), 0); err != nil {
		return nil, err
	}
	return b.Circuit(), nil
}
