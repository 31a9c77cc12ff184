package experiment

import (
	"github.com/roach88/parsurf/internal/builder"
	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/decompose"
	"github.com/roach88/parsurf/internal/key"
	"github.com/roach88/parsurf/internal/layout"
	"github.com/roach88/parsurf/internal/pauli"
)

// memory is the state shared by every family while one experiment is built.
type memory struct {
	basis pauli.Basis
	tiles []layout.Tile
	data  []coord.Coord
	b     *builder.Builder
	ls    *decompose.Lockstep
}

func newMemory(basis pauli.Basis, tiles []layout.Tile, measure []coord.Coord, factory func(*builder.Builder) decompose.Factory) (*memory, error) {
	data := layout.DataQubits(tiles)
	b := builder.ForQubits(append(append([]coord.Coord(nil), data...), measure...))
	x, z, err := decompose.Partition(tiles, factory(b))
	if err != nil {
		return nil, err
	}
	return &memory{
		basis: basis,
		tiles: tiles,
		data:  data,
		b:     b,
		ls:    decompose.NewLockstep(b, x, z),
	}, nil
}

// prepare resets every data qubit into the memory basis.
func (m *memory) prepare() error {
	return m.b.Reset(m.basis, m.data)
}

// measureData measures every data qubit in the memory basis.
func (m *memory) measureData(layer int) error {
	return m.b.Measure(m.data, m.basis, layer, nil)
}

// observableQubits is the line of data qubits whose product is the logical
// operator of the memory basis.
func (m *memory) observableQubits() []coord.Coord {
	var out []coord.Coord
	for _, q := range m.data {
		if (m.basis == pauli.X && q.Y == 0) || (m.basis == pauli.Z && q.X == 0) {
			out = append(out, q)
		}
	}
	return out
}

// relevant picks the coordinate that runs across the observable line.
func (m *memory) relevant(c coord.Coord) int {
	if m.basis == pauli.Z {
		return c.X
	}
	return c.Y
}

// dataKeys returns the data measurement keys of a tile at layer.
func dataKeys(t layout.Tile, layer int) []key.Layered {
	return qubitKeys(t.DataSet(), layer)
}

func qubitKeys(qs []coord.Coord, layer int) []key.Layered {
	out := make([]key.Layered, len(qs))
	for i, q := range qs {
		out[i] = key.L(key.At(q), layer)
	}
	return out
}

func layered(keys []key.Key, layer int) []key.Layered {
	out := make([]key.Layered, len(keys))
	for i, k := range keys {
		out[i] = key.L(k, layer)
	}
	return out
}

// bridge is the key of the bridge product of the tile centered at c.
func bridge(c coord.Coord) key.Key {
	return decompose.PartKey(string(decompose.StageBridge), key.At(c))
}

func stages(s ...decompose.Stage) []decompose.Stage {
	return s
}
