// Package layout generates the check regions of a rotated surface code patch.
//
// Data qubits sit on a grid with pitch 4. Every check region (tile) covers
// the four corners of one grid square; tiles on the patch boundary keep only
// the corners that exist. Each tile also owns two measurement qubits placed
// between the center and the midpoint of each half of the tile.
package layout

import (
	"github.com/roach88/parsurf/internal/coord"
	"github.com/roach88/parsurf/internal/pauli"
)

// Pitch is the distance between neighbouring data qubits.
const Pitch = 4

// Tile is one stabilizer of the surface code.
type Tile struct {
	// A, B, C, D are the data qubits that exist, in decomposition order.
	A, B, C, D coord.Opt

	// UA, UB, UC, UD are the untruncated corner positions.
	UA, UB, UC, UD coord.Coord

	Center coord.Coord
	Basis  pauli.Basis
}

// UM1 is where the first measurement qubit would be placed.
func (t Tile) UM1() coord.Coord {
	s := t.UA.Add(t.UC).Add(t.Center).Add(t.Center)
	return coord.C(s.X/4, s.Y/4)
}

// UM2 is where the second measurement qubit would be placed.
func (t Tile) UM2() coord.Coord {
	s := t.UB.Add(t.UD).Add(t.Center).Add(t.Center)
	return coord.C(s.X/4, s.Y/4)
}

// M1 is the measurement qubit serving A and C, absent when both are.
func (t Tile) M1() coord.Opt {
	if !t.A.Ok() && !t.C.Ok() {
		return coord.None()
	}
	return coord.Some(t.UM1())
}

// M2 is the measurement qubit serving B and D, absent when both are.
func (t Tile) M2() coord.Opt {
	if !t.B.Ok() && !t.D.Ok() {
		return coord.None()
	}
	return coord.Some(t.UM2())
}

// DataSet returns the tile's data qubits in A-D order.
func (t Tile) DataSet() []coord.Coord {
	return coord.Present(t.A, t.B, t.C, t.D)
}

// MeasureSet returns the tile's measurement qubits.
func (t Tile) MeasureSet() []coord.Coord {
	return coord.Present(t.M1(), t.M2())
}

// UsedSet returns every qubit the tile touches.
func (t Tile) UsedSet() []coord.Coord {
	return append(t.DataSet(), t.MeasureSet()...)
}

// CheckerboardBasis classifies a grid square as X or Z.
func CheckerboardBasis(c coord.Coord) pauli.Basis {
	x := floorDiv(c.X, Pitch)
	y := floorDiv(c.Y, Pitch)
	if mod2(x+y) == 0 {
		return pauli.X
	}
	return pauli.Z
}

// SurfaceCodeTiles returns the tiles of a diam x diam patch. Tiles are
// ordered by the X then Y position of their top-left corner. flip changes the
// order in which each tile visits its corners, which decides the direction of
// hook errors.
func SurfaceCodeTiles(diam int, flip bool) []Tile {
	data := make(map[coord.Coord]bool, diam*diam)
	for x := 0; x < diam; x++ {
		for y := 0; y < diam; y++ {
			data[coord.C(x*Pitch, y*Pitch)] = true
		}
	}

	const (
		topBasis  = pauli.Z
		sideBasis = pauli.X
	)

	var tiles []Tile
	for x := -1; x < diam; x++ {
		for y := -1; y < diam; y++ {
			tl := coord.C(x*Pitch, y*Pitch)
			basis := CheckerboardBasis(tl)

			// Boundary tiles only survive when they match the boundary type.
			if (x == -1 || x == diam-1) && basis != sideBasis {
				continue
			}
			if (y == -1 || y == diam-1) && basis != topBasis {
				continue
			}

			var order [4]coord.Coord
			if (basis == pauli.Z) != flip {
				order = [4]coord.Coord{tl, tl.Add(coord.C(0, Pitch)), tl.Add(coord.C(Pitch, 0)), tl.Add(coord.C(Pitch, Pitch))}
			} else {
				order = [4]coord.Coord{tl, tl.Add(coord.C(Pitch, 0)), tl.Add(coord.C(0, Pitch)), tl.Add(coord.C(Pitch, Pitch))}
			}

			var kept [4]coord.Opt
			found := false
			for i, q := range order {
				if data[q] {
					kept[i] = coord.Some(q)
					found = true
				}
			}
			if !found {
				continue
			}

			tiles = append(tiles, Tile{
				A: kept[0], B: kept[1], C: kept[2], D: kept[3],
				UA: order[0], UB: order[1], UC: order[2], UD: order[3],
				Center: tl.Add(coord.C(Pitch/2, Pitch/2)),
				Basis:  basis,
			})
		}
	}
	return tiles
}

// Split partitions tiles by basis, preserving order.
func Split(tiles []Tile) (xs, zs []Tile) {
	for _, t := range tiles {
		if t.Basis == pauli.X {
			xs = append(xs, t)
		} else {
			zs = append(zs, t)
		}
	}
	return xs, zs
}

// DataQubits returns the data qubits of all tiles, sorted.
func DataQubits(tiles []Tile) []coord.Coord {
	var all []coord.Coord
	for _, t := range tiles {
		all = append(all, t.DataSet()...)
	}
	return coord.Unique(all)
}

// MeasureQubits returns the measurement qubits of all tiles, sorted.
func MeasureQubits(tiles []Tile) []coord.Coord {
	var all []coord.Coord
	for _, t := range tiles {
		all = append(all, t.MeasureSet()...)
	}
	return coord.Unique(all)
}

// Centers returns the set of tile centers.
func Centers(tiles []Tile) map[coord.Coord]bool {
	out := make(map[coord.Coord]bool, len(tiles))
	for _, t := range tiles {
		out[t.Center] = true
	}
	return out
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func mod2(v int) int {
	return ((v % 2) + 2) % 2
}
