// Package coord provides the 2D integer lattice used to name qubits.
//
// Coordinates are immutable values. They double as qubit identity and as
// geometric position, so equality and ordering must stay stable for the
// lifetime of a circuit construction.
package coord

import (
	"fmt"
	"sort"
)

// Coord is a point on the integer lattice.
type Coord struct {
	X int
	Y int
}

// C is shorthand for Coord{X: x, Y: y}.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// Add returns c + o.
func (c Coord) Add(o Coord) Coord {
	return Coord{X: c.X + o.X, Y: c.Y + o.Y}
}

// Sub returns c - o.
func (c Coord) Sub(o Coord) Coord {
	return Coord{X: c.X - o.X, Y: c.Y - o.Y}
}

// Swap exchanges the two axes.
func (c Coord) Swap() Coord {
	return Coord{X: c.Y, Y: c.X}
}

// Less orders coordinates by X, then by Y.
func (c Coord) Less(o Coord) bool {
	if c.X != o.X {
		return c.X < o.X
	}
	return c.Y < o.Y
}

func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

// Sort orders qs in place by X, then Y.
func Sort(qs []Coord) {
	sort.Slice(qs, func(i, j int) bool { return qs[i].Less(qs[j]) })
}

// Unique returns the distinct coordinates of qs in sorted order.
func Unique(qs ...[]Coord) []Coord {
	seen := make(map[Coord]bool)
	var out []Coord
	for _, group := range qs {
		for _, q := range group {
			if seen[q] {
				continue
			}
			seen[q] = true
			out = append(out, q)
		}
	}
	Sort(out)
	return out
}
