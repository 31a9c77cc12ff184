// Package key defines the symbolic names measurement outcomes are stored
// under.
//
// Key is a sealed interface. Only Qubit, Label, Absent and Tuple implement it,
// and every implementation is comparable, so keys (and Layered keys) can be
// used directly as map keys with structural equality.
package key

import (
	"fmt"
	"strings"

	"github.com/roach88/parsurf/internal/coord"
)

// maxElems bounds the number of elements a Tuple can hold.
const maxElems = 3

// Key names a logical measurement outcome, independent of round.
type Key interface {
	isKey() // Sealed - only the types in this file implement it
	String() string
}

// Qubit is a key named by a lattice coordinate.
type Qubit struct {
	At coord.Coord
}

func (Qubit) isKey() {}

func (q Qubit) String() string {
	return q.At.String()
}

// Label is a key named by a plain string.
type Label string

func (Label) isKey() {}

func (l Label) String() string {
	return string(l)
}

// Absent stands in for a missing qubit inside a Tuple.
type Absent struct{}

func (Absent) isKey() {}

func (Absent) String() string {
	return "none"
}

// Tuple is a tagged composite key such as ("a_m1", a, m1).
type Tuple struct {
	Tag   string
	Elems [maxElems]Key
	N     int
}

func (Tuple) isKey() {}

func (t Tuple) String() string {
	parts := []string{fmt.Sprintf("%q", t.Tag)}
	for _, e := range t.Elems[:t.N] {
		parts = append(parts, e.String())
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// At returns the Qubit key for c.
func At(c coord.Coord) Key {
	return Qubit{At: c}
}

// Opt returns the Qubit key for a present coordinate, or Absent.
func Opt(o coord.Opt) Key {
	if c, ok := o.Get(); ok {
		return Qubit{At: c}
	}
	return Absent{}
}

// Of builds a Tuple key. It panics when given more than three elements,
// which is a programming error in the caller's key scheme.
func Of(tag string, elems ...Key) Key {
	if len(elems) > maxElems {
		panic(fmt.Sprintf("key: tuple %q has %d elements, max %d", tag, len(elems), maxElems))
	}
	t := Tuple{Tag: tag, N: len(elems)}
	copy(t.Elems[:], elems)
	return t
}

// Layered pairs a key with the round it was produced in.
type Layered struct {
	Key   Key
	Layer int
}

// L is shorthand for Layered{Key: k, Layer: layer}.
func L(k Key, layer int) Layered {
	return Layered{Key: k, Layer: layer}
}

func (l Layered) String() string {
	return fmt.Sprintf("%s@%d", l.Key, l.Layer)
}
