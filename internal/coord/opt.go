package coord

// Opt is a coordinate that may be absent.
//
// Boundary check regions lose some of their data qubits; the missing ones are
// represented by an absent Opt rather than a sentinel coordinate.
type Opt struct {
	c  Coord
	ok bool
}

// Some wraps a present coordinate.
func Some(c Coord) Opt {
	return Opt{c: c, ok: true}
}

// None returns an absent coordinate.
func None() Opt {
	return Opt{}
}

// Get returns the coordinate and whether it is present.
func (o Opt) Get() (Coord, bool) {
	return o.c, o.ok
}

// Ok reports whether the coordinate is present.
func (o Opt) Ok() bool {
	return o.ok
}

// MustGet returns the coordinate, panicking when absent.
func (o Opt) MustGet() Coord {
	if !o.ok {
		panic("coord: MustGet on absent coordinate")
	}
	return o.c
}

func (o Opt) String() string {
	if !o.ok {
		return "none"
	}
	return o.c.String()
}

// Present returns the coordinates of the present options, in argument order.
func Present(opts ...Opt) []Coord {
	out := make([]Coord, 0, len(opts))
	for _, o := range opts {
		if o.ok {
			out = append(out, o.c)
		}
	}
	return out
}

// AllPresent reports whether every option is present.
func AllPresent(opts ...Opt) bool {
	for _, o := range opts {
		if !o.ok {
			return false
		}
	}
	return true
}
