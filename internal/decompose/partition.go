package decompose

import (
	"github.com/roach88/parsurf/internal/builder"
	"github.com/roach88/parsurf/internal/layout"
	"github.com/roach88/parsurf/internal/pauli"
)

// Factory builds the stepper for one tile.
type Factory func(t layout.Tile) (Stepper, error)

// PentagonalFactory builds pentagonal steppers on b.
func PentagonalFactory(b *builder.Builder, feedback bool) Factory {
	return func(t layout.Tile) (Stepper, error) {
		return NewPentagonal(b, PentagonalRegion(t), feedback)
	}
}

// ShingledFactory builds shingled pentagonal steppers on b.
func ShingledFactory(b *builder.Builder) Factory {
	return func(t layout.Tile) (Stepper, error) {
		return NewShingledPentagonal(b, PentagonalRegion(t))
	}
}

// ChaoFactory builds Chao steppers on b.
func ChaoFactory(b *builder.Builder) Factory {
	return func(t layout.Tile) (Stepper, error) {
		return NewChao(b, ChaoRegion(t))
	}
}

// Partition builds one stepper per tile and splits them by basis, keeping
// tile order inside each partition.
func Partition(tiles []layout.Tile, f Factory) (x, z []Stepper, err error) {
	for _, t := range tiles {
		s, err := f(t)
		if err != nil {
			return nil, nil, err
		}
		if t.Basis == pauli.X {
			x = append(x, s)
		} else {
			z = append(z, s)
		}
	}
	return x, z, nil
}
