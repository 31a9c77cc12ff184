package experiment

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/roach88/parsurf/internal/circuit"
	"github.com/roach88/parsurf/internal/pauli"
)

// Family names a decomposition family as it appears in metadata.
type Family string

const (
	FamilyChao             Family = "chao"
	FamilyPentagonalSharp  Family = "pentagonal_sharp"
	FamilyPentagonalSmooth Family = "pentagonal_smooth"
	FamilyShingled         Family = "shingled_pentagonal"
)

// Families lists every family in a stable order.
func Families() []Family {
	return []Family{FamilyChao, FamilyPentagonalSharp, FamilyPentagonalSmooth, FamilyShingled}
}

// ParseFamily accepts a family name.
func ParseFamily(s string) (Family, error) {
	for _, f := range Families() {
		if string(f) == s {
			return f, nil
		}
	}
	names := make([]string, 0, 4)
	for _, f := range Families() {
		names = append(names, string(f))
	}
	return "", fmt.Errorf("unknown family %q (want one of %s)", s, strings.Join(names, ", "))
}

// SupportsFeedback reports whether the family has a classical feedback mode.
func (f Family) SupportsFeedback() bool {
	return f == FamilyPentagonalSharp || f == FamilyPentagonalSmooth
}

// Params selects one memory experiment.
type Params struct {
	Family Family
	Basis  pauli.Basis
	Diam   int
	Rounds int
	Noise  float64

	// Feedback enables classically controlled corrections. Only the
	// pentagonal families have them.
	Feedback bool
}

// Validate checks the parameters without building anything.
func (p Params) Validate() error {
	if _, err := ParseFamily(string(p.Family)); err != nil {
		return err
	}
	if err := validate(p.Basis, p.Rounds, p.Diam); err != nil {
		return err
	}
	if p.Noise < 0 || p.Noise > 1 {
		return fmt.Errorf("noise %v outside [0, 1]", p.Noise)
	}
	if p.Feedback && !p.Family.SupportsFeedback() {
		return fmt.Errorf("family %s has no classical feedback mode", p.Family)
	}
	return nil
}

// Circuit builds the noiseless circuit for p.
func Circuit(p Params) (*circuit.Circuit, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var (
		c   *circuit.Circuit
		err error
	)
	switch p.Family {
	case FamilyChao:
		c, err = Chao(p.Basis, p.Rounds, p.Diam)
	case FamilyPentagonalSharp:
		c, err = Pentagonal(p.Basis, p.Rounds, p.Diam, p.Feedback, false)
	case FamilyPentagonalSmooth:
		c, err = Pentagonal(p.Basis, p.Rounds, p.Diam, p.Feedback, true)
	case FamilyShingled:
		c, err = ShingledPentagonal(p.Basis, p.Rounds, p.Diam)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "build %s circuit", p.Family)
	}
	return c, nil
}

func validate(basis pauli.Basis, rounds, diam int) error {
	if err := pauli.RequireCheck(basis); err != nil {
		return err
	}
	if rounds < 1 {
		return fmt.Errorf("rounds must be at least 1, got %d", rounds)
	}
	if diam < 2 {
		return fmt.Errorf("diam must be at least 2, got %d", diam)
	}
	return nil
}
