package sweep

import (
	"github.com/pkg/errors"

	"github.com/roach88/parsurf/internal/experiment"
	"github.com/roach88/parsurf/internal/pauli"
)

// Expand lists the experiments of a sweep. The order is bases, then noises,
// then diameters, then round factors, then families, with the last varying
// fastest.
func Expand(c *Config) ([]experiment.Params, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	families := c.families()

	params := make([]experiment.Params, 0,
		len(c.Bases)*len(c.Noises)*len(c.Diams)*len(c.RoundFactors)*len(families))
	for _, b := range c.Bases {
		basis, err := pauli.Parse(b)
		if err != nil {
			return nil, err
		}
		for _, noise := range c.Noises {
			for _, diam := range c.Diams {
				for _, factor := range c.RoundFactors {
					for _, name := range families {
						family, err := experiment.ParseFamily(name)
						if err != nil {
							return nil, err
						}
						p := experiment.Params{
							Family:   family,
							Basis:    basis,
							Diam:     diam,
							Rounds:   factor * diam,
							Noise:    noise,
							Feedback: c.Feedback && family.SupportsFeedback(),
						}
						if err := p.Validate(); err != nil {
							return nil, errors.Wrapf(err, "sweep point %s d=%d r=%d", family, diam, p.Rounds)
						}
						params = append(params, p)
					}
				}
			}
		}
	}
	return params, nil
}
