package cli

import (
	"github.com/pkg/errors"

	"github.com/roach88/parsurf/internal/experiment"
	"github.com/roach88/parsurf/internal/pauli"
	"github.com/roach88/parsurf/internal/store"
	"github.com/roach88/parsurf/internal/sweep"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeInvalidFlag  = "E002" // Flag value rejected
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeDatabase     = "E008" // Catalog could not be opened or queried
	ErrCodeMetrics      = "E009" // Metrics textfile could not be written
	ErrCodeInvalidSweep = "E101" // Sweep file does not match the schema
	ErrCodeBuildFailed  = "E201" // Circuit construction failed
)

// SweepFlags are the sweep axes given on the command line instead of a
// sweep file.
type SweepFlags struct {
	Config       string
	Bases        []string
	Noises       []float64
	Diams        []int
	RoundFactors []int
	Families     []string
	Feedback     bool
}

// loadSweep returns the sweep described by the flags. A sweep file wins over
// the axis flags; the feedback flag is honored either way.
func loadSweep(f SweepFlags) (*sweep.Config, error) {
	if f.Config != "" {
		cfg, err := sweep.LoadConfig(f.Config)
		if err != nil {
			return nil, err
		}
		cfg.Feedback = cfg.Feedback || f.Feedback
		return cfg, nil
	}

	cfg := &sweep.Config{
		Bases:        f.Bases,
		Noises:       f.Noises,
		Diams:        f.Diams,
		RoundFactors: f.RoundFactors,
		Families:     f.Families,
		Feedback:     f.Feedback,
	}
	switch {
	case len(cfg.Bases) == 0:
		return nil, &sweep.ConfigError{Field: "basis", Message: "at least one basis is required"}
	case len(cfg.Noises) == 0:
		return nil, &sweep.ConfigError{Field: "noise", Message: "at least one noise strength is required"}
	case len(cfg.Diams) == 0:
		return nil, &sweep.ConfigError{Field: "diam", Message: "at least one diameter is required"}
	case len(cfg.RoundFactors) == 0:
		return nil, &sweep.ConfigError{Field: "round-factors", Message: "at least one round factor is required"}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// parseParams turns circuit command flags into experiment parameters.
func parseParams(family, basis string, diam, rounds int, noise float64, feedback bool) (experiment.Params, error) {
	f, err := experiment.ParseFamily(family)
	if err != nil {
		return experiment.Params{}, err
	}
	b, err := pauli.Parse(basis)
	if err != nil {
		return experiment.Params{}, err
	}
	p := experiment.Params{Family: f, Basis: b, Diam: diam, Rounds: rounds, Noise: noise, Feedback: feedback}
	return p, p.Validate()
}

// errorCode maps an error to its CLI error code.
func errorCode(err error) string {
	switch {
	case sweep.IsConfigError(err):
		return ErrCodeInvalidSweep
	case errors.Is(err, store.ErrNotFound):
		return ErrCodeNotFound
	default:
		return ErrCodeGeneric
	}
}
