package sweep

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
	cueyaml "cuelang.org/go/encoding/yaml"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/roach88/parsurf/internal/canon"
	"github.com/roach88/parsurf/internal/experiment"
	"github.com/roach88/parsurf/internal/pauli"
)

//go:embed schema.cue
var schemaCUE string

// DefaultFamilies are generated when a sweep names none.
var DefaultFamilies = []string{string(experiment.FamilyChao), string(experiment.FamilyPentagonalSharp)}

// Config is a parsed sweep file.
type Config struct {
	OutDir       string    `yaml:"out_dir,omitempty"`
	Bases        []string  `yaml:"bases"`
	Noises       []float64 `yaml:"noises"`
	Diams        []int     `yaml:"diams"`
	RoundFactors []int     `yaml:"round_factors"`
	Families     []string  `yaml:"families,omitempty"`

	// Feedback turns on classical feedback for the families that have it.
	Feedback bool `yaml:"use_classical_feedback,omitempty"`

	Workers int `yaml:"workers,omitempty"`
}

// ConfigError reports a sweep file that does not match the schema.
type ConfigError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *ConfigError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsConfigError returns true if err is a ConfigError.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}

// LoadConfig reads and validates a sweep file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read sweep file")
	}
	return ParseConfig(path, data)
}

// ParseConfig validates data against the sweep schema and decodes it.
// filename is only used in error positions.
func ParseConfig(filename string, data []byte) (*Config, error) {
	if err := validateSchema(filename, data); err != nil {
		return nil, err
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true) // Reject unknown fields
	if err := decoder.Decode(&cfg); err != nil {
		return nil, errors.Wrap(err, "parse sweep YAML")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateSchema(filename string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaCUE, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return errors.Wrap(err, "compile sweep schema")
	}

	file, err := cueyaml.Extract(filename, data)
	if err != nil {
		return formatCUEError(err)
	}
	value := ctx.BuildFile(file)
	if err := value.Err(); err != nil {
		return formatCUEError(err)
	}

	unified := schema.LookupPath(cue.ParsePath("#Sweep")).Unify(value)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ConfigError{Field: "sweep", Message: err.Error()}
	}

	// Report the first error, preferring a position inside the sweep file.
	first := errs[0]
	ce := &ConfigError{Field: pathString(first.Path()), Message: first.Error()}
	for _, pos := range cueerrors.Positions(first) {
		if pos.Filename() != "schema.cue" {
			ce.Pos = pos
			break
		}
	}
	return ce
}

func pathString(path []string) string {
	var parts []string
	for _, p := range path {
		if p != "#Sweep" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return "sweep"
	}
	return strings.Join(parts, ".")
}

// Validate checks the semantic constraints the schema cannot express.
func (c *Config) Validate() error {
	for _, b := range c.Bases {
		basis, err := pauli.Parse(b)
		if err != nil {
			return &ConfigError{Field: "bases", Message: err.Error()}
		}
		if err := pauli.RequireCheck(basis); err != nil {
			return &ConfigError{Field: "bases", Message: err.Error()}
		}
	}
	for _, f := range c.Families {
		if _, err := experiment.ParseFamily(f); err != nil {
			return &ConfigError{Field: "families", Message: err.Error()}
		}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Message: "must not be negative"}
	}
	return nil
}

// families returns the configured families or the defaults.
func (c *Config) families() []string {
	if len(c.Families) == 0 {
		return DefaultFamilies
	}
	return c.Families
}

// Object returns the sweep as a canonical object, used to hash runs.
func (c *Config) Object() canon.Object {
	obj := canon.Object{
		"bases":                  toAny(c.Bases),
		"noises":                 toAny(c.Noises),
		"diams":                  toAny(c.Diams),
		"round_factors":          toAny(c.RoundFactors),
		"families":               toAny(c.families()),
		"use_classical_feedback": c.Feedback,
	}
	return obj
}

func toAny[T any](xs []T) []any {
	out := make([]any, len(xs))
	for i, x := range xs {
		out[i] = x
	}
	return out
}
