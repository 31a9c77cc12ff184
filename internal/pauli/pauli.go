// Package pauli names the single-qubit Pauli bases used by resets,
// measurements and classically controlled corrections.
package pauli

import (
	"errors"
	"fmt"
)

// Basis is one of X, Y or Z.
type Basis byte

const (
	X Basis = 'X'
	Y Basis = 'Y'
	Z Basis = 'Z'
)

// Parse converts "X", "Y" or "Z" into a Basis.
func Parse(s string) (Basis, error) {
	if len(s) == 1 {
		b := Basis(s[0])
		if b.Valid() {
			return b, nil
		}
	}
	return 0, &InvalidBasisError{Value: s}
}

// Valid reports whether b is X, Y or Z.
func (b Basis) Valid() bool {
	return b == X || b == Y || b == Z
}

// Opposite swaps X and Z. Y has no opposite and is returned unchanged.
func (b Basis) Opposite() Basis {
	switch b {
	case X:
		return Z
	case Z:
		return X
	}
	return b
}

func (b Basis) String() string {
	if !b.Valid() {
		return fmt.Sprintf("Basis(%d)", byte(b))
	}
	return string(rune(b))
}

// RequireCheck verifies b can label a parity check (X or Z).
func RequireCheck(b Basis) error {
	if b != X && b != Z {
		return &InvalidBasisError{Value: b.String(), Allowed: "XZ"}
	}
	return nil
}

// InvalidBasisError reports a basis outside the supported set.
type InvalidBasisError struct {
	Value   string
	Allowed string
}

func (e *InvalidBasisError) Error() string {
	allowed := e.Allowed
	if allowed == "" {
		allowed = "XYZ"
	}
	return fmt.Sprintf("invalid basis %q: must be one of %q", e.Value, allowed)
}

// IsInvalidBasis returns true if err is an InvalidBasisError.
func IsInvalidBasis(err error) bool {
	var ibe *InvalidBasisError
	return errors.As(err, &ibe)
}
