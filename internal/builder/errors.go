package builder

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/roach88/parsurf/internal/coord"
)

// UnknownQubitError reports a coordinate that was not given to ForQubits.
type UnknownQubitError struct {
	Qubit coord.Coord
}

func (e *UnknownQubitError) Error() string {
	return fmt.Sprintf("qubit %s has no index", e.Qubit)
}

// InvalidGateError reports an instruction name the builder cannot emit.
type InvalidGateError struct {
	Name   string
	Reason string
}

func (e *InvalidGateError) Error() string {
	return fmt.Sprintf("invalid gate %q: %s", e.Name, e.Reason)
}

// IsUnknownQubit returns true if err is an UnknownQubitError.
func IsUnknownQubit(err error) bool {
	var ue *UnknownQubitError
	return errors.As(err, &ue)
}

// IsInvalidGate returns true if err is an InvalidGateError.
func IsInvalidGate(err error) bool {
	var ge *InvalidGateError
	return errors.As(err, &ge)
}
