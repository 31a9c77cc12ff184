package decompose

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/roach88/parsurf/internal/pauli"
)

// ProtocolDesyncError reports a stepper that reached a different stage than
// the rest of its partition.
type ProtocolDesyncError struct {
	Basis    pauli.Basis
	Advance  int
	Stepper  int
	Expected Stage
	Got      Stage
}

func (e *ProtocolDesyncError) Error() string {
	return fmt.Sprintf("protocol desync in %s partition at advance %d: stepper %d reported stage %q, expected %q",
		e.Basis, e.Advance, e.Stepper, e.Got, e.Expected)
}

// IsProtocolDesync returns true if err is a ProtocolDesyncError.
// Uses errors.As to handle wrapped errors.
func IsProtocolDesync(err error) bool {
	var pe *ProtocolDesyncError
	return errors.As(err, &pe)
}
