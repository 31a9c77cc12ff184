package tracker

import (
	"errors"
	"fmt"

	"github.com/roach88/parsurf/internal/key"
)

// DuplicateKeyError reports a key that was bound or grouped twice.
type DuplicateKeyError struct {
	Key key.Layered
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("duplicate measurement key %s", e.Key)
}

// UnknownKeyError reports a key that was used before being bound.
type UnknownKeyError struct {
	Key key.Layered
}

func (e *UnknownKeyError) Error() string {
	return fmt.Sprintf("unknown measurement key %s", e.Key)
}

// IsDuplicateKey returns true if err is a DuplicateKeyError.
// Uses errors.As to handle wrapped errors.
func IsDuplicateKey(err error) bool {
	var de *DuplicateKeyError
	return errors.As(err, &de)
}

// IsUnknownKey returns true if err is an UnknownKeyError.
// Uses errors.As to handle wrapped errors.
func IsUnknownKey(err error) bool {
	var ue *UnknownKeyError
	return errors.As(err, &ue)
}
