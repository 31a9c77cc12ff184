package store

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/roach88/parsurf/internal/canon"
)

// marshalMetadata converts a metadata object to canonical JSON TEXT for
// storage.
func marshalMetadata(obj canon.Object) (string, error) {
	data, err := canon.Marshal(obj)
	if err != nil {
		return "", errors.Wrap(err, "marshal metadata")
	}
	return string(data), nil
}

// unmarshalMetadata parses stored metadata back into an object. Numbers are
// decoded as json.Number so integers survive untouched.
func unmarshalMetadata(s string) (canon.Object, error) {
	if s == "" {
		return canon.Object{}, nil
	}
	dec := json.NewDecoder(bytes.NewReader([]byte(s)))
	dec.UseNumber()
	var obj canon.Object
	if err := dec.Decode(&obj); err != nil {
		return nil, errors.Wrap(err, "unmarshal metadata")
	}
	return obj, nil
}

// boolToInt stores a bool in an INTEGER column.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
