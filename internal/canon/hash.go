package canon

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content hashes. The version suffix leaves room for
// changing the hashed representation later.
const (
	DomainCircuit  = "parsurf/circuit/v1"
	DomainMetadata = "parsurf/metadata/v1"
	DomainSweep    = "parsurf/sweep/v1"
)

// HashWithDomain returns hex(SHA256(domain + 0x00 + data)).
// The null byte keeps the domain/data boundary unambiguous.
func HashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// CircuitHash identifies a circuit by its text.
func CircuitHash(text string) string {
	return HashWithDomain(DomainCircuit, []byte(text))
}

// ObjectHash identifies an object by its canonical JSON under domain.
func ObjectHash(domain string, obj Object) (string, error) {
	data, err := Marshal(obj)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", domain, err)
	}
	return HashWithDomain(domain, data), nil
}
