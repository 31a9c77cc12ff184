package experiment

import (
	"math"
	"strconv"
	"strings"

	"github.com/roach88/parsurf/internal/canon"
	"github.com/roach88/parsurf/internal/pauli"
)

// Metadata describes one generated circuit. The short keys match the file
// names written by the sweep runner.
type Metadata struct {
	Diam     int
	Rounds   int
	Basis    pauli.Basis
	Noise    float64
	Family   Family
	Qubits   int
	Feedback bool
}

// Object returns the metadata as a canonical JSON object. The feedback key is
// only present when feedback is enabled.
func (m Metadata) Object() canon.Object {
	obj := canon.Object{
		"d": m.Diam,
		"r": m.Rounds,
		"b": m.Basis.String(),
		"p": m.Noise,
		"c": string(m.Family),
		"q": m.Qubits,
	}
	if m.Feedback {
		obj["use_classical_feedback"] = true
	}
	return obj
}

// JSON returns the canonical JSON encoding of the metadata.
func (m Metadata) JSON() ([]byte, error) {
	return canon.Marshal(m.Object())
}

// Hash returns the content hash of the metadata.
func (m Metadata) Hash() (string, error) {
	return canon.ObjectHash(canon.DomainMetadata, m.Object())
}

// Name returns the file stem "k=v,k=v,..." with keys sorted, e.g.
// "b=X,c=chao,d=3,p=0.001,q=25,r=9".
func (m Metadata) Name() string {
	obj := m.Object()
	parts := make([]string, 0, len(obj))
	for _, k := range canon.SortedKeys(obj) {
		parts = append(parts, k+"="+formatValue(obj[k]))
	}
	return strings.Join(parts, ",")
}

// FileName is Name with the circuit file extension.
func (m Metadata) FileName() string {
	return m.Name() + ".stim"
}

func formatValue(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case bool:
		if x {
			return "True"
		}
		return "False"
	case float64:
		return formatFloat(x)
	}
	panic("experiment: unexpected metadata value")
}

// formatFloat writes the shortest round-tripping form of f. Values in
// [1e-4, 1e16) use positional notation and always carry a fractional part;
// everything else uses an exponent with at least two digits.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	sci := strconv.FormatFloat(f, 'e', -1, 64)
	exp, err := strconv.Atoi(sci[strings.IndexByte(sci, 'e')+1:])
	if err != nil {
		return sci
	}
	if f != 0 && (exp < -4 || exp >= 16) {
		return sci
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
