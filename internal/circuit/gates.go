package circuit

import "github.com/roach88/parsurf/internal/pauli"

// Kind classifies instructions by how they act on qubits.
type Kind uint8

const (
	Annotation Kind = iota
	Reset
	Measurement
	ProductMeasurement
	Unitary1
	Unitary2
	Noise1
	Noise2
	Block
)

// GateInfo describes an instruction name.
type GateInfo struct {
	Name    string
	Kind    Kind
	Basis   pauli.Basis
	Fusable bool
}

// aliases maps accepted spellings onto canonical names.
var aliases = map[string]string{
	"RZ":   "R",
	"MZ":   "M",
	"MRZ":  "MR",
	"CNOT": "CX",
	"ZCX":  "CX",
	"ZCY":  "CY",
	"ZCZ":  "CZ",
}

var gates = map[string]GateInfo{
	"QUBIT_COORDS":       {Kind: Annotation},
	"DETECTOR":           {Kind: Annotation},
	"OBSERVABLE_INCLUDE": {Kind: Annotation},
	"SHIFT_COORDS":       {Kind: Annotation},
	"TICK":               {Kind: Annotation},
	"REPEAT":             {Kind: Block},

	"R":  {Kind: Reset, Basis: pauli.Z, Fusable: true},
	"RX": {Kind: Reset, Basis: pauli.X, Fusable: true},
	"RY": {Kind: Reset, Basis: pauli.Y, Fusable: true},

	"M":   {Kind: Measurement, Basis: pauli.Z, Fusable: true},
	"MX":  {Kind: Measurement, Basis: pauli.X, Fusable: true},
	"MY":  {Kind: Measurement, Basis: pauli.Y, Fusable: true},
	"MR":  {Kind: Measurement, Basis: pauli.Z, Fusable: true},
	"MRX": {Kind: Measurement, Basis: pauli.X, Fusable: true},
	"MPP": {Kind: ProductMeasurement, Fusable: true},

	"I":          {Kind: Unitary1, Fusable: true},
	"X":          {Kind: Unitary1, Basis: pauli.X, Fusable: true},
	"Y":          {Kind: Unitary1, Basis: pauli.Y, Fusable: true},
	"Z":          {Kind: Unitary1, Basis: pauli.Z, Fusable: true},
	"H":          {Kind: Unitary1, Fusable: true},
	"S":          {Kind: Unitary1, Fusable: true},
	"S_DAG":      {Kind: Unitary1, Fusable: true},
	"SQRT_X":     {Kind: Unitary1, Fusable: true},
	"SQRT_X_DAG": {Kind: Unitary1, Fusable: true},

	"CX":   {Kind: Unitary2, Basis: pauli.X, Fusable: true},
	"CY":   {Kind: Unitary2, Basis: pauli.Y, Fusable: true},
	"CZ":   {Kind: Unitary2, Basis: pauli.Z, Fusable: true},
	"SWAP": {Kind: Unitary2, Fusable: true},

	"X_ERROR":     {Kind: Noise1, Basis: pauli.X, Fusable: true},
	"Y_ERROR":     {Kind: Noise1, Basis: pauli.Y, Fusable: true},
	"Z_ERROR":     {Kind: Noise1, Basis: pauli.Z, Fusable: true},
	"DEPOLARIZE1": {Kind: Noise1, Fusable: true},
	"DEPOLARIZE2": {Kind: Noise2, Fusable: true},
}

// Canonical returns the canonical spelling of name.
func Canonical(name string) string {
	if c, ok := aliases[name]; ok {
		return c
	}
	return name
}

// Gate looks up an instruction name, accepting aliases.
func Gate(name string) (GateInfo, bool) {
	name = Canonical(name)
	info, ok := gates[name]
	if !ok {
		return GateInfo{}, false
	}
	info.Name = name
	return info, true
}

// ResetName returns the reset instruction for basis b.
func ResetName(b pauli.Basis) string {
	if b == pauli.Z {
		return "R"
	}
	return "R" + b.String()
}

// MeasureName returns the single-qubit measurement instruction for basis b.
func MeasureName(b pauli.Basis) string {
	if b == pauli.Z {
		return "M"
	}
	return "M" + b.String()
}

// ControlledName returns the classically controllable Pauli for basis b.
func ControlledName(b pauli.Basis) string {
	return "C" + b.String()
}
