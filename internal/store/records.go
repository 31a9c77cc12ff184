package store

import "errors"

// ErrNotFound is returned when a looked-up row does not exist.
var ErrNotFound = errors.New("not found")

// Run is one generation run.
type Run struct {
	ID         string
	Seq        int64
	ConfigHash string
	Config     string
	OutDir     string
}

// Circuit is one catalogued circuit file.
type Circuit struct {
	Name        string
	ContentHash string
	RunID       string
	Family      string
	Basis       string
	Diam        int
	Rounds      int
	Noise       float64
	Feedback    bool
	Qubits      int
	Detectors   int

	// Metadata is the canonical JSON of the circuit's metadata object.
	Metadata string
	Path     string
}

// Filter narrows ListCircuits. Zero fields match everything.
type Filter struct {
	Family string
	Basis  string
	Diam   int
	RunID  string
}
