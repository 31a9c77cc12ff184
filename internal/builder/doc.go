// Package builder assembles circuits from symbolic measurement keys.
//
// A Builder owns three pieces of state for one construction: the qubit index
// table, the growing circuit and the measurement tracker. Every operation that
// consumes measurement results (classical feedback, detectors, observables)
// resolves its keys against the tracker at the moment it is emitted, so the
// record offsets it writes are relative to the circuit as it stands then.
//
// Builders are not safe for concurrent use. Independent constructions use
// independent builders.
package builder
