// Package decompose breaks four-body parity checks into two-body
// measurements and schedules many of them side by side.
//
// Each check region gets a Stepper: an explicit state machine that, on every
// Advance, emits exactly one named stage of its decomposition into the shared
// builder and reports the stage name. After the last stage a stepper starts
// over on the next layer, so a memory experiment of any length is expressed by
// advancing steppers enough times.
//
// The Lockstep driver advances every stepper of a basis partition once per
// stage and requires all of them to report the same stage. Operations that are
// meant to be simultaneous therefore land next to each other in the circuit,
// before the next TICK.
//
// Three decomposition families are provided:
//
//	Pentagonal          R, AB, |, CD, M, C
//	ShingledPentagonal  R, A, B, |, C, D, M, C
//	Chao                R, P1_a, ..., M2_b, C
//
// Pentagonal supports two correctness modes. With classical feedback the
// group key of each round equals the original four-body check exactly. Without
// it, no corrections are emitted and detectors must instead include the extra
// ancilla and neighbour keys that restore a fixed parity.
package decompose
