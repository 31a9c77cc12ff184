// Package circuit models the flat, Stim-compatible instruction stream that
// circuit construction produces.
//
// A Circuit is an ordered list of instructions. Appending an instruction that
// has the same name and arguments as the previous one merges their targets,
// the same way Stim fuses adjacent operations, except for annotations (TICK,
// DETECTOR, OBSERVABLE_INCLUDE, SHIFT_COORDS, QUBIT_COORDS) and REPEAT blocks.
//
// The package knows nothing about measurement keys. Record targets are plain
// negative offsets resolved by the caller before they are appended.
package circuit
