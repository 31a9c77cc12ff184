// Package sweep expands a parameter sweep into memory experiments and writes
// one circuit file per experiment.
//
// A sweep is the cross product of bases, noise strengths, diameters, round
// factors and families. Rounds are round_factor * diam. Generation runs on a
// bounded worker pool; each worker owns the builder for the circuit it
// constructs, so nothing is shared between workers except the catalog and
// the metrics recorder.
//
// Sweep files are YAML:
//
//	out_dir: circuits
//	bases: [X, Z]
//	noises: [0.001, 0.002]
//	diams: [3, 5]
//	round_factors: [3]
//	families: [chao, pentagonal_sharp]
//	use_classical_feedback: false
//	workers: 4
package sweep
