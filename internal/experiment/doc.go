// Package experiment assembles surface code memory experiments out of the
// check decompositions in package decompose.
//
// Every family prepares the data qubits in the memory basis, runs the
// decomposed checks for the requested number of rounds, compares each round's
// check outcomes against the previous round with DETECTOR annotations and
// finally measures the data qubits transversally. The logical observable is a
// line of data qubits along one boundary.
//
// The steady-state rounds are compressed with REPEAT blocks where the family
// allows it, so circuit size does not grow with the number of rounds.
package experiment
