// Package tracker maps layered measurement keys to positions in the
// measurement record.
//
// The tracker stores absolute positions only. A record reference is computed
// when a key is resolved, as the bound position minus the number of outcomes
// recorded so far, so references stay correct no matter how many unrelated
// measurements were appended in between.
//
// Groups are derived keys standing for the parity of earlier keys. Resolving a
// group expands it, recursively, into the concatenation of its constituents'
// references. Nothing is deduplicated: a reference that appears twice cancels
// in the consumer's parity and that is intentional.
package tracker
