// Package store provides SQLite-backed storage for the catalog of generated
// circuit files.
//
// The catalog records:
//   - Runs: one row per generation run, identified by a UUIDv7
//   - Circuits: one row per written circuit file, keyed by file name and
//     content hash
//
// # Invariants
//
// Idempotent writes
//   - PRIMARY KEY(name, content_hash) with ON CONFLICT DO NOTHING
//   - Regenerating an unchanged circuit is a no-op, a changed one is a new row
//
// Logical ordering
//   - Runs carry a seq INTEGER assigned at insert time, NEVER a timestamp
//   - Listing queries end in ORDER BY ... COLLATE BINARY so results are stable
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Metadata is stored as canonical JSON produced by package canon.
package store
