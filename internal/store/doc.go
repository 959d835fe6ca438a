// Package store persists solved answers in SQLite.
//
// The store keeps four tables:
//   - circuits: source text keyed by circuit digest
//   - runs: one row per solve, in logical sequence order
//   - answers: the latest value per answer id (circuit, part and the
//     settings that affect the result)
//   - cycles: the cycle description of every subgraph a run decomposed
//
// Recording an answer that differs from the stored value reports the
// change so callers can surface drift between engine versions.
//
// All listings are ordered by sequence or by identity with COLLATE
// BINARY, and empty results are empty slices, never nil.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// Digests are computed by internal/digest.
package store
