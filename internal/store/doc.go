// Package store provides SQLite-backed storage for session inputs.
//
// A session is imported from its JSON files once and read back for every
// computation:
//   - sessions: id and term years
//   - members: roster with chamber, party and distance
//   - role_assignments: who held which role, in import order
//
// Results are not stored. Every query recomputes from these rows and the
// catalog, so a catalog or configuration change never leaves stale totals
// behind.
//
// # Deterministic reads
//
// Members are read ORDER BY member_id COLLATE BINARY and assignments
// ORDER BY seq, the position of the row in roles.json. Two reads of the
// same session return identical values.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
