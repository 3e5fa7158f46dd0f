// Package store persists recipe registry snapshots in SQLite.
//
// Each registry reload is saved as one snapshot: a reloads row keyed by
// the reload UUID and one recipes row per recipe holding its serializer
// network payload. Snapshots are written in a single transaction, so a
// reader sees either the whole snapshot or none of it.
//
// # Identity
//
// Every recipe row carries a content hash, SHA-256 with domain
// separation over its serializer id, recipe id and payload. The snapshot
// hash covers the ordered recipe hashes. Both are re-checked on load.
//
// # Ordering
//
//   - reloads are ordered by seq, a logical clock, never by timestamps
//   - recipes within a snapshot are ordered by seq, which follows id order
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
