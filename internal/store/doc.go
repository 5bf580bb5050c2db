// Package store provides SQLite-backed durable storage for the IOU
// ledger.
//
// The store holds two tables:
//
//   - transactions: the append-only commit log. One row per accepted
//     transition, stamped with a monotonic seq and the wall-clock instant
//     the validator evaluated it at. Rows are never updated or deleted.
//   - instruments: the vault. One row per instrument REVISION, keyed by
//     (linear_id, revision). A revision is live until a later transaction
//     consumes it; consumption sets consumed_by, it never deletes the row,
//     so the full history of every debt stays queryable.
//
// # Critical Patterns
//
// Append idempotency: transaction inserts use ON CONFLICT(id) DO NOTHING
// over content-addressed IDs, so re-appending a committed transaction is
// a no-op rather than an error.
//
// Double-spend guard: consuming a revision is a conditional UPDATE
// (... WHERE consumed_by IS NULL). The validator already rejects paying a
// paid instrument; this guard additionally closes the race where two
// accepted transactions target the same live revision.
//
// Deterministic reads: every multi-row query orders by
// seq ASC, linear_id COLLATE BINARY ASC so independent readers see
// identical sequences, which the audit replay depends on.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL: balance durability/performance
//   - busy_timeout=5000: wait for locks up to 5 seconds
//   - foreign_keys=ON: enforce referential integrity
package store
