// Package ledger is the commit path between the transition validator and
// durable storage.
//
// ARCHITECTURE:
//
// Single-writer finalization. Finalize serializes commits behind one
// mutex: each accepted transaction gets the next monotonic seq and is
// appended atomically before the next finalization proceeds. The
// validator itself stays freely concurrent - only the append is
// serialized.
//
// Verdicts gate persistence. A rejected transaction is NEVER persisted;
// the verdict, with every failed rule, is returned to the initiator
// verbatim. There is no partial success and nothing to retry - the
// initiator corrects and resubmits a new transaction.
//
// Reproducible commits. Finalize resolves "now" exactly once from the
// injected clock and records that instant on the log row. Audit replays
// the committed log by re-running the validator for every transaction at
// its recorded instant, so a healthy ledger audits clean regardless of
// when the audit runs, clock-skew hazard and all. Transaction IDs are
// content-addressed over the canonical form of the full transition, so
// the audit also detects any after-the-fact tampering with stored rows.
package ledger
