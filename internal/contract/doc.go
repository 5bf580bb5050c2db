// Package contract implements the transition validator for debt
// instruments.
//
// The validator is the only decision logic in the system: given a fully
// materialized transaction (consumed instruments, produced instruments,
// one command, the resolved signer set) and a clock reading, it
// deterministically accepts or rejects the transition. Mutually
// distrusting parties run this same code independently and must reach
// identical verdicts on identical input, which is what gates commitment
// to the shared ledger.
//
// ARCHITECTURE:
//
// Pure function. Validate has no state, performs no I/O, and never reads
// a wall clock; "now" is an explicit parameter. It is safe to call
// concurrently and repeatedly, and calling it twice with the same inputs
// yields the same verdict.
//
// All-checks evaluation. Every applicable rule is evaluated; the verdict
// carries every failed rule, not just the first, so a caller can report
// the complete violation list. Checks that depend on a cardinality rule
// (e.g. field checks on "the produced instrument") only run when that
// cardinality holds.
//
// Closed command union. Command is a sealed interface with exactly two
// cases, Create and Pay. A transaction built in-process cannot carry an
// unrecognized command; the remaining runtime failure mode is an absent
// (nil) command, which is a structural rejection.
//
// KNOWN HAZARD:
//
// RequiredSettlement is evaluated against the caller-supplied clock, so
// two honest validators checking the same payment moments apart can
// compute different required amounts when "now" straddles a 30-day
// boundary. That behavior is part of the contract and is deliberately NOT
// smoothed over here; see the note on RequiredSettlement.
package contract
