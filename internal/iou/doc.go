// Package iou defines the value types of the debt instrument domain.
//
// An Instrument is an immutable value. It is never mutated in place: a
// payment produces a NEW instrument value linked to its predecessor by
// LinearID. The two revisions of the same logical debt are therefore not
// identity-equal, only linearly related.
//
// The package also provides the deterministic serialization primitives the
// ledger builds on:
//
//   - MarshalCanonical: RFC 8785 canonical JSON (UTF-16 key order, NFC
//     normalized strings, floats forbidden) for content-addressed identity
//   - HashWithDomain: SHA-256 with domain separation
//   - LinearID generation: UUIDv7 in production, fixed sequences in tests
//
// CRITICAL PATTERNS:
//
// No floats anywhere in the data model. Principal, rates and payments are
// integers; settlement arithmetic lives in the contract package and floors
// back to an integer before any value enters this package.
//
// Status is a closed enumeration. There is no way to construct a third
// state, and JSON decoding rejects unknown status strings, so transition
// checks can be written as exhaustive comparisons instead of string
// matching.
package iou
