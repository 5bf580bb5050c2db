// Package draft loads proposed transitions from CUE files.
//
// A draft is the operator-facing source format for a transition: a small
// CUE struct naming the command and its arguments. Drafts are checked
// against an embedded CUE schema before any field is read, so type
// errors surface with file/line positions instead of as validation
// rejections.
//
// A draft is not a transaction. It carries the operator's intent
// (command plus arguments); assembling the full transition, including
// the vault lookup a payment needs, is the ledger's job.
package draft
