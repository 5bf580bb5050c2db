package iou

import "github.com/google/uuid"

// LinearIDGenerator mints identifiers for freshly issued instruments.
// Implemented by UUIDv7Generator (production) and the fixed-sequence
// generator in internal/testutil (tests).
type LinearIDGenerator interface {
	Generate() LinearID
}

// UUIDv7Generator generates time-sortable UUIDv7 linear IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, making IDs
// sortable by issuance time, which is convenient when eyeballing the
// vault.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 as a hyphenated 36-character string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() LinearID {
	return LinearID(uuid.Must(uuid.NewV7()).String())
}
