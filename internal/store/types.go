package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/roach88/tally/internal/iou"
)

// ErrNotFound is returned by single-row reads when no matching row exists.
var ErrNotFound = errors.New("not found in vault")

// Ref identifies one instrument revision in the vault.
type Ref struct {
	LinearID iou.LinearID
	Revision int64
}

// Revision pairs an instrument value with its vault revision number and
// liveness. Revision numbers start at 1 for the issuing transition.
type Revision struct {
	Instrument iou.Instrument
	Revision   int64
	Consumed   bool
}

// Ref returns the revision's vault reference.
func (r Revision) Ref() Ref {
	return Ref{LinearID: r.Instrument.LinearID, Revision: r.Revision}
}

// Record is a committed transaction as written to the log: the verdict
// inputs the audit replay needs to reproduce the validation.
type Record struct {
	ID             string
	Command        string
	Seq            int64
	ValidationTime time.Time
	Signers        []iou.Party
	Consumes       []Ref
	Produces       []Revision
}

// Committed is a transaction read back from the log with its consumed and
// produced instrument values resolved from the vault.
type Committed struct {
	ID             string
	Command        string
	Seq            int64
	ValidationTime time.Time
	Signers        []iou.Party
	Inputs         []Revision
	Outputs        []Revision
}

// ConsumeConflictError reports an attempt to consume a vault revision
// that is missing or already spent. The validator catches the status
// transition; this error closes the storage-level race between two
// accepted transactions targeting the same live revision.
type ConsumeConflictError struct {
	Ref      Ref
	Missing  bool   // true if the revision does not exist at all
	SpentBy  string // consuming transaction ID when already spent
}

func (e *ConsumeConflictError) Error() string {
	if e.Missing {
		return fmt.Sprintf("instrument %s rev %d does not exist in the vault", e.Ref.LinearID, e.Ref.Revision)
	}
	return fmt.Sprintf("instrument %s rev %d already consumed by transaction %s", e.Ref.LinearID, e.Ref.Revision, e.SpentBy)
}

// IsConsumeConflict reports whether err is a ConsumeConflictError.
// Uses errors.As to handle wrapped errors.
func IsConsumeConflict(err error) bool {
	var ce *ConsumeConflictError
	return errors.As(err, &ce)
}
