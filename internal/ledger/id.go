package ledger

import (
	"fmt"
	"slices"
	"time"

	"github.com/roach88/tally/internal/contract"
	"github.com/roach88/tally/internal/iou"
)

// TransactionID computes the content-addressed identity of a transition
// at a given seq and validation instant.
//
// The hash covers the command, every consumed and produced instrument,
// the sorted signer set, the seq and the validation instant, all in
// canonical JSON under the tally/transaction/v1 domain. Identical
// transitions hash identically on every party's machine; any mutation of
// a stored row breaks the recorded ID, which is what the audit leans on
// for tamper detection.
func TransactionID(tx contract.Transaction, seq int64, validatedAt time.Time) (string, error) {
	signers := make([]string, len(tx.Signers))
	for i, p := range tx.Signers {
		signers[i] = string(p)
	}
	slices.Sort(signers)

	obj := map[string]any{
		"command":         tx.Command.Name(),
		"inputs":          instrumentList(tx.Inputs),
		"outputs":         instrumentList(tx.Outputs),
		"signers":         signers,
		"seq":             seq,
		"validation_time": validatedAt.Unix(),
	}

	canonical, err := iou.MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("TransactionID: failed to marshal: %w", err)
	}

	return iou.HashWithDomain(iou.DomainTransaction, canonical), nil
}

// MustTransactionID is like TransactionID but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustTransactionID(tx contract.Transaction, seq int64, validatedAt time.Time) string {
	id, err := TransactionID(tx, seq, validatedAt)
	if err != nil {
		panic(err)
	}
	return id
}

func instrumentList(instruments []iou.Instrument) []any {
	list := make([]any, len(instruments))
	for i, in := range instruments {
		list[i] = in.CanonicalMap()
	}
	return list
}
