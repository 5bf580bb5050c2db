package store

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/roach88/tally/internal/iou"
)

// marshalSigners serializes a signer set as a canonical JSON array.
// Signers are sorted first so the stored form is independent of the
// order the assembler happened to list them in.
func marshalSigners(signers []iou.Party) (string, error) {
	names := make([]string, len(signers))
	for i, p := range signers {
		names[i] = string(p)
	}
	slices.Sort(names)

	data, err := iou.MarshalCanonical(names)
	if err != nil {
		return "", fmt.Errorf("marshal signers: %w", err)
	}
	return string(data), nil
}

// unmarshalSigners decodes the stored signer array.
func unmarshalSigners(data string) ([]iou.Party, error) {
	var names []string
	if err := json.Unmarshal([]byte(data), &names); err != nil {
		return nil, fmt.Errorf("unmarshal signers: %w", err)
	}
	signers := make([]iou.Party, len(names))
	for i, n := range names {
		signers[i] = iou.Party(n)
	}
	return signers, nil
}

// scanner abstracts *sql.Row and *sql.Rows for shared scan helpers.
type scanner interface {
	Scan(dest ...any) error
}

// scanRevision reads one vault row. The column order must match
// revisionColumns.
func scanRevision(sc scanner) (Revision, error) {
	var (
		rev          Revision
		linearID     string
		lender       string
		borrower     string
		dueUnix      int64
		statusName   string
		consumedBy   *string
	)

	err := sc.Scan(
		&linearID,
		&rev.Revision,
		&lender,
		&borrower,
		&rev.Instrument.Principal,
		&rev.Instrument.InterestRatePercent,
		&dueUnix,
		&rev.Instrument.PaymentValue,
		&statusName,
		&consumedBy,
	)
	if err != nil {
		return Revision{}, err
	}

	status, err := iou.ParseStatus(statusName)
	if err != nil {
		return Revision{}, fmt.Errorf("scan instrument %s: %w", linearID, err)
	}

	rev.Instrument.LinearID = iou.LinearID(linearID)
	rev.Instrument.Lender = iou.Party(lender)
	rev.Instrument.Borrower = iou.Party(borrower)
	rev.Instrument.DueDate = time.Unix(dueUnix, 0).UTC()
	rev.Instrument.Status = status
	rev.Consumed = consumedBy != nil
	return rev, nil
}

// revisionColumns is the column list scanRevision expects.
const revisionColumns = `linear_id, revision, lender, borrower, principal,
	interest_rate, due_date, payment_value, status, consumed_by`
