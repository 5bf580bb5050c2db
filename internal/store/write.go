package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// execQuerier is the subset of *sql.Tx the consume guard needs.
type execQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// AppendTransaction atomically appends a committed transaction: the log
// row, consumption marks on every consumed revision, and the produced
// revisions.
//
// Uses ON CONFLICT(id) DO NOTHING over the content-addressed transaction
// ID for idempotency - re-appending a transaction that is already in the
// log is a silent no-op and does NOT re-consume anything.
//
// Consuming a revision that is missing or already spent fails the whole
// append with a ConsumeConflictError and rolls back.
func (s *Store) AppendTransaction(ctx context.Context, rec Record) error {
	signersJSON, err := marshalSigners(rec.Signers)
	if err != nil {
		return fmt.Errorf("append transaction: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("append transaction: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	res, err := tx.ExecContext(ctx, `
		INSERT INTO transactions (id, command, seq, validation_time, signers)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		rec.ID,
		rec.Command,
		rec.Seq,
		rec.ValidationTime.Unix(),
		signersJSON,
	)
	if err != nil {
		return fmt.Errorf("append transaction: insert log row: %w", err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("append transaction: rows affected: %w", err)
	}
	if rows == 0 {
		// Already committed under this ID; idempotent no-op.
		return nil
	}

	for _, ref := range rec.Consumes {
		if err := consumeRevision(ctx, tx, ref, rec.ID); err != nil {
			return fmt.Errorf("append transaction %s: %w", rec.ID, err)
		}
	}

	for _, rev := range rec.Produces {
		in := rev.Instrument
		_, err := tx.ExecContext(ctx, `
			INSERT INTO instruments
			(linear_id, revision, lender, borrower, principal, interest_rate,
			 due_date, payment_value, status, seq, produced_by, consumed_by)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)
		`,
			string(in.LinearID),
			rev.Revision,
			string(in.Lender),
			string(in.Borrower),
			in.Principal,
			in.InterestRatePercent,
			in.DueDate.Unix(),
			in.PaymentValue,
			in.Status.String(),
			rec.Seq,
			rec.ID,
		)
		if err != nil {
			return fmt.Errorf("append transaction %s: insert revision %s/%d: %w",
				rec.ID, in.LinearID, rev.Revision, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("append transaction: commit: %w", err)
	}

	return nil
}

// consumeRevision marks one revision spent, guarding against double
// spends with a conditional UPDATE.
func consumeRevision(ctx context.Context, tx execQuerier, ref Ref, byID string) error {
	res, err := tx.ExecContext(ctx, `
		UPDATE instruments
		SET consumed_by = ?
		WHERE linear_id = ? AND revision = ? AND consumed_by IS NULL
	`, byID, string(ref.LinearID), ref.Revision)
	if err != nil {
		return fmt.Errorf("consume %s/%d: %w", ref.LinearID, ref.Revision, err)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("consume %s/%d: rows affected: %w", ref.LinearID, ref.Revision, err)
	}
	if rows > 0 {
		return nil
	}

	// Nothing updated: either the revision never existed or it is spent.
	var spentBy *string
	err = tx.QueryRowContext(ctx, `
		SELECT consumed_by FROM instruments WHERE linear_id = ? AND revision = ?
	`, string(ref.LinearID), ref.Revision).Scan(&spentBy)
	if errors.Is(err, sql.ErrNoRows) {
		return &ConsumeConflictError{Ref: ref, Missing: true}
	}
	if err != nil {
		return fmt.Errorf("consume %s/%d: %w", ref.LinearID, ref.Revision, err)
	}

	conflict := &ConsumeConflictError{Ref: ref}
	if spentBy != nil {
		conflict.SpentBy = *spentBy
	}
	return conflict
}
