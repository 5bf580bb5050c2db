package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/roach88/tally/internal/iou"
)

// ActiveInstruments returns every live (unconsumed) instrument revision.
// Results are ordered deterministically: ORDER BY seq ASC, linear_id
// COLLATE BINARY ASC, so independent readers see identical sequences.
//
// Returns an empty slice (not nil) when the vault is empty.
func (s *Store) ActiveInstruments(ctx context.Context) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+revisionColumns+`
		FROM instruments
		WHERE consumed_by IS NULL
		ORDER BY seq ASC, linear_id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query active instruments: %w", err)
	}
	defer rows.Close()

	return collectRevisions(rows)
}

// ActiveByLinearID returns the live revision of one logical instrument.
// Returns ErrNotFound when no live revision exists (never issued, or
// already settled).
func (s *Store) ActiveByLinearID(ctx context.Context, id iou.LinearID) (Revision, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+revisionColumns+`
		FROM instruments
		WHERE linear_id = ? AND consumed_by IS NULL
	`, string(id))

	rev, err := scanRevision(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Revision{}, fmt.Errorf("instrument %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Revision{}, fmt.Errorf("read instrument %s: %w", id, err)
	}
	return rev, nil
}

// InstrumentHistory returns every revision of one logical instrument in
// commit order, consumed revisions included.
func (s *Store) InstrumentHistory(ctx context.Context, id iou.LinearID) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+revisionColumns+`
		FROM instruments
		WHERE linear_id = ?
		ORDER BY revision ASC
	`, string(id))
	if err != nil {
		return nil, fmt.Errorf("query history for %s: %w", id, err)
	}
	defer rows.Close()

	return collectRevisions(rows)
}

// AllTransactions reads the full commit log in seq order with consumed
// and produced instrument values resolved. This is the audit replay feed.
func (s *Store) AllTransactions(ctx context.Context) ([]Committed, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, command, seq, validation_time, signers
		FROM transactions
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var committed []Committed
	for rows.Next() {
		var (
			c           Committed
			validatedAt int64
			signersJSON string
		)
		if err := rows.Scan(&c.ID, &c.Command, &c.Seq, &validatedAt, &signersJSON); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		c.ValidationTime = time.Unix(validatedAt, 0).UTC()
		c.Signers, err = unmarshalSigners(signersJSON)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", c.ID, err)
		}
		committed = append(committed, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	for i := range committed {
		if err := s.resolveInstruments(ctx, &committed[i]); err != nil {
			return nil, err
		}
	}

	if committed == nil {
		committed = []Committed{}
	}
	return committed, nil
}

// ReadTransaction retrieves a single committed transaction by ID.
// Returns ErrNotFound if no such transaction was committed.
func (s *Store) ReadTransaction(ctx context.Context, id string) (Committed, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, command, seq, validation_time, signers
		FROM transactions
		WHERE id = ?
	`, id)

	var (
		c           Committed
		validatedAt int64
		signersJSON string
	)
	err := row.Scan(&c.ID, &c.Command, &c.Seq, &validatedAt, &signersJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return Committed{}, fmt.Errorf("transaction %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Committed{}, fmt.Errorf("read transaction %s: %w", id, err)
	}
	c.ValidationTime = time.Unix(validatedAt, 0).UTC()
	c.Signers, err = unmarshalSigners(signersJSON)
	if err != nil {
		return Committed{}, fmt.Errorf("transaction %s: %w", id, err)
	}

	if err := s.resolveInstruments(ctx, &c); err != nil {
		return Committed{}, err
	}
	return c, nil
}

// MaxSeq returns the highest committed seq, or 0 for an empty log.
// The ledger resumes its commit clock from this on open.
func (s *Store) MaxSeq(ctx context.Context) (int64, error) {
	var seq sql.NullInt64
	if err := s.db.QueryRowContext(ctx, `SELECT MAX(seq) FROM transactions`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("query max seq: %w", err)
	}
	return seq.Int64, nil
}

// resolveInstruments attaches the consumed and produced revisions of one
// committed transaction, each in deterministic order.
func (s *Store) resolveInstruments(ctx context.Context, c *Committed) error {
	inputs, err := s.revisionsWhere(ctx, "consumed_by = ?", c.ID)
	if err != nil {
		return fmt.Errorf("transaction %s: resolve inputs: %w", c.ID, err)
	}
	outputs, err := s.revisionsWhere(ctx, "produced_by = ?", c.ID)
	if err != nil {
		return fmt.Errorf("transaction %s: resolve outputs: %w", c.ID, err)
	}
	c.Inputs = inputs
	c.Outputs = outputs
	return nil
}

// revisionsWhere runs a vault query with a fixed predicate. The predicate
// strings are compile-time constants in this file; no caller-supplied SQL
// is ever interpolated.
func (s *Store) revisionsWhere(ctx context.Context, predicate string, arg any) ([]Revision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+revisionColumns+`
		FROM instruments
		WHERE `+predicate+`
		ORDER BY seq ASC, linear_id COLLATE BINARY ASC
	`, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectRevisions(rows)
}

// collectRevisions drains a revision query, returning an empty slice
// rather than nil for no rows.
func collectRevisions(rows *sql.Rows) ([]Revision, error) {
	var revs []Revision
	for rows.Next() {
		rev, err := scanRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan instrument row: %w", err)
		}
		revs = append(revs, rev)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate instrument rows: %w", err)
	}

	if revs == nil {
		revs = []Revision{}
	}
	return revs, nil
}
