package ledger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/roach88/tally/internal/contract"
	"github.com/roach88/tally/internal/iou"
	"github.com/roach88/tally/internal/store"
)

// Ledger validates proposed transitions and appends the accepted ones to
// durable storage.
type Ledger struct {
	store  *store.Store
	clock  contract.Clock
	seq    *SeqClock
	idGen  iou.LinearIDGenerator
	logger *slog.Logger

	// commitMu serializes Finalize so seq assignment and the append are
	// one step; validation itself runs outside any lock.
	commitMu sync.Mutex
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock sets the wall clock used to resolve the validation instant.
// Defaults to contract.SystemClock.
func WithClock(clock contract.Clock) Option {
	return func(l *Ledger) {
		l.clock = clock
	}
}

// WithLinearIDs sets the generator minting linear IDs for new
// instruments. Defaults to iou.UUIDv7Generator.
func WithLinearIDs(gen iou.LinearIDGenerator) Option {
	return func(l *Ledger) {
		l.idGen = gen
	}
}

// WithLogger sets the structured logger. Defaults to a discarding
// logger so library use stays quiet.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		l.logger = logger
	}
}

// New creates a Ledger over an open store, resuming the commit clock
// from the highest committed seq.
func New(ctx context.Context, st *store.Store, opts ...Option) (*Ledger, error) {
	maxSeq, err := st.MaxSeq(ctx)
	if err != nil {
		return nil, fmt.Errorf("open ledger: %w", err)
	}

	l := &Ledger{
		store:  st,
		clock:  contract.SystemClock{},
		seq:    NewSeqClockAt(maxSeq),
		idGen:  iou.UUIDv7Generator{},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l, nil
}

// Verdict is the outcome of a finalization attempt.
type Verdict struct {
	Accepted bool `json:"accepted"`

	// TransactionID and Seq identify the committed transaction.
	// Empty/zero on rejection - nothing was persisted.
	TransactionID string `json:"transaction_id,omitempty"`
	Seq           int64  `json:"seq,omitempty"`

	// ValidatedAt is the instant the validator evaluated at. Recorded on
	// the log row for accepted transactions so the verdict can be
	// reproduced later.
	ValidatedAt time.Time `json:"validated_at"`

	// Violations lists every failed rule on rejection, verbatim for the
	// initiating party.
	Violations []contract.Violation `json:"violations,omitempty"`
}

// Finalize validates the proposed transition and, if accepted, commits
// it to the ledger. Rejections are returned in the Verdict, never as an
// error; the error return is for storage failures only.
//
// The validation instant is resolved exactly once, before validation,
// and stamped onto the committed row.
func (l *Ledger) Finalize(ctx context.Context, tx contract.Transaction) (Verdict, error) {
	now := l.clock.Now()

	result := contract.Validate(tx, now)
	if !result.Accepted() {
		l.logger.Info("transaction rejected",
			"command", commandName(tx.Command),
			"violations", len(result.Violations))
		return Verdict{ValidatedAt: now, Violations: result.Violations}, nil
	}

	consumes, produces, err := l.resolveRevisions(ctx, tx)
	if err != nil {
		return Verdict{}, err
	}

	l.commitMu.Lock()
	defer l.commitMu.Unlock()

	seq := l.seq.Next()
	id, err := TransactionID(tx, seq, now)
	if err != nil {
		return Verdict{}, fmt.Errorf("finalize: %w", err)
	}

	rec := store.Record{
		ID:             id,
		Command:        tx.Command.Name(),
		Seq:            seq,
		ValidationTime: now,
		Signers:        tx.Signers,
		Consumes:       consumes,
		Produces:       produces,
	}
	if err := l.store.AppendTransaction(ctx, rec); err != nil {
		return Verdict{}, fmt.Errorf("finalize: %w", err)
	}

	l.logger.Info("transaction committed",
		"id", id,
		"command", tx.Command.Name(),
		"seq", seq)

	return Verdict{
		Accepted:      true,
		TransactionID: id,
		Seq:           seq,
		ValidatedAt:   now,
	}, nil
}

// resolveRevisions maps the transaction's instrument values onto vault
// revisions: each input must be the live revision of its linear ID with
// exactly the provided field values, and each output becomes the next
// revision of its linear ID.
func (l *Ledger) resolveRevisions(ctx context.Context, tx contract.Transaction) ([]store.Ref, []store.Revision, error) {
	nextRevision := make(map[iou.LinearID]int64)

	var consumes []store.Ref
	for _, in := range tx.Inputs {
		live, err := l.store.ActiveByLinearID(ctx, in.LinearID)
		if err != nil {
			return nil, nil, fmt.Errorf("finalize: resolve input: %w", err)
		}
		if iou.MustInstrumentFingerprint(live.Instrument) != iou.MustInstrumentFingerprint(in) {
			return nil, nil, fmt.Errorf("finalize: input %s does not match the live vault revision", in.LinearID)
		}
		consumes = append(consumes, live.Ref())
		nextRevision[in.LinearID] = live.Revision + 1
	}

	var produces []store.Revision
	for _, out := range tx.Outputs {
		rev := nextRevision[out.LinearID]
		if rev == 0 {
			rev = 1 // fresh issuance
		}
		produces = append(produces, store.Revision{Instrument: out, Revision: rev})
	}

	return consumes, produces, nil
}

// commandName tolerates the nil command that a structural rejection
// carries.
func commandName(cmd contract.Command) string {
	if cmd == nil {
		return "<none>"
	}
	return cmd.Name()
}
