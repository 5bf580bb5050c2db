package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/contract"
	"github.com/roach88/tally/internal/iou"
	"github.com/roach88/tally/internal/store"
	"github.com/roach88/tally/internal/testutil"
)

var testDue = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

// newTestLedger builds a ledger over an in-memory store with a frozen
// clock 10 days before the standard due date and predictable linear IDs.
func newTestLedger(t *testing.T) (*Ledger, *store.Store, *testutil.FixedClock) {
	t.Helper()

	st, err := store.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	clock := testutil.NewFixedClock(testDue.Add(-10 * 24 * time.Hour))
	l, err := New(context.Background(), st,
		WithClock(clock),
		WithLinearIDs(testutil.NewSequenceLinearIDs("iou")),
	)
	require.NoError(t, err)
	return l, st, clock
}

func TestFinalize_CreateCommits(t *testing.T) {
	l, st, clock := newTestLedger(t)
	ctx := context.Background()

	tx := l.BuildCreate("alice", "bob", 100, 10, testDue)
	verdict, err := l.Finalize(ctx, tx)
	require.NoError(t, err)

	assert.True(t, verdict.Accepted)
	assert.NotEmpty(t, verdict.TransactionID)
	assert.Equal(t, int64(1), verdict.Seq)
	assert.Equal(t, clock.Now(), verdict.ValidatedAt)

	active, err := st.ActiveInstruments(ctx)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.EqualValues(t, "iou-1", active[0].Instrument.LinearID)
	assert.Equal(t, iou.StatusCreated, active[0].Instrument.Status)
}

func TestFinalize_RejectionPersistsNothing(t *testing.T) {
	l, st, _ := newTestLedger(t)
	ctx := context.Background()

	tx := l.BuildCreate("alice", "alice", -5, 10, testDue) // self-loan, bad principal
	verdict, err := l.Finalize(ctx, tx)
	require.NoError(t, err)

	assert.False(t, verdict.Accepted)
	assert.Empty(t, verdict.TransactionID)
	require.NotEmpty(t, verdict.Violations)

	rules := make([]contract.RuleCode, 0, len(verdict.Violations))
	for _, v := range verdict.Violations {
		rules = append(rules, v.Rule)
	}
	assert.Contains(t, rules, contract.RulePartiesDistinct)
	assert.Contains(t, rules, contract.RulePrincipalPositive)

	active, err := st.ActiveInstruments(ctx)
	require.NoError(t, err)
	assert.Empty(t, active)

	log, err := st.AllTransactions(ctx)
	require.NoError(t, err)
	assert.Empty(t, log)
}

func TestFinalize_PayLifecycle(t *testing.T) {
	l, st, _ := newTestLedger(t)
	ctx := context.Background()

	created, err := l.Finalize(ctx, l.BuildCreate("alice", "bob", 100, 10, testDue))
	require.NoError(t, err)
	require.True(t, created.Accepted)

	payTx, err := l.BuildPay(ctx, "iou-1", 100)
	require.NoError(t, err)

	paid, err := l.Finalize(ctx, payTx)
	require.NoError(t, err)
	assert.True(t, paid.Accepted, "violations: %v", paid.Violations)
	assert.Equal(t, int64(2), paid.Seq)

	// The created revision is consumed; only the terminal paid revision
	// remains live, and no further pay can be built against it.
	history, err := st.InstrumentHistory(ctx, "iou-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.True(t, history[0].Consumed)
	assert.Equal(t, iou.StatusPaid, history[1].Instrument.Status)
}

func TestFinalize_UnderpaymentRejected(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Finalize(ctx, l.BuildCreate("alice", "bob", 100, 10, testDue))
	require.NoError(t, err)

	payTx, err := l.BuildPay(ctx, "iou-1", 99)
	require.NoError(t, err)

	verdict, err := l.Finalize(ctx, payTx)
	require.NoError(t, err)
	assert.False(t, verdict.Accepted)
}

func TestFinalize_LatePaymentNeedsInterest(t *testing.T) {
	l, _, clock := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Finalize(ctx, l.BuildCreate("alice", "bob", 100, 10, testDue))
	require.NoError(t, err)

	// 150 days past due: floor(100 * 1.1^5) = 161.
	clock.Set(testDue.Add(150 * 24 * time.Hour))

	principalOnly, err := l.BuildPay(ctx, "iou-1", 100)
	require.NoError(t, err)
	verdict, err := l.Finalize(ctx, principalOnly)
	require.NoError(t, err)
	assert.False(t, verdict.Accepted)

	quote, err := l.SettlementQuote(ctx, "iou-1")
	require.NoError(t, err)
	assert.Equal(t, int64(161), quote.Amount)
	assert.Equal(t, int64(5), quote.PeriodsLate)

	exact, err := l.BuildPay(ctx, "iou-1", quote.Amount)
	require.NoError(t, err)
	verdict, err = l.Finalize(ctx, exact)
	require.NoError(t, err)
	assert.True(t, verdict.Accepted, "violations: %v", verdict.Violations)
}

func TestFinalize_DoublePayBlocked(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Finalize(ctx, l.BuildCreate("alice", "bob", 100, 0, testDue))
	require.NoError(t, err)

	payTx, err := l.BuildPay(ctx, "iou-1", 100)
	require.NoError(t, err)
	verdict, err := l.Finalize(ctx, payTx)
	require.NoError(t, err)
	require.True(t, verdict.Accepted)

	// No live created revision remains, so assembly itself fails.
	_, err = l.BuildPay(ctx, "iou-1", 100)
	assert.ErrorIs(t, err, store.ErrNotFound)

	// Replaying the stale transaction also fails: its input no longer
	// matches any live vault revision.
	_, err = l.Finalize(ctx, payTx)
	assert.Error(t, err)
}

func TestFinalize_SeqResumesAcrossReopen(t *testing.T) {
	st, err := store.Open(":memory:")
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	clock := testutil.NewFixedClock(testDue.Add(-time.Hour))

	l1, err := New(ctx, st, WithClock(clock), WithLinearIDs(testutil.NewSequenceLinearIDs("a")))
	require.NoError(t, err)
	v, err := l1.Finalize(ctx, l1.BuildCreate("alice", "bob", 100, 0, testDue))
	require.NoError(t, err)
	require.Equal(t, int64(1), v.Seq)

	// A second ledger over the same store resumes after seq 1.
	l2, err := New(ctx, st, WithClock(clock), WithLinearIDs(testutil.NewSequenceLinearIDs("b")))
	require.NoError(t, err)
	v, err = l2.Finalize(ctx, l2.BuildCreate("carol", "dave", 50, 0, testDue))
	require.NoError(t, err)
	assert.Equal(t, int64(2), v.Seq)
}

func TestBuildPay_MissingInstrument(t *testing.T) {
	l, _, _ := newTestLedger(t)
	_, err := l.BuildPay(context.Background(), "iou-missing", 100)
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestSettlementQuote_OnTime(t *testing.T) {
	l, _, _ := newTestLedger(t)
	ctx := context.Background()

	_, err := l.Finalize(ctx, l.BuildCreate("alice", "bob", 100, 10, testDue))
	require.NoError(t, err)

	quote, err := l.SettlementQuote(ctx, "iou-1")
	require.NoError(t, err)
	assert.Equal(t, int64(100), quote.Amount)
	assert.Equal(t, int64(0), quote.PeriodsLate)
}

func TestTransactionID_Deterministic(t *testing.T) {
	l, _, clock := newTestLedger(t)
	tx := l.BuildCreate("alice", "bob", 100, 10, testDue)

	a := MustTransactionID(tx, 1, clock.Now())
	b := MustTransactionID(tx, 1, clock.Now())
	assert.Equal(t, a, b)

	// Signer order is canonicalized away.
	reordered := tx
	reordered.Signers = []iou.Party{"bob", "alice"}
	assert.Equal(t, a, MustTransactionID(reordered, 1, clock.Now()))

	// Seq participates in identity.
	assert.NotEqual(t, a, MustTransactionID(tx, 2, clock.Now()))
}
