package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/roach88/tally/internal/contract"
	"github.com/roach88/tally/internal/iou"
)

// BuildCreate assembles an issuance transaction: a fresh linear ID, one
// produced instrument in status created, and both participants as the
// signer set.
//
// Assembly performs no validation; the returned transaction still has to
// pass Finalize. This mirrors the assembler/validator split - the
// assembler guarantees structure, the validator judges semantics.
func (l *Ledger) BuildCreate(lender, borrower iou.Party, principal, ratePercent int64, due time.Time) contract.Transaction {
	instrument := iou.Instrument{
		Lender:              lender,
		Borrower:            borrower,
		Principal:           principal,
		InterestRatePercent: ratePercent,
		DueDate:             due.UTC(),
		PaymentValue:        0,
		Status:              iou.StatusCreated,
		LinearID:            l.idGen.Generate(),
	}

	return contract.Transaction{
		Outputs: []iou.Instrument{instrument},
		Command: contract.Create{},
		Signers: instrument.Participants(),
	}
}

// BuildPay assembles a settlement transaction for the live revision of
// the given instrument, paying the given amount.
//
// The amount is recorded as-is; whether it matches the required
// settlement is the validator's call at finalization time.
func (l *Ledger) BuildPay(ctx context.Context, id iou.LinearID, amount int64) (contract.Transaction, error) {
	live, err := l.store.ActiveByLinearID(ctx, id)
	if err != nil {
		return contract.Transaction{}, fmt.Errorf("build pay: %w", err)
	}

	in := live.Instrument
	return contract.Transaction{
		Inputs:  []iou.Instrument{in},
		Outputs: []iou.Instrument{in.WithPayment(amount)},
		Command: contract.Pay{},
		Signers: in.Participants(),
	}, nil
}

// Quote is a settlement quote: what closing the instrument costs right
// now, and how that number came about.
type Quote struct {
	LinearID    iou.LinearID `json:"linear_id"`
	Principal   int64        `json:"principal"`
	PeriodsLate int64        `json:"periods_late"`
	Amount      int64        `json:"amount"`
	QuotedAt    time.Time    `json:"quoted_at"`
}

// SettlementQuote computes the exact amount that settles the live
// revision of the given instrument at this instant.
//
// The quote is only as durable as the clock: once a 30-day boundary
// passes, the required amount changes and a payment built from a stale
// quote will be rejected.
func (l *Ledger) SettlementQuote(ctx context.Context, id iou.LinearID) (Quote, error) {
	live, err := l.store.ActiveByLinearID(ctx, id)
	if err != nil {
		return Quote{}, fmt.Errorf("settlement quote: %w", err)
	}

	now := l.clock.Now()
	in := live.Instrument
	return Quote{
		LinearID:    id,
		Principal:   in.Principal,
		PeriodsLate: max(contract.PeriodsLate(in.DueDate, now), 0),
		Amount:      contract.RequiredSettlement(in, now),
		QuotedAt:    now,
	}, nil
}
