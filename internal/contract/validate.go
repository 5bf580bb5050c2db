package contract

import (
	"time"

	"github.com/roach88/tally/internal/iou"
)

// Validate is the transition validator's public contract.
//
// It evaluates every applicable rule for the transaction's command and
// returns a Result carrying all failed rules (empty on acceptance). Rules
// that examine "the produced instrument" or "the consumed instrument"
// only run when the corresponding cardinality rule holds, since there is
// no single instrument to examine otherwise.
//
// Validate is a pure function: no I/O, no hidden state, no ambient clock.
// "now" feeds the settlement-amount check only; see RequiredSettlement
// for the boundary hazard that parameter carries.
func Validate(tx Transaction, now time.Time) Result {
	v := &violations{}

	switch tx.Command.(type) {
	case Create:
		validateCreate(tx, v)
	case Pay:
		validatePay(tx, now, v)
	case nil:
		v.fail(RuleCommandPresent, "transaction carries no command")
	}

	return Result{Violations: v.list}
}

// validateCreate checks issuance of a new instrument.
// All checks are evaluated; none short-circuits.
func validateCreate(tx Transaction, v *violations) {
	if len(tx.Inputs) != 0 {
		v.fail(RuleCreateConsumesNothing,
			"a create transition must not consume instruments, got %d", len(tx.Inputs))
	}
	if len(tx.Outputs) != 1 {
		v.fail(RuleCreateProducesOne,
			"a create transition must produce exactly one instrument, got %d", len(tx.Outputs))
		return // No single produced instrument to examine.
	}

	out := tx.Outputs[0]

	if out.Lender == out.Borrower {
		v.fail(RulePartiesDistinct,
			"lender and borrower must differ, both are %q", out.Lender)
	}
	checkSigners(out, tx.SignerSet(), v)
	if out.Principal <= 0 {
		v.fail(RulePrincipalPositive,
			"principal must be positive, got %d", out.Principal)
	}
	if out.Status != iou.StatusCreated {
		v.fail(RuleCreatedStatus,
			"a new instrument must have status %q, got %q", iou.StatusCreated, out.Status)
	}
	if out.InterestRatePercent < 0 {
		v.fail(RuleRateNonNegative,
			"interest rate must not be negative, got %d", out.InterestRatePercent)
	}
	if out.PaymentValue != 0 {
		v.fail(RuleNoPaymentAtCreation,
			"a new instrument must have payment value 0, got %d", out.PaymentValue)
	}
}

// validatePay checks settlement of an existing instrument.
// All checks are evaluated; none short-circuits.
func validatePay(tx Transaction, now time.Time, v *violations) {
	if len(tx.Inputs) != 1 {
		v.fail(RulePayConsumesOne,
			"a pay transition must consume exactly one instrument, got %d", len(tx.Inputs))
	}
	if len(tx.Outputs) != 1 {
		v.fail(RulePayProducesOne,
			"a pay transition must produce exactly one instrument, got %d", len(tx.Outputs))
	}
	if len(tx.Inputs) != 1 || len(tx.Outputs) != 1 {
		return // Per-instrument checks need the (input, output) pair.
	}

	in := tx.Inputs[0]
	out := tx.Outputs[0]

	checkSigners(out, tx.SignerSet(), v)
	if out.PaymentValue <= 0 {
		v.fail(RulePaymentPositive,
			"payment value must be positive, got %d", out.PaymentValue)
	}
	if out.PaymentValue < in.Principal {
		v.fail(RulePaymentCoversPrincipal,
			"payment value %d is below principal %d", out.PaymentValue, in.Principal)
	}
	if in.Status != iou.StatusCreated {
		v.fail(RuleInputStatusCreated,
			"consumed instrument must have status %q, got %q", iou.StatusCreated, in.Status)
	}
	if out.Status != iou.StatusPaid {
		v.fail(RuleOutputStatusPaid,
			"produced instrument must have status %q, got %q", iou.StatusPaid, out.Status)
	}
	if required := RequiredSettlement(in, now); out.PaymentValue != required {
		v.fail(RuleSettlementExact,
			"payment value %d does not equal required settlement %d (%d full 30-day periods late)",
			out.PaymentValue, required, max(PeriodsLate(in.DueDate, now), 0))
	}
}

// checkSigners records a violation unless every participant of the
// produced instrument appears in the signer set.
func checkSigners(out iou.Instrument, signers map[iou.Party]bool, v *violations) {
	if missing := missingSigners(out, signers); len(missing) > 0 {
		v.fail(RuleSignersComplete,
			"signer set is missing participants %v", missing)
	}
}
