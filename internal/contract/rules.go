package contract

import "fmt"

// RuleCode names a single precondition whose failure blocks commitment.
// Codes are stable identifiers surfaced verbatim to the initiating party;
// messages are human-readable elaborations.
type RuleCode string

// Structural rules. A structural rejection means the transaction is
// malformed for its declared command and must be discarded, not retried.
const (
	// RuleCommandPresent requires exactly one recognized command.
	RuleCommandPresent RuleCode = "COMMAND_PRESENT"

	// RuleCreateConsumesNothing requires zero inputs on a create.
	RuleCreateConsumesNothing RuleCode = "CREATE_CONSUMES_NOTHING"

	// RuleCreateProducesOne requires exactly one output on a create.
	RuleCreateProducesOne RuleCode = "CREATE_PRODUCES_ONE"

	// RulePayConsumesOne requires exactly one input on a pay.
	RulePayConsumesOne RuleCode = "PAY_CONSUMES_ONE"

	// RulePayProducesOne requires exactly one output on a pay.
	RulePayProducesOne RuleCode = "PAY_PRODUCES_ONE"
)

// Semantic rules. A semantic rejection is final for this transaction but
// the initiator may assemble and submit a corrected one.
const (
	// RulePartiesDistinct forbids lending to oneself.
	RulePartiesDistinct RuleCode = "PARTIES_DISTINCT"

	// RuleSignersComplete requires every participant of every produced
	// instrument to appear in the signer set.
	RuleSignersComplete RuleCode = "SIGNERS_COMPLETE"

	// RulePrincipalPositive requires principal > 0.
	RulePrincipalPositive RuleCode = "PRINCIPAL_POSITIVE"

	// RuleRateNonNegative requires interestRatePercent >= 0.
	RuleRateNonNegative RuleCode = "RATE_NON_NEGATIVE"

	// RuleCreatedStatus requires a produced instrument on create to carry
	// status created.
	RuleCreatedStatus RuleCode = "CREATED_STATUS"

	// RuleNoPaymentAtCreation requires paymentValue = 0 on a freshly
	// issued instrument.
	RuleNoPaymentAtCreation RuleCode = "NO_PAYMENT_AT_CREATION"

	// RulePaymentPositive requires paymentValue > 0 on settlement.
	RulePaymentPositive RuleCode = "PAYMENT_POSITIVE"

	// RulePaymentCoversPrincipal requires paymentValue >= principal of
	// the consumed instrument.
	RulePaymentCoversPrincipal RuleCode = "PAYMENT_COVERS_PRINCIPAL"

	// RuleInputStatusCreated requires the consumed instrument to still be
	// live; a paid instrument is terminal.
	RuleInputStatusCreated RuleCode = "INPUT_STATUS_CREATED"

	// RuleOutputStatusPaid requires the produced instrument to carry
	// status paid.
	RuleOutputStatusPaid RuleCode = "OUTPUT_STATUS_PAID"

	// RuleSettlementExact requires paymentValue to equal the computed
	// settlement amount exactly, interest included.
	RuleSettlementExact RuleCode = "SETTLEMENT_EXACT"
)

// Violation is one failed rule with its specific description.
type Violation struct {
	Rule    RuleCode `json:"rule"`
	Message string   `json:"message"`
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s", v.Rule, v.Message)
}

// Result is the verdict of a validation run. The zero value is an
// acceptance; any recorded violation makes it a rejection.
type Result struct {
	Violations []Violation `json:"violations,omitempty"`
}

// Accepted reports whether the transition passed every applicable rule.
func (r Result) Accepted() bool {
	return len(r.Violations) == 0
}

// Structural reports whether any structural rule failed. A structurally
// rejected transaction is malformed and must be discarded rather than
// corrected and resubmitted.
func (r Result) Structural() bool {
	for _, v := range r.Violations {
		switch v.Rule {
		case RuleCommandPresent,
			RuleCreateConsumesNothing, RuleCreateProducesOne,
			RulePayConsumesOne, RulePayProducesOne:
			return true
		}
	}
	return false
}

// Err converts a rejection into an error value, nil on acceptance.
// The error lists every failed rule.
func (r Result) Err() error {
	if r.Accepted() {
		return nil
	}
	return &RejectionError{Violations: r.Violations}
}

// RejectionError is the error form of a rejected verdict.
type RejectionError struct {
	Violations []Violation
}

func (e *RejectionError) Error() string {
	if len(e.Violations) == 1 {
		return "transaction rejected: " + e.Violations[0].String()
	}
	msg := fmt.Sprintf("transaction rejected (%d rules failed)", len(e.Violations))
	for _, v := range e.Violations {
		msg += "\n  " + v.String()
	}
	return msg
}

// violations accumulates failed rules during a validation run.
type violations struct {
	list []Violation
}

// fail records a failed rule.
func (v *violations) fail(rule RuleCode, format string, args ...any) {
	v.list = append(v.list, Violation{
		Rule:    rule,
		Message: fmt.Sprintf(format, args...),
	})
}
