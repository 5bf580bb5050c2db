package contract

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/tally/internal/iou"
)

// validNow is a fixed validation instant well before baseDue, so the
// settlement checks see an on-time payment unless a test says otherwise.
var validNow = baseDue.Add(-10 * 24 * time.Hour)

func validCreate() Transaction {
	return Transaction{
		Outputs: []iou.Instrument{instrumentWithRate(100, 10)},
		Command: Create{},
		Signers: []iou.Party{"alice", "bob"},
	}
}

func validPay() Transaction {
	in := instrumentWithRate(100, 10)
	return Transaction{
		Inputs:  []iou.Instrument{in},
		Outputs: []iou.Instrument{in.WithPayment(100)},
		Command: Pay{},
		Signers: []iou.Party{"alice", "bob"},
	}
}

// failedRules extracts the rule codes of a result for compact assertions.
func failedRules(r Result) []RuleCode {
	var codes []RuleCode
	for _, v := range r.Violations {
		codes = append(codes, v.Rule)
	}
	return codes
}

func TestValidate_CreateAccepted(t *testing.T) {
	res := Validate(validCreate(), validNow)
	assert.True(t, res.Accepted())
	assert.NoError(t, res.Err())
}

func TestValidate_MissingCommand(t *testing.T) {
	tx := validCreate()
	tx.Command = nil

	res := Validate(tx, validNow)
	assert.Equal(t, []RuleCode{RuleCommandPresent}, failedRules(res))
	assert.True(t, res.Structural())
}

func TestValidate_CreateWithInputs(t *testing.T) {
	tx := validCreate()
	tx.Inputs = []iou.Instrument{instrumentWithRate(50, 0)}

	res := Validate(tx, validNow)
	assert.Contains(t, failedRules(res), RuleCreateConsumesNothing)
	assert.True(t, res.Structural())
}

func TestValidate_CreateOutputCardinality(t *testing.T) {
	tx := validCreate()
	tx.Outputs = nil
	res := Validate(tx, validNow)
	assert.Equal(t, []RuleCode{RuleCreateProducesOne}, failedRules(res))

	tx = validCreate()
	tx.Outputs = append(tx.Outputs, instrumentWithRate(50, 0))
	res = Validate(tx, validNow)
	assert.Contains(t, failedRules(res), RuleCreateProducesOne)
}

func TestValidate_SelfLoanRejected(t *testing.T) {
	tx := validCreate()
	tx.Outputs[0].Borrower = "alice"
	tx.Signers = []iou.Party{"alice"}

	res := Validate(tx, validNow)
	assert.Contains(t, failedRules(res), RulePartiesDistinct)
}

func TestValidate_NegativePrincipalRejected(t *testing.T) {
	tx := validCreate()
	tx.Outputs[0].Principal = -1

	res := Validate(tx, validNow)
	assert.Equal(t, []RuleCode{RulePrincipalPositive}, failedRules(res))
}

func TestValidate_ZeroPrincipalRejected(t *testing.T) {
	tx := validCreate()
	tx.Outputs[0].Principal = 0

	res := Validate(tx, validNow)
	assert.Contains(t, failedRules(res), RulePrincipalPositive)
}

func TestValidate_NegativeRateRejected(t *testing.T) {
	tx := validCreate()
	tx.Outputs[0].InterestRatePercent = -5

	res := Validate(tx, validNow)
	assert.Equal(t, []RuleCode{RuleRateNonNegative}, failedRules(res))
}

func TestValidate_CreateWrongStatus(t *testing.T) {
	tx := validCreate()
	tx.Outputs[0].Status = iou.StatusPaid

	res := Validate(tx, validNow)
	assert.Contains(t, failedRules(res), RuleCreatedStatus)
}

func TestValidate_CreateNonZeroPayment(t *testing.T) {
	tx := validCreate()
	tx.Outputs[0].PaymentValue = 10

	res := Validate(tx, validNow)
	assert.Contains(t, failedRules(res), RuleNoPaymentAtCreation)
}

func TestValidate_CreateSignerCompleteness(t *testing.T) {
	// Removing either participant flips the verdict.
	for _, signers := range [][]iou.Party{{"alice"}, {"bob"}, nil} {
		tx := validCreate()
		tx.Signers = signers

		res := Validate(tx, validNow)
		assert.Contains(t, failedRules(res), RuleSignersComplete, "signers=%v", signers)
	}

	// Extra signers beyond the participants are fine: subset check only.
	tx := validCreate()
	tx.Signers = []iou.Party{"alice", "bob", "notary"}
	assert.True(t, Validate(tx, validNow).Accepted())
}

func TestValidate_CreateReportsAllViolations(t *testing.T) {
	// Every check is evaluated; the caller sees the complete list, not
	// just the first failure.
	tx := validCreate()
	tx.Outputs[0].Principal = -1
	tx.Outputs[0].InterestRatePercent = -1
	tx.Outputs[0].PaymentValue = 5
	tx.Outputs[0].Status = iou.StatusPaid
	tx.Signers = nil

	res := Validate(tx, validNow)
	codes := failedRules(res)
	assert.ElementsMatch(t, []RuleCode{
		RuleSignersComplete,
		RulePrincipalPositive,
		RuleCreatedStatus,
		RuleRateNonNegative,
		RuleNoPaymentAtCreation,
	}, codes)
}

func TestValidate_PayExactOnTime(t *testing.T) {
	res := Validate(validPay(), validNow)
	assert.True(t, res.Accepted(), "violations: %v", res.Violations)
}

func TestValidate_PayUnderpaid(t *testing.T) {
	tx := validPay()
	tx.Outputs[0].PaymentValue = 99

	res := Validate(tx, validNow)
	codes := failedRules(res)
	assert.Contains(t, codes, RulePaymentCoversPrincipal)
	assert.Contains(t, codes, RuleSettlementExact)
}

func TestValidate_PayWithAccruedInterest(t *testing.T) {
	// 150 days past due at 10% per 30-day period:
	// floor(100 * 1.1^5) = 161.
	lateNow := baseDue.Add(150 * 24 * time.Hour)

	pay := func(amount int64) Result {
		tx := validPay()
		tx.Outputs[0].PaymentValue = amount
		return Validate(tx, lateNow)
	}

	assert.True(t, pay(161).Accepted())
	assert.Contains(t, failedRules(pay(160)), RuleSettlementExact)
	// Exact match required: overpaying is rejected too.
	assert.Contains(t, failedRules(pay(162)), RuleSettlementExact)
}

func TestValidate_DoublePaymentRejected(t *testing.T) {
	tx := validPay()
	tx.Inputs[0] = tx.Inputs[0].WithPayment(100) // already settled

	res := Validate(tx, validNow)
	assert.Contains(t, failedRules(res), RuleInputStatusCreated)
}

func TestValidate_PayOutputStatusMustBePaid(t *testing.T) {
	tx := validPay()
	tx.Outputs[0].Status = iou.StatusCreated

	res := Validate(tx, validNow)
	assert.Contains(t, failedRules(res), RuleOutputStatusPaid)
}

func TestValidate_PayZeroPayment(t *testing.T) {
	tx := validPay()
	tx.Outputs[0].PaymentValue = 0

	res := Validate(tx, validNow)
	codes := failedRules(res)
	assert.Contains(t, codes, RulePaymentPositive)
	assert.Contains(t, codes, RulePaymentCoversPrincipal)
	assert.Contains(t, codes, RuleSettlementExact)
}

func TestValidate_PayCardinality(t *testing.T) {
	tx := validPay()
	tx.Inputs = nil
	res := Validate(tx, validNow)
	assert.Equal(t, []RuleCode{RulePayConsumesOne}, failedRules(res))
	assert.True(t, res.Structural())

	tx = validPay()
	tx.Inputs = nil
	tx.Outputs = nil
	res = Validate(tx, validNow)
	assert.ElementsMatch(t, []RuleCode{RulePayConsumesOne, RulePayProducesOne}, failedRules(res))
}

func TestValidate_PaySignerCompleteness(t *testing.T) {
	for _, signers := range [][]iou.Party{{"alice"}, {"bob"}, nil} {
		tx := validPay()
		tx.Signers = signers

		res := Validate(tx, validNow)
		assert.Contains(t, failedRules(res), RuleSignersComplete, "signers=%v", signers)
	}
}

func TestValidate_Idempotent(t *testing.T) {
	// Same transaction, same instant, same verdict - twice over.
	tx := validPay()
	tx.Outputs[0].PaymentValue = 99

	first := Validate(tx, validNow)
	second := Validate(tx, validNow)
	require.Equal(t, first, second)
}

func TestValidate_ConcurrentUse(t *testing.T) {
	// The validator is stateless; hammer it from many goroutines to let
	// the race detector prove it.
	tx := validPay()
	done := make(chan Result, 32)
	for i := 0; i < 32; i++ {
		go func() { done <- Validate(tx, validNow) }()
	}
	for i := 0; i < 32; i++ {
		res := <-done
		assert.True(t, res.Accepted())
	}
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand("create")
	require.NoError(t, err)
	assert.Equal(t, "create", cmd.Name())

	cmd, err = ParseCommand("pay")
	require.NoError(t, err)
	assert.Equal(t, "pay", cmd.Name())

	_, err = ParseCommand("settle")
	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "settle", unknown.Name)
}

func TestRejectionError_ListsEveryRule(t *testing.T) {
	tx := validCreate()
	tx.Outputs[0].Principal = 0
	tx.Outputs[0].PaymentValue = 1

	err := Validate(tx, validNow).Err()
	require.Error(t, err)
	assert.Contains(t, err.Error(), string(RulePrincipalPositive))
	assert.Contains(t, err.Error(), string(RuleNoPaymentAtCreation))
}
