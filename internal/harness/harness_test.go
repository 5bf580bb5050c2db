package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunIssueOnTime(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/issue_on_time.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 2)
	assert.Equal(t, "accepted", result.Trace[0].Verdict)
	assert.Equal(t, int64(1), result.Trace[0].Seq)
	assert.Equal(t, "iou-1", result.Trace[0].LinearID)
	assert.Equal(t, "accepted", result.Trace[1].Verdict)
	assert.Equal(t, int64(2), result.Trace[1].Seq)
}

func TestRunLateInterest(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/late_interest.yaml")
	require.NoError(t, err)

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.True(t, result.Pass, "errors: %v", result.Errors)
	require.Len(t, result.Trace, 4)

	// Rejected steps carry the failed rules, not a seq.
	rejected := result.Trace[2]
	assert.Equal(t, "rejected", rejected.Verdict)
	assert.Equal(t, []string{"SETTLEMENT_EXACT"}, rejected.Rules)
	assert.Zero(t, rejected.Seq)

	// The rejection consumed no seq: the accepted retry is seq 2.
	assert.Equal(t, int64(2), result.Trace[3].Seq)
}

func TestRunReportsExpectationMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_expectation",
		Description: "expects a rejection that does not happen",
		StartTime:   "2025-12-22T00:00:00Z",
		Steps: []Step{
			{
				Create: &CreateStep{
					Lender:    "alice",
					Borrower:  "bob",
					Principal: 100,
					DueDate:   "2026-01-01T00:00:00Z",
				},
				Expect: &ExpectClause{Verdict: "rejected"},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "expected rejected")
}

func TestRunReportsWrongRules(t *testing.T) {
	scenario := &Scenario{
		Name:        "wrong_rules",
		Description: "pins a rule that does not fail",
		StartTime:   "2025-12-22T00:00:00Z",
		Steps: []Step{
			{
				Create: &CreateStep{
					Lender:    "alice",
					Borrower:  "alice",
					Principal: 100,
					DueDate:   "2026-01-01T00:00:00Z",
				},
				Expect: &ExpectClause{
					Verdict: "rejected",
					Rules:   []string{"PRINCIPAL_POSITIVE"},
				},
			},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "expected rules")
}

func TestRunReportsFinalVaultMismatch(t *testing.T) {
	scenario := &Scenario{
		Name:        "vault_mismatch",
		Description: "expects a settlement that never happened",
		StartTime:   "2025-12-22T00:00:00Z",
		Steps: []Step{
			{
				Create: &CreateStep{
					Lender:    "alice",
					Borrower:  "bob",
					Principal: 100,
					DueDate:   "2026-01-01T00:00:00Z",
				},
				Expect: &ExpectClause{Verdict: "accepted"},
			},
		},
		FinalVault: []VaultExpectation{
			{ID: "iou-1", Status: "paid", PaymentValue: 100},
		},
	}

	result, err := Run(scenario)
	require.NoError(t, err)

	assert.False(t, result.Pass)
	assert.NotEmpty(t, result.Errors)
}

func TestRunIsolatedBetweenRuns(t *testing.T) {
	scenario, err := LoadScenario("testdata/scenarios/issue_on_time.yaml")
	require.NoError(t, err)

	// Same scenario twice: each run gets a fresh database and ID
	// sequence, so the traces are identical.
	first, err := Run(scenario)
	require.NoError(t, err)
	second, err := Run(scenario)
	require.NoError(t, err)

	assert.Equal(t, first.Trace, second.Trace)
}
