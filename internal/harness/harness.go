package harness

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/roach88/tally/internal/iou"
	"github.com/roach88/tally/internal/ledger"
	"github.com/roach88/tally/internal/store"
	"github.com/roach88/tally/internal/testutil"
)

// Run executes a scenario against a fresh in-memory ledger and returns
// the result.
//
// Each scenario runs with its own database, a fixed clock starting at
// the scenario's start_time and sequential linear IDs ("iou-1",
// "iou-2", ...), so the verdict trace is reproducible run to run.
func Run(scenario *Scenario) (*Result, error) {
	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	start, err := time.Parse(time.RFC3339, scenario.StartTime)
	if err != nil {
		return nil, fmt.Errorf("invalid start_time: %w", err)
	}
	clock := testutil.NewFixedClock(start)

	ctx := context.Background()
	l, err := ledger.New(ctx, st,
		ledger.WithClock(clock),
		ledger.WithLinearIDs(testutil.NewSequenceLinearIDs("iou")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to open ledger: %w", err)
	}

	result := NewResult()
	for i, step := range scenario.Steps {
		if err := executeStep(ctx, l, clock, i+1, &step, result); err != nil {
			return nil, err
		}
	}

	checkFinalVault(ctx, st, scenario.FinalVault, result)
	return result, nil
}

// executeStep runs one step, records its trace event and checks the
// expectation.
func executeStep(ctx context.Context, l *ledger.Ledger, clock *testutil.FixedClock, stepNum int, step *Step, result *Result) error {
	if step.Advance != "" {
		d, err := time.ParseDuration(step.Advance)
		if err != nil {
			return fmt.Errorf("step %d: advance: %w", stepNum, err)
		}
		clock.Advance(d)
		result.Trace = append(result.Trace, TraceEvent{
			Step:     stepNum,
			Action:   "advance",
			Duration: step.Advance,
		})
		return nil
	}

	var (
		action   string
		linearID iou.LinearID
		verdict  ledger.Verdict
		err      error
	)

	switch {
	case step.Create != nil:
		action = "create"
		c := step.Create
		due, parseErr := time.Parse(time.RFC3339, c.DueDate)
		if parseErr != nil {
			return fmt.Errorf("step %d: due_date: %w", stepNum, parseErr)
		}
		tx := l.BuildCreate(iou.Party(c.Lender), iou.Party(c.Borrower), c.Principal, c.InterestRate, due)
		linearID = tx.Outputs[0].LinearID
		verdict, err = l.Finalize(ctx, tx)

	case step.Pay != nil:
		action = "pay"
		linearID = iou.LinearID(step.Pay.ID)
		tx, buildErr := l.BuildPay(ctx, linearID, step.Pay.Amount)
		if buildErr != nil {
			return fmt.Errorf("step %d: assemble pay: %w", stepNum, buildErr)
		}
		verdict, err = l.Finalize(ctx, tx)
	}
	if err != nil {
		return fmt.Errorf("step %d: finalize: %w", stepNum, err)
	}

	event := TraceEvent{
		Step:     stepNum,
		Action:   action,
		LinearID: string(linearID),
	}
	if verdict.Accepted {
		event.Verdict = "accepted"
		event.Seq = verdict.Seq
	} else {
		event.Verdict = "rejected"
		event.Rules = ruleCodes(verdict)
	}
	result.Trace = append(result.Trace, event)

	checkExpectation(stepNum, step.Expect, verdict, result)
	return nil
}

// checkExpectation compares a verdict against the step's expect clause.
func checkExpectation(stepNum int, expect *ExpectClause, verdict ledger.Verdict, result *Result) {
	got := "rejected"
	if verdict.Accepted {
		got = "accepted"
	}
	if got != expect.Verdict {
		result.AddError("step %d: expected %s, got %s (%v)", stepNum, expect.Verdict, got, verdict.Violations)
		return
	}

	if len(expect.Rules) == 0 {
		return
	}

	want := append([]string(nil), expect.Rules...)
	slices.Sort(want)
	if gotRules := ruleCodes(verdict); !slices.Equal(gotRules, want) {
		result.AddError("step %d: expected rules %v, got %v", stepNum, want, gotRules)
	}
}

// checkFinalVault compares final_vault expectations against the live
// vault revisions.
func checkFinalVault(ctx context.Context, st *store.Store, expectations []VaultExpectation, result *Result) {
	for _, exp := range expectations {
		live, err := st.ActiveByLinearID(ctx, iou.LinearID(exp.ID))
		if err != nil {
			result.AddError("final_vault: %s: %v", exp.ID, err)
			continue
		}

		in := live.Instrument
		if in.Status.String() != exp.Status {
			result.AddError("final_vault: %s: expected status %s, got %s", exp.ID, exp.Status, in.Status)
		}
		if in.PaymentValue != exp.PaymentValue {
			result.AddError("final_vault: %s: expected payment_value %d, got %d", exp.ID, exp.PaymentValue, in.PaymentValue)
		}
	}
}

// ruleCodes extracts the sorted failed rule codes from a verdict.
func ruleCodes(v ledger.Verdict) []string {
	codes := make([]string, 0, len(v.Violations))
	for _, violation := range v.Violations {
		codes = append(codes, string(violation.Rule))
	}
	slices.Sort(codes)
	return codes
}
