// Package harness provides scenario-driven conformance testing for the
// ledger.
//
// A scenario is a YAML file describing a sequence of transitions against
// a fresh in-memory ledger, with expectations on each verdict and on
// the final vault. Scenarios run with a fixed clock and sequential
// linear IDs, so a scenario's verdict trace is identical on every run
// and can be compared against a golden file.
//
// # Scenario Format
//
//	name: late_interest
//	description: "Settling five periods late costs compound interest"
//	start_time: "2026-01-01T00:00:00Z"
//	steps:
//	  - create:
//	      lender: alice
//	      borrower: bob
//	      principal: 100
//	      interest_rate: 10
//	      due_date: "2026-01-01T00:00:00Z"
//	    expect:
//	      verdict: accepted
//	  - advance: 3600h
//	  - pay:
//	      id: iou-1
//	      amount: 161
//	    expect:
//	      verdict: accepted
//	final_vault:
//	  - id: iou-1
//	    status: paid
//	    payment_value: 161
//
// A rejected expectation may pin the exact failed rules:
//
//	expect:
//	  verdict: rejected
//	  rules: [SETTLEMENT_EXACT]
//
// # Golden Traces
//
// RunWithGolden serializes the verdict trace as canonical JSON and
// compares it against testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
