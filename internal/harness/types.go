package harness

import "fmt"

// TraceEvent is one step's outcome in the verdict trace.
//
// Only fields the step actually produced are set: an accepted
// transition carries its seq, a rejected one carries its failed rules
// and an advance carries its duration. Content hashes are deliberately
// absent so traces stay hand-checkable.
type TraceEvent struct {
	Step     int      `json:"step"`
	Action   string   `json:"action"` // "create", "pay" or "advance"
	LinearID string   `json:"linear_id,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Verdict  string   `json:"verdict,omitempty"` // "accepted" or "rejected"
	Seq      int64    `json:"seq,omitempty"`
	Rules    []string `json:"rules,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates every expectation held.
	Pass bool `json:"pass"`

	// Trace lists every step's outcome in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation failures. Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a passing result to accumulate into.
func NewResult() *Result {
	return &Result{
		Pass:  true,
		Trace: []TraceEvent{},
	}
}

// AddError records an expectation failure and marks the result failed.
func (r *Result) AddError(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
	r.Pass = false
}
