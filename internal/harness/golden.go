package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/tally/internal/iou"
)

// TraceSnapshot is the golden-file projection of a scenario run.
// Serialized as canonical JSON so byte comparison is stable.
type TraceSnapshot struct {
	ScenarioName string
	Trace        []TraceEvent
}

// toCanonicalMap flattens the snapshot for canonical JSON marshaling.
// Unset event fields are omitted entirely rather than zero-valued.
func (s *TraceSnapshot) toCanonicalMap() map[string]any {
	traceList := make([]any, len(s.Trace))
	for i, event := range s.Trace {
		eventMap := map[string]any{
			"step":   event.Step,
			"action": event.Action,
		}
		if event.LinearID != "" {
			eventMap["linear_id"] = event.LinearID
		}
		if event.Duration != "" {
			eventMap["duration"] = event.Duration
		}
		if event.Verdict != "" {
			eventMap["verdict"] = event.Verdict
		}
		if event.Seq != 0 {
			eventMap["seq"] = event.Seq
		}
		if len(event.Rules) > 0 {
			eventMap["rules"] = event.Rules
		}
		traceList[i] = eventMap
	}

	return map[string]any{
		"scenario_name": s.ScenarioName,
		"trace":         traceList,
	}
}

// RunWithGolden executes a scenario and compares its verdict trace
// against testdata/golden/{scenario.Name}.golden.
//
// Expectation failures inside the scenario fail the test before the
// golden comparison runs; the golden file pins the trace, the scenario
// pins the verdicts.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}

	for _, msg := range result.Errors {
		t.Errorf("scenario %s: %s", scenario.Name, msg)
	}

	snapshot := TraceSnapshot{
		ScenarioName: scenario.Name,
		Trace:        result.Trace,
	}
	traceJSON, err := iou.MarshalCanonical(snapshot.toCanonicalMap())
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, traceJSON)

	return nil
}
