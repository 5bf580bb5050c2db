package harness

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestScenarioGoldens runs every scenario under testdata/scenarios and
// compares its verdict trace against the matching golden file.
func TestScenarioGoldens(t *testing.T) {
	paths, err := filepath.Glob("testdata/scenarios/*.yaml")
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no scenarios found")

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			scenario, err := LoadScenario(path)
			require.NoError(t, err)
			require.NoError(t, RunWithGolden(t, scenario))
		})
	}
}

func TestTraceSnapshotCanonicalMap(t *testing.T) {
	snapshot := TraceSnapshot{
		ScenarioName: "sample",
		Trace: []TraceEvent{
			{Step: 1, Action: "create", LinearID: "iou-1", Verdict: "accepted", Seq: 1},
			{Step: 2, Action: "advance", Duration: "720h"},
			{Step: 3, Action: "pay", LinearID: "iou-1", Verdict: "rejected", Rules: []string{"SETTLEMENT_EXACT"}},
		},
	}

	m := snapshot.toCanonicalMap()
	require.Equal(t, "sample", m["scenario_name"])

	trace := m["trace"].([]any)
	require.Len(t, trace, 3)

	// Unset fields are omitted, not zero-valued.
	created := trace[0].(map[string]any)
	require.NotContains(t, created, "rules")
	require.NotContains(t, created, "duration")

	advanced := trace[1].(map[string]any)
	require.NotContains(t, advanced, "verdict")
	require.NotContains(t, advanced, "seq")

	rejected := trace[2].(map[string]any)
	require.NotContains(t, rejected, "seq")
	require.Equal(t, []string{"SETTLEMENT_EXACT"}, rejected["rules"])
}
