package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/timeindex/internal/canon"
)

// Snapshot renders the trace of result as canonical JSON. Identical
// scenarios produce byte-identical snapshots.
func Snapshot(scenarioName string, result *Result) ([]byte, error) {
	trace := make([]any, len(result.Trace))
	for i, ev := range result.Trace {
		m := map[string]any{
			"seq":     ev.Seq,
			"step":    ev.Step,
			"verdict": ev.Verdict,
			"paths":   ev.Paths,
		}
		if ev.Kind != "" {
			m["kind"] = ev.Kind
			m["code"] = ev.Code
		}
		if ev.Location != "" {
			m["location"] = ev.Location
		}
		trace[i] = m
	}
	return canon.Marshal(map[string]any{
		"scenario_name": scenarioName,
		"trace":         trace,
	})
}

// RunWithGolden executes a scenario and compares its trace snapshot
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares an existing result against its golden file.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(scenarioName, result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, snapshot)
	return nil
}
