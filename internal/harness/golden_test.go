package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithGolden_CreateSuccess(t *testing.T) {
	require.NoError(t, RunWithGolden(t, loadShipped(t, "create_success")))
}

func TestRunWithGolden_UpdateSkip(t *testing.T) {
	require.NoError(t, RunWithGolden(t, loadShipped(t, "update_skip")))
}

func TestRunWithGolden_CreateTwoOutputs(t *testing.T) {
	require.NoError(t, RunWithGolden(t, loadShipped(t, "create_two_outputs")))
}

func TestSnapshot_Canonical(t *testing.T) {
	result := NewResult()
	result.AddEvent(TraceEvent{
		Seq:      1,
		Step:     "tick",
		Verdict:  VerdictReject,
		Paths:    []string{"update"},
		Kind:     "InvalidTransition",
		Code:     9,
		Location: "input_type_script(0)",
	})

	got, err := Snapshot("example", result)
	require.NoError(t, err)
	assert.Equal(t,
		`{"scenario_name":"example","trace":[{"code":9,"kind":"InvalidTransition","location":"input_type_script(0)","paths":["update"],"seq":1,"step":"tick","verdict":"reject"}]}`,
		string(got))
}

func TestSnapshot_EmptyTrace(t *testing.T) {
	got, err := Snapshot("empty", NewResult())
	require.NoError(t, err)
	assert.Equal(t, `{"scenario_name":"empty","trace":[]}`, string(got))
}
