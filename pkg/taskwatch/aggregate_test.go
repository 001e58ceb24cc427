package taskwatch

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPhaseOf(t *testing.T) {
	cases := []struct {
		status string
		want   Phase
	}{
		{"pending", PhasePending},
		{"running", PhaseRunning},
		{"executing", PhaseRunning},
		{"EXECUTING", PhaseRunning},
		{"completed", PhaseCompleted},
		{"Completed", PhaseCompleted},
		{"error", PhaseError},
		{"partial", PhasePending},
		{"made-up-later", PhasePending},
		{"", PhasePending},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, PhaseOf(tc.status), "status %q", tc.status)
	}
}

func TestPhaseTerminal(t *testing.T) {
	require.True(t, PhaseCompleted.Terminal())
	require.True(t, PhaseError.Terminal())
	require.False(t, PhasePending.Terminal())
	require.False(t, PhaseRunning.Terminal())
}

func TestProgressPercentRoundsWithoutClamping(t *testing.T) {
	cases := []struct {
		progress float64
		want     int
	}{
		{0, 0},
		{42.7, 43},
		{42.4, 42},
		{99.5, 100},
		// Out-of-range input is passed through, not sanitized.
		{142.7, 143},
		{-3.2, -3},
	}
	for _, tc := range cases {
		s := &TaskSnapshot{Progress: tc.progress}
		require.Equal(t, tc.want, s.ProgressPercent())
	}
}

func TestCountExecutionsConsistency(t *testing.T) {
	s := &TaskSnapshot{Executions: []AgentExecution{
		{ID: 1, Status: "completed"},
		{ID: 2, Status: "failed"},
		{ID: 3, Status: "running"},
		{ID: 4, Status: "completed", ErrorMessage: "late warning"},
		{ID: 5, Status: "pending"},
	}}

	c := s.CountExecutions()
	require.Equal(t, 5, c.Total)
	require.Equal(t, 2, c.Completed)
	// failed status OR non-empty error message.
	require.Equal(t, 2, c.Failed)

	nonCompleted := c.Total - c.Completed
	require.Equal(t, c.Total, c.Completed+nonCompleted)
}

func TestFailedExecutionsIsAUnion(t *testing.T) {
	s := &TaskSnapshot{Executions: []AgentExecution{
		{ID: 1, Status: "failed"},
		{ID: 2, Status: "completed", ErrorMessage: "partial write"},
		{ID: 3, Status: "completed"},
	}}
	failed := s.FailedExecutions()
	require.Len(t, failed, 2)
	require.Equal(t, int64(1), failed[0].ID)
	require.Equal(t, int64(2), failed[1].ID)
}

func TestFinalResultsPrefersResultField(t *testing.T) {
	s := &TaskSnapshot{Executions: []AgentExecution{
		{ID: 1, Status: "completed", OutputData: map[string]any{
			"result":     "the answer",
			"tool_calls": []any{map[string]any{"name": "ignored"}},
		}},
	}}
	results := s.FinalResults()
	require.Len(t, results, 1)
	require.Equal(t, "the answer", results[0].Result)
	require.Nil(t, results[0].ToolCalls)
}

func TestFinalResultsFallsBackToToolCalls(t *testing.T) {
	s := &TaskSnapshot{Executions: []AgentExecution{
		{ID: 1, Status: "completed", OutputData: map[string]any{
			"tool_calls": []any{
				map[string]any{
					"name":      "search",
					"arguments": map[string]any{"q": "x"},
					"result":    "y",
				},
			},
		}},
	}}
	results := s.FinalResults()
	require.Len(t, results, 1)
	require.Nil(t, results[0].Result)
	require.Len(t, results[0].ToolCalls, 1)
	require.Equal(t, "search", results[0].ToolCalls[0].Name)
	require.Equal(t, "y", results[0].ToolCalls[0].Result)
}

func TestFinalResultsFallsBackToRawPayload(t *testing.T) {
	payload := map[string]any{"findings": []any{"a", "b"}}
	s := &TaskSnapshot{Executions: []AgentExecution{
		{ID: 1, Status: "completed", OutputData: payload},
	}}
	results := s.FinalResults()
	require.Len(t, results, 1)
	require.Nil(t, results[0].Result)
	require.Nil(t, results[0].ToolCalls)
	require.Equal(t, payload, results[0].Raw)
}

func TestFinalResultsSkipsIncompleteAndOutputless(t *testing.T) {
	s := &TaskSnapshot{Executions: []AgentExecution{
		{ID: 1, Status: "running", OutputData: map[string]any{"result": "in flight"}},
		{ID: 2, Status: "completed"},
		{ID: 3, Status: "completed", OutputData: map[string]any{"result": "done"}},
	}}
	results := s.FinalResults()
	require.Len(t, results, 1)
	require.Equal(t, int64(3), results[0].ExecutionID)
}
