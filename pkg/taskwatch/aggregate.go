package taskwatch

import "math"

// Derived views over a snapshot. Nothing here is persisted: every accessor is
// recomputed from the current snapshot on demand, so a wholesale snapshot swap
// is all reconciliation ever needs.

// Phase classifies the snapshot's top-level status. The server is the sole
// authority on aggregate task status; it is never recomputed from subtask or
// execution statuses.
func (s *TaskSnapshot) Phase() Phase { return PhaseOf(s.Status) }

// ProgressPercent is the rounded display value for progress. The raw value is
// passed through unclamped; out-of-range input is the server's contract
// violation, not sanitized here.
func (s *TaskSnapshot) ProgressPercent() int {
	return int(math.Round(s.Progress))
}

// ExecutionCounts summarizes execution outcomes for the current snapshot.
type ExecutionCounts struct {
	Total     int
	Completed int
	Failed    int
}

// CountExecutions tallies total, completed and failed executions. Failed uses
// the same union rule as FailedExecutions.
func (s *TaskSnapshot) CountExecutions() ExecutionCounts {
	var c ExecutionCounts
	c.Total = len(s.Executions)
	for i := range s.Executions {
		e := &s.Executions[i]
		if PhaseOf(e.Status) == PhaseCompleted {
			c.Completed++
		}
		if e.Failed() {
			c.Failed++
		}
	}
	return c
}

// FailedExecutions is the error summary view: executions whose status is
// failed OR whose error message is non-empty, in original order.
func (s *TaskSnapshot) FailedExecutions() []AgentExecution {
	var out []AgentExecution
	for _, e := range s.Executions {
		if e.Failed() {
			out = append(out, e)
		}
	}
	return out
}

// ExecutionResult is one entry of the final-results view, with the payload
// resolved through the three-tier fallback.
type ExecutionResult struct {
	ExecutionID int64
	AgentType   string

	// Exactly one of the three is set, evaluated per execution:
	// Result when output_data.result is present, else ToolCalls when the
	// output carries a tool_calls sequence, else Raw with the whole payload.
	Result    any
	ToolCalls []ToolCall
	Raw       map[string]any
}

// FinalResults filters executions to completed ones with output present, in
// original order, resolving each payload independently.
func (s *TaskSnapshot) FinalResults() []ExecutionResult {
	var out []ExecutionResult
	for _, e := range s.Executions {
		if PhaseOf(e.Status) != PhaseCompleted || e.OutputData == nil {
			continue
		}
		r := ExecutionResult{ExecutionID: e.ID, AgentType: e.AgentType}
		if v, ok := e.OutputData["result"]; ok && v != nil {
			r.Result = v
		} else if calls := decodeToolCalls(e.OutputData["tool_calls"]); len(calls) > 0 {
			r.ToolCalls = calls
		} else {
			r.Raw = e.OutputData
		}
		out = append(out, r)
	}
	return out
}

// decodeToolCalls leniently extracts the tool_calls sequence from an opaque
// payload value. Entries that are not objects are skipped.
func decodeToolCalls(v any) []ToolCall {
	seq, ok := v.([]any)
	if !ok {
		return nil
	}
	var calls []ToolCall
	for _, item := range seq {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		var call ToolCall
		if name, ok := obj["name"].(string); ok {
			call.Name = name
		}
		if args, ok := obj["arguments"].(map[string]any); ok {
			call.Arguments = args
		}
		call.Result = obj["result"]
		calls = append(calls, call)
	}
	return calls
}
