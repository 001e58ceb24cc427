package workflow

import (
	"context"
	"fmt"
)

// ExecutorAgent performs the actual work of a subtask and records a final
// result document. It also serves as the fallback for unknown agent types.
type ExecutorAgent struct{}

func NewExecutorAgent() *ExecutorAgent { return &ExecutorAgent{} }

func (a *ExecutorAgent) Type() string { return "executor" }

func (a *ExecutorAgent) Execute(ctx context.Context, in *Input) (map[string]any, error) {
	focus := "general execution"
	if in.Subtask != nil {
		focus = in.Subtask.Title
	}

	actions := []any{
		fmt.Sprintf("Executed task: %s", focus),
		"Applied standard procedures",
		"Completed basic requirements",
	}
	content := []any{
		fmt.Sprintf("Created content for: %s", focus),
		"Generated basic deliverables",
	}

	return map[string]any{
		"actions_taken": actions,
		"content_created": content,
		"decisions_made": []any{
			"Used standard approach for task execution",
			"Applied best practices",
		},
		"next_steps": []any{
			"Review completed work",
			"Prepare for next phase if needed",
		},
		"result": fmt.Sprintf("Execution completed with %d actions for: %s", len(actions), focus),
	}, nil
}
