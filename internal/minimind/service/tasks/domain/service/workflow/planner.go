package workflow

import (
	"context"
	"fmt"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/repo"
)

// PlannerAgent decomposes a task into ordered subtasks. The plan is a fixed
// three-step decomposition: load context, research, execute.
type PlannerAgent struct {
	tasks repo.TaskRepository
}

func NewPlannerAgent(tasks repo.TaskRepository) *PlannerAgent {
	return &PlannerAgent{tasks: tasks}
}

func (a *PlannerAgent) Type() string { return "planner" }

func (a *PlannerAgent) Execute(ctx context.Context, in *Input) (map[string]any, error) {
	plan := []*entity.Subtask{
		{
			TaskID:      in.Task.ID,
			Title:       "Load User Context",
			Description: "Load user preferences and historical context",
			AgentType:   "memory",
			OrderIndex:  0,
			Status:      entity.SubtaskStatusPending,
		},
		{
			TaskID:      in.Task.ID,
			Title:       "Research and Gather Information",
			Description: "Research relevant information for the task",
			AgentType:   "research",
			OrderIndex:  1,
			Status:      entity.SubtaskStatusPending,
		},
		{
			TaskID:      in.Task.ID,
			Title:       "Execute Task",
			Description: "Execute the main task based on research",
			AgentType:   "executor",
			OrderIndex:  2,
			Status:      entity.SubtaskStatusPending,
		},
	}

	details := make([]any, 0, len(plan))
	for _, st := range plan {
		if err := a.tasks.CreateSubtask(ctx, st); err != nil {
			return nil, fmt.Errorf("failed to create subtask %q: %w", st.Title, err)
		}
		details = append(details, map[string]any{
			"title":       st.Title,
			"agent_type":  st.AgentType,
			"order_index": st.OrderIndex,
		})
	}

	return map[string]any{
		"subtasks_created":   len(plan),
		"estimated_duration": 330,
		"complexity_level":   "simple",
		"subtask_details":    details,
		"tool_calls": []any{
			toolCallDoc("create_subtasks",
				map[string]any{"task_id": in.Task.ID},
				len(plan)),
		},
	}, nil
}
