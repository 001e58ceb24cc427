package workflow

import (
	"context"
	"fmt"
	"time"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/repo"
	"github.com/minimind-ai/minimind/pkg/log"
)

const (
	// DefaultStepDelay is the pause between subtask executions.
	DefaultStepDelay = time.Second

	completedThreshold = 0.8
	partialThreshold   = 0.5
)

// Controller orchestrates the full task workflow: load context, plan,
// then execute each subtask in order and settle the task status from the
// subtask success rate.
type Controller struct {
	tasks     repo.TaskRepository
	memory    Agent
	planner   Agent
	registry  *Registry
	stepDelay time.Duration
}

func NewController(tasks repo.TaskRepository, memory, planner Agent, registry *Registry, stepDelay time.Duration) *Controller {
	return &Controller{
		tasks:     tasks,
		memory:    memory,
		planner:   planner,
		registry:  registry,
		stepDelay: stepDelay,
	}
}

// Run drives taskID through the whole workflow. Agent failures mark the
// affected subtask failed and the workflow continues; only repository
// failures abort the run.
func (c *Controller) Run(ctx context.Context, taskID int64) error {
	task, err := c.tasks.GetTask(ctx, taskID)
	if err != nil {
		return fmt.Errorf("failed to load task %d: %w", taskID, err)
	}

	if err := c.setTaskStatus(ctx, task, entity.TaskStatusPlanning); err != nil {
		return err
	}

	if _, err := c.runAgent(ctx, c.memory, &Input{Task: task}); err != nil {
		return c.failTask(ctx, task, err)
	}
	if _, err := c.runAgent(ctx, c.planner, &Input{Task: task}); err != nil {
		return c.failTask(ctx, task, err)
	}

	if err := c.setTaskStatus(ctx, task, entity.TaskStatusExecuting); err != nil {
		return err
	}

	completed, total, err := c.runSubtasks(ctx, task)
	if err != nil {
		return c.failTask(ctx, task, err)
	}

	return c.settleTask(ctx, task, completed, total)
}

func (c *Controller) runSubtasks(ctx context.Context, task *entity.Task) (completed, total int, err error) {
	subtasks, err := c.tasks.ListSubtasks(ctx, task.ID)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list subtasks for task %d: %w", task.ID, err)
	}

	for i, st := range subtasks {
		st.Status = entity.SubtaskStatusExecuting
		if err := c.tasks.UpdateSubtask(ctx, st); err != nil {
			return completed, len(subtasks), err
		}

		agent := c.registry.Resolve(st.AgentType)
		if _, agentErr := c.runAgent(ctx, agent, &Input{Task: task, Subtask: st}); agentErr != nil {
			log.Warn("subtask %d (%s) failed: %v", st.ID, st.Title, agentErr)
			st.Status = entity.SubtaskStatusFailed
		} else {
			st.Status = entity.SubtaskStatusCompleted
			now := time.Now()
			st.CompletedAt = &now
			completed++
		}
		if err := c.tasks.UpdateSubtask(ctx, st); err != nil {
			return completed, len(subtasks), err
		}

		if c.stepDelay > 0 && i < len(subtasks)-1 {
			select {
			case <-ctx.Done():
				return completed, len(subtasks), ctx.Err()
			case <-time.After(c.stepDelay):
			}
		}
	}
	return completed, len(subtasks), nil
}

// runAgent executes the agent and records the execution, successful or not.
func (c *Controller) runAgent(ctx context.Context, agent Agent, in *Input) (map[string]any, error) {
	exec := &entity.AgentExecution{
		TaskID:    in.Task.ID,
		AgentType: agent.Type(),
		InputData: map[string]any{
			"request": in.Task.Description,
		},
		Status:    entity.ExecutionStatusRunning,
		StartedAt: time.Now(),
	}
	if in.Subtask != nil {
		exec.SubtaskID = &in.Subtask.ID
		exec.InputData["subtask_title"] = in.Subtask.Title
		exec.InputData["agent_type"] = in.Subtask.AgentType
	}

	output, agentErr := agent.Execute(ctx, in)

	now := time.Now()
	exec.CompletedAt = &now
	if agentErr != nil {
		exec.Status = entity.ExecutionStatusFailed
		exec.ErrorMessage = agentErr.Error()
	} else {
		exec.Status = entity.ExecutionStatusCompleted
		exec.OutputData = output
	}
	if err := c.tasks.CreateExecution(ctx, exec); err != nil {
		return nil, fmt.Errorf("failed to record %s execution: %w", agent.Type(), err)
	}
	return output, agentErr
}

func (c *Controller) settleTask(ctx context.Context, task *entity.Task, completed, total int) error {
	rate := 0.0
	if total > 0 {
		rate = float64(completed) / float64(total)
	}

	now := time.Now()
	switch {
	case rate >= completedThreshold:
		task.Status = entity.TaskStatusCompleted
		task.CompletedAt = &now
	case rate >= partialThreshold:
		task.Status = entity.TaskStatusPartial
	default:
		task.Status = entity.TaskStatusError
	}
	task.UpdatedAt = &now

	log.Info("task %d settled: %s (%d/%d subtasks completed)", task.ID, task.Status, completed, total)
	return c.tasks.UpdateTask(ctx, task)
}

func (c *Controller) setTaskStatus(ctx context.Context, task *entity.Task, status entity.TaskStatus) error {
	task.Status = status
	now := time.Now()
	task.UpdatedAt = &now
	if err := c.tasks.UpdateTask(ctx, task); err != nil {
		return fmt.Errorf("failed to update task %d status: %w", task.ID, err)
	}
	return nil
}

func (c *Controller) failTask(ctx context.Context, task *entity.Task, cause error) error {
	log.Error("task %d workflow failed: %v", task.ID, cause)
	task.Status = entity.TaskStatusError
	now := time.Now()
	task.UpdatedAt = &now
	if err := c.tasks.UpdateTask(ctx, task); err != nil {
		log.Error("failed to mark task %d as errored: %v", task.ID, err)
	}
	return cause
}
