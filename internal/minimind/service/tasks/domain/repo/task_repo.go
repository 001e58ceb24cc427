package repo

import (
	"context"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
)

// TaskRepository defines the persistence interface for Task aggregates:
// tasks, their ordered subtasks, and their agent executions.
type TaskRepository interface {
	// CreateTask stores a new task and assigns its ID.
	CreateTask(ctx context.Context, task *entity.Task) error
	// GetTask retrieves a task by ID.
	GetTask(ctx context.Context, id int64) (*entity.Task, error)
	// UpdateTask updates an existing task.
	UpdateTask(ctx context.Context, task *entity.Task) error
	// ListTasksByUser returns a user's tasks, newest first.
	ListTasksByUser(ctx context.Context, userID int64) ([]*entity.Task, error)

	// CreateSubtask stores a new subtask and assigns its ID.
	CreateSubtask(ctx context.Context, subtask *entity.Subtask) error
	// UpdateSubtask updates an existing subtask.
	UpdateSubtask(ctx context.Context, subtask *entity.Subtask) error
	// ListSubtasks returns a task's subtasks ordered by order_index.
	ListSubtasks(ctx context.Context, taskID int64) ([]*entity.Subtask, error)

	// CreateExecution stores a new agent execution and assigns its ID.
	CreateExecution(ctx context.Context, execution *entity.AgentExecution) error
	// ListExecutions returns a task's executions ordered by start time.
	ListExecutions(ctx context.Context, taskID int64) ([]*entity.AgentExecution, error)
}
