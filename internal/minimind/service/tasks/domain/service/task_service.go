package service

import (
	"context"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
)

// TaskDetail is the full observable state of one task: the task row plus
// its ordered subtasks and the execution log, with derived progress.
type TaskDetail struct {
	Task       *entity.Task
	Subtasks   []*entity.Subtask
	Executions []*entity.AgentExecution

	// Progress is the completed-subtask percentage, 0-100.
	Progress float64

	// CurrentStep names the subtask being executed, or the next pending one.
	CurrentStep string
}

// TaskOverview is one row of a user's task list, enriched with subtask
// completion counters.
type TaskOverview struct {
	Task              *entity.Task
	SubtaskCount      int
	CompletedSubtasks int
	Progress          float64
}

// TaskService is the application-level service interface for users, tasks
// and memories.
//
// It provides:
// - User registration and preference management
// - Task submission and asynchronous workflow execution
// - Task progress observation
// - Memory storage and retrieval
type TaskService interface {
	// --- Users ---

	CreateUser(ctx context.Context, user *entity.User) error
	GetUser(ctx context.Context, id int64) (*entity.User, error)
	GetUserByUsername(ctx context.Context, username string) (*entity.User, error)
	UpdateUserPreferences(ctx context.Context, userID int64, preferences map[string]any) (*entity.User, error)

	// --- Tasks ---

	// CreateTask registers a new task and starts its workflow in the
	// background. The returned task is already persisted; its status
	// advances asynchronously.
	CreateTask(ctx context.Context, userID int64, request string, taskContext map[string]any) (*entity.Task, error)

	// GetTaskDetail returns the task with its subtasks, executions and
	// derived progress.
	GetTaskDetail(ctx context.Context, taskID int64) (*TaskDetail, error)

	// ListUserTasks returns the user's tasks, newest first, each enriched
	// with subtask completion counters.
	ListUserTasks(ctx context.Context, userID int64) ([]*TaskOverview, error)

	// --- Memories ---

	StoreMemory(ctx context.Context, memory *entity.Memory) error
	ListUserMemories(ctx context.Context, userID int64, memoryType string) ([]*entity.Memory, error)
}
