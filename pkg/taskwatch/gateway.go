package taskwatch

import "context"

// CreateTaskRequest initiates server-side decomposition of a natural-language
// request.
type CreateTaskRequest struct {
	UserID  int64          `json:"user_id"`
	Request string         `json:"request"`
	Context map[string]any `json:"context,omitempty"`
}

// CreateTaskResult is the acknowledgement for a created task. It does not
// carry a full snapshot; callers follow up with TaskSnapshot.
type CreateTaskResult struct {
	TaskID            int64  `json:"task_id"`
	Status            string `json:"status"`
	Message           string `json:"message"`
	EstimatedDuration int    `json:"estimated_duration,omitempty"`
}

// Gateway is the narrow interface the watcher uses to reach the authoritative
// server. Implementations own transport concerns (base URL, timeouts) and wrap
// failures in the sentinel errors from errors.go.
type Gateway interface {
	// TaskSnapshot fetches the full status snapshot for one task.
	TaskSnapshot(ctx context.Context, taskID int64) (*TaskSnapshot, error)

	// UserTasks lists a user's tasks, newest first.
	UserTasks(ctx context.Context, userID int64) ([]Task, error)

	// CreateTask submits a new task for decomposition and execution.
	CreateTask(ctx context.Context, req CreateTaskRequest) (*CreateTaskResult, error)
}
