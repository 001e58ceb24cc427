package entity

import "time"

// TaskStatus represents the lifecycle state of a Task.
//
// State machine: pending → planning → executing → completed | partial | error
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusPlanning  TaskStatus = "planning"
	TaskStatusExecuting TaskStatus = "executing"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusPartial   TaskStatus = "partial"
	TaskStatusError     TaskStatus = "error"
)

// IsTerminal returns true if the task has reached a terminal state. Partial
// is deliberately non-terminal: clients keep watching until the owner retries
// or abandons the task.
func (s TaskStatus) IsTerminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusError
}

// Task is a user request undergoing decomposition and agent execution.
type Task struct {
	// ID is the unique task identifier.
	ID int64 `json:"id"`

	// UserID is the owning user.
	UserID int64 `json:"user_id"`

	// Title is the short display title, defaulting to the raw request.
	Title string `json:"title"`

	// Description is the full request text.
	Description string `json:"description"`

	// Status is the current lifecycle state.
	Status TaskStatus `json:"status"`

	// Priority is one of low, medium, high.
	Priority string `json:"priority"`

	// CreatedAt is when this task was created.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when this task last changed state.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`

	// CompletedAt is when this task reached a terminal state.
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}
