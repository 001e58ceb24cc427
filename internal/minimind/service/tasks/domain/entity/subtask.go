package entity

import "time"

// SubtaskStatus represents the lifecycle state of a Subtask.
type SubtaskStatus string

const (
	SubtaskStatusPending   SubtaskStatus = "pending"
	SubtaskStatusExecuting SubtaskStatus = "executing"
	SubtaskStatusCompleted SubtaskStatus = "completed"
	SubtaskStatusFailed    SubtaskStatus = "failed"
)

// Subtask is one ordered step of a decomposed task, assigned to an agent
// type. AgentType is an open string tag, not a closed enum: new agent kinds
// must flow through without code changes.
type Subtask struct {
	ID          int64         `json:"id"`
	TaskID      int64         `json:"task_id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	AgentType   string        `json:"agent_type"`
	OrderIndex  int           `json:"order_index"`
	Status      SubtaskStatus `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
}
