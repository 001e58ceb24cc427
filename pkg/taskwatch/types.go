// Package taskwatch keeps a local view of a remotely executed, hierarchically
// decomposed task synchronized with the authoritative server via polling.
//
// The package is split along four seams: the snapshot model (this file), the
// remote gateway (gateway.go, client.go), the polling controller (monitor.go)
// and the derived-view aggregation (aggregate.go). Expansion state for the
// detail view lives in expansion.go and is never part of a snapshot.
package taskwatch

import (
	"strings"
	"time"
)

// Phase classifies a status string into the four buckets the watcher cares
// about. Status strings are open-ended on the wire; anything unrecognized maps
// to PhasePending and keeps polling until the server reports a terminal value.
type Phase int

const (
	// PhasePending covers "pending" and any unrecognized status.
	PhasePending Phase = iota
	PhaseRunning
	PhaseCompleted
	PhaseError
)

// PhaseOf maps a raw status string to a Phase, case-insensitively.
func PhaseOf(status string) Phase {
	switch strings.ToLower(status) {
	case "running", "executing":
		return PhaseRunning
	case "completed":
		return PhaseCompleted
	case "error":
		return PhaseError
	default:
		return PhasePending
	}
}

// Terminal reports whether no further progress is expected.
func (p Phase) Terminal() bool {
	return p == PhaseCompleted || p == PhaseError
}

func (p Phase) String() string {
	switch p {
	case PhaseRunning:
		return "running"
	case PhaseCompleted:
		return "completed"
	case PhaseError:
		return "error"
	default:
		return "pending"
	}
}

// Task is the read-only cached copy of a server-owned task.
type Task struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	// List enrichment fields the server includes on "tasks for user".
	SubtaskCount      int     `json:"subtask_count,omitempty"`
	CompletedSubtasks int     `json:"completed_subtasks,omitempty"`
	Progress          float64 `json:"progress,omitempty"`
}

// Phase classifies the task's status.
func (t *Task) Phase() Phase { return PhaseOf(t.Status) }

// TaskSnapshot is the complete view of one task's state as of one fetch.
// It is replaced wholesale on every refresh, never patched field by field.
type TaskSnapshot struct {
	TaskID      int64            `json:"task_id"`
	Status      string           `json:"status"`
	Progress    float64          `json:"progress"`
	CurrentStep string           `json:"current_step,omitempty"`
	Subtasks    []Subtask        `json:"subtasks"`
	Executions  []AgentExecution `json:"executions"`
}

// Subtask is one ordered step of a decomposed task.
type Subtask struct {
	ID          int64      `json:"id"`
	TaskID      int64      `json:"task_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AgentType   string     `json:"agent_type"`
	OrderIndex  int        `json:"order_index"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// AgentExecution records one agent invocation. Input and output payloads are
// opaque structured documents; the only structure the watcher reads out of
// output_data is the result / tool_calls disambiguation in aggregate.go.
type AgentExecution struct {
	ID           int64          `json:"id"`
	TaskID       int64          `json:"task_id"`
	SubtaskID    *int64         `json:"subtask_id,omitempty"`
	AgentType    string         `json:"agent_type"`
	InputData    map[string]any `json:"input_data"`
	OutputData   map[string]any `json:"output_data,omitempty"`
	Status       string         `json:"status"`
	ErrorMessage string         `json:"error_message,omitempty"`
	StartedAt    time.Time      `json:"started_at"`
	CompletedAt  *time.Time     `json:"completed_at,omitempty"`
}

// Failed reports whether this execution counts toward the error summary:
// failed status OR a non-empty error message, a union not requiring both.
func (e *AgentExecution) Failed() bool {
	return strings.EqualFold(e.Status, "failed") || e.ErrorMessage != ""
}

// ToolCall is one nested tool invocation found inside an execution's output.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    any            `json:"result,omitempty"`
}
