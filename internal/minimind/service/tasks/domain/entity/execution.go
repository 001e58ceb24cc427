package entity

import "time"

// ExecutionStatus represents the lifecycle state of an AgentExecution.
type ExecutionStatus string

const (
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// AgentExecution records one agent invocation against a task, optionally
// scoped to a subtask. Input and output payloads are schemaless documents;
// agents put whatever they produced in OutputData, including a nested
// tool_calls sequence when tools were invoked.
type AgentExecution struct {
	ID           int64           `json:"id"`
	TaskID       int64           `json:"task_id"`
	SubtaskID    *int64          `json:"subtask_id,omitempty"`
	AgentType    string          `json:"agent_type"`
	InputData    map[string]any  `json:"input_data"`
	OutputData   map[string]any  `json:"output_data,omitempty"`
	Status       ExecutionStatus `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	StartedAt    time.Time       `json:"started_at"`
	CompletedAt  *time.Time      `json:"completed_at,omitempty"`
}

// ToolCall is one tool invocation recorded inside an execution's output.
type ToolCall struct {
	Name      string         `json:"name"`
	Arguments map[string]any `json:"arguments,omitempty"`
	Result    any            `json:"result,omitempty"`
}
