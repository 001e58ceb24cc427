package v1

import (
	"time"

	"github.com/bytedance/gg/gslice"
	"github.com/jinzhu/copier"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/service"
)

// --- User API ---

// CreateUserRequest is the request body for POST /users.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required"`
}

// UpdatePreferencesRequest is the request body for PUT /users/:id/preferences.
type UpdatePreferencesRequest struct {
	Preferences map[string]any `json:"preferences" binding:"required"`
}

// UserResponse is the response for user endpoints.
type UserResponse struct {
	ID          int64          `json:"id"`
	Username    string         `json:"username"`
	Email       string         `json:"email"`
	Preferences map[string]any `json:"preferences"`
	CreatedAt   time.Time      `json:"created_at"`
}

// --- Task API ---

// TaskRequest is the request body for POST /tasks.
type TaskRequest struct {
	UserID  int64          `json:"user_id" binding:"required"`
	Request string         `json:"request" binding:"required"`
	Context map[string]any `json:"context,omitempty"`
}

// TaskResponse acknowledges an accepted task; the workflow runs in the
// background after this returns.
type TaskResponse struct {
	TaskID            int64  `json:"task_id"`
	Status            string `json:"status"`
	Message           string `json:"message"`
	EstimatedDuration int    `json:"estimated_duration,omitempty"`
}

// SubtaskResponse is one subtask row inside a task status payload.
type SubtaskResponse struct {
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

// ExecutionResponse is one agent execution row inside a task status payload.
type ExecutionResponse struct {
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

// TaskStatusResponse is the full observable state of one task.
type TaskStatusResponse struct {
	TaskID      int64               `json:"task_id"`
	Status      string              `json:"status"`
	Progress    float64             `json:"progress"`
	CurrentStep string              `json:"current_step,omitempty"`
	Subtasks    []SubtaskResponse   `json:"subtasks"`
	Executions  []ExecutionResponse `json:"executions"`
}

// TaskOverviewResponse is one row of a user's task list.
type TaskOverviewResponse struct {
	ID                int64      `json:"id"`
	UserID            int64      `json:"user_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Status            string     `json:"status"`
	Priority          string     `json:"priority,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         *time.Time `json:"updated_at,omitempty"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
	SubtaskCount      int        `json:"subtask_count"`
	CompletedSubtasks int        `json:"completed_subtasks"`
	Progress          float64    `json:"progress"`
}

// --- Memory API ---

// StoreMemoryRequest is the request body for POST /users/:id/memories.
type StoreMemoryRequest struct {
	MemoryType string         `json:"memory_type" binding:"required"`
	Key        string         `json:"key" binding:"required"`
	Value      map[string]any `json:"value" binding:"required"`
	Importance int            `json:"importance,omitempty"`
}

// MemoryResponse is the response for memory endpoints.
type MemoryResponse struct {
	ID           int64          `json:"id"`
	UserID       int64          `json:"user_id"`
	MemoryType   string         `json:"memory_type"`
	Key          string         `json:"key"`
	Value        map[string]any `json:"value"`
	Importance   int            `json:"importance"`
	CreatedAt    time.Time      `json:"created_at"`
	LastAccessed time.Time      `json:"last_accessed"`
}

// --- Converters ---

func toUserResponse(u *entity.User) UserResponse {
	var resp UserResponse
	_ = copier.Copy(&resp, u)
	if resp.Preferences == nil {
		resp.Preferences = map[string]any{}
	}
	return resp
}

func toSubtaskResponse(st *entity.Subtask) SubtaskResponse {
	var resp SubtaskResponse
	_ = copier.Copy(&resp, st)
	return resp
}

func toExecutionResponse(e *entity.AgentExecution) ExecutionResponse {
	var resp ExecutionResponse
	_ = copier.Copy(&resp, e)
	return resp
}

func toTaskStatusResponse(detail *service.TaskDetail) TaskStatusResponse {
	return TaskStatusResponse{
		TaskID:      detail.Task.ID,
		Status:      string(detail.Task.Status),
		Progress:    detail.Progress,
		CurrentStep: detail.CurrentStep,
		Subtasks:    gslice.Map(detail.Subtasks, toSubtaskResponse),
		Executions:  gslice.Map(detail.Executions, toExecutionResponse),
	}
}

func toTaskOverviewResponse(ov *service.TaskOverview) TaskOverviewResponse {
	var resp TaskOverviewResponse
	_ = copier.Copy(&resp, ov.Task)
	resp.SubtaskCount = ov.SubtaskCount
	resp.CompletedSubtasks = ov.CompletedSubtasks
	resp.Progress = ov.Progress
	return resp
}

func toMemoryResponse(m *entity.Memory) MemoryResponse {
	var resp MemoryResponse
	_ = copier.Copy(&resp, m)
	return resp
}
