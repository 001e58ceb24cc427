package v1

import (
	"errors"

	"github.com/bytedance/gg/gslice"
	"github.com/gin-gonic/gin"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/service"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
	"github.com/minimind-ai/minimind/internal/pkg/core"
	"github.com/minimind-ai/minimind/pkg/errorx"
)

// estimatedTaskDuration is the rough duration reported to clients when a
// task workflow starts, in seconds.
const estimatedTaskDuration = 300

// TaskHandler handles task REST API endpoints.
type TaskHandler struct {
	svc service.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(svc service.TaskService) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c *gin.Context) {
	var req TaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "bind task request"), nil)
		return
	}

	task, err := h.svc.CreateTask(c.Request.Context(), req.UserID, req.Request, req.Context)
	if err != nil {
		if errors.Is(err, errno.ErrUserNotFound) {
			core.WriteResponse(c, errorx.WrapC(err, ErrUserNotFound, "user %d not found", req.UserID), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrTaskCreate, "create task for user %d", req.UserID), nil)
		return
	}

	core.WriteResponse(c, nil, TaskResponse{
		TaskID:            task.ID,
		Status:            "started",
		Message:           "Task created and workflow started",
		EstimatedDuration: estimatedTaskDuration,
	})
}

// GetStatus handles GET /tasks/:id.
func (h *TaskHandler) GetStatus(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	detail, err := h.svc.GetTaskDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errno.ErrTaskNotFound) {
			core.WriteResponse(c, errorx.WrapC(err, ErrTaskNotFound, "task %d not found", id), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrTaskDetail, "load task %d", id), nil)
		return
	}

	core.WriteResponse(c, nil, toTaskStatusResponse(detail))
}

// GetProgress handles GET /tasks/:id/progress. It returns a compact
// progress document without the full execution payloads.
func (h *TaskHandler) GetProgress(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	detail, err := h.svc.GetTaskDetail(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errno.ErrTaskNotFound) {
			core.WriteResponse(c, errorx.WrapC(err, ErrTaskNotFound, "task %d not found", id), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrTaskDetail, "load task %d", id), nil)
		return
	}

	core.WriteResponse(c, nil, toProgressDoc(detail))
}

// ListByUser handles GET /users/:id/tasks.
func (h *TaskHandler) ListByUser(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	overviews, err := h.svc.ListUserTasks(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, errno.ErrUserNotFound) {
			core.WriteResponse(c, errorx.WrapC(err, ErrUserNotFound, "user %d not found", id), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrTaskList, "list tasks for user %d", id), nil)
		return
	}

	core.WriteResponse(c, nil, gslice.Map(overviews, toTaskOverviewResponse))
}

// toProgressDoc shapes the compact progress payload: counters plus the five
// most recent executions.
func toProgressDoc(detail *service.TaskDetail) gin.H {
	completed := 0
	for _, st := range detail.Subtasks {
		if st.Status == "completed" {
			completed++
		}
	}

	executions := detail.Executions
	if len(executions) > 5 {
		executions = executions[len(executions)-5:]
	}
	recent := make([]gin.H, 0, len(executions))
	for _, e := range executions {
		recent = append(recent, gin.H{
			"agent_type":   e.AgentType,
			"status":       e.Status,
			"started_at":   e.StartedAt,
			"completed_at": e.CompletedAt,
		})
	}

	return gin.H{
		"task_id":             detail.Task.ID,
		"task_status":         detail.Task.Status,
		"total_subtasks":      len(detail.Subtasks),
		"completed_subtasks":  completed,
		"progress_percentage": detail.Progress,
		"current_step":        detail.CurrentStep,
		"recent_executions":   recent,
	}
}
