package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/service"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
	"github.com/minimind-ai/minimind/internal/pkg/core"
	"github.com/minimind-ai/minimind/pkg/errorx"
)

const (
	demoUsername = "demo_user"
	demoEmail    = "demo1@example.com"
	demoRequest  = "Plan a weekend trip to NYC under $500"
)

// DemoHandler provides canned endpoints for trying the system without
// writing request bodies.
type DemoHandler struct {
	svc service.TaskService
}

// NewDemoHandler creates a new DemoHandler.
func NewDemoHandler(svc service.TaskService) *DemoHandler {
	return &DemoHandler{svc: svc}
}

// CreateUser handles POST /demo/create-user.
func (h *DemoHandler) CreateUser(c *gin.Context) {
	user, err := h.ensureDemoUser(c)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrUserCreate, "create demo user"), nil)
		return
	}
	core.WriteResponse(c, nil, toUserResponse(user))
}

// CreateTask handles POST /demo/task. It ensures the demo user exists and
// submits a fixed trip-planning request.
func (h *DemoHandler) CreateTask(c *gin.Context) {
	user, err := h.ensureDemoUser(c)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrUserCreate, "create demo user"), nil)
		return
	}

	task, err := h.svc.CreateTask(c.Request.Context(), user.ID, demoRequest, map[string]any{
		"budget":      500,
		"destination": "NYC",
		"duration":    "weekend",
	})
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrTaskCreate, "create demo task"), nil)
		return
	}

	core.WriteResponse(c, nil, TaskResponse{
		TaskID:            task.ID,
		Status:            "started",
		Message:           "Demo task created and workflow started",
		EstimatedDuration: estimatedTaskDuration,
	})
}

// GetProgress handles GET /demo/tasks/:id.
func (h *DemoHandler) GetProgress(c *gin.Context) {
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

func (h *DemoHandler) ensureDemoUser(c *gin.Context) (*entity.User, error) {
	user := &entity.User{
		Username:    demoUsername,
		Email:       demoEmail,
		Preferences: map[string]any{},
	}
	err := h.svc.CreateUser(c.Request.Context(), user)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, errno.ErrUsernameTaken) {
		return nil, err
	}
	// Already registered from an earlier demo run.
	return h.svc.GetUserByUsername(c.Request.Context(), demoUsername)
}
