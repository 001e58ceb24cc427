package v1

import (
	"errors"

	"github.com/bytedance/gg/gslice"
	"github.com/gin-gonic/gin"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/service"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
	"github.com/minimind-ai/minimind/internal/pkg/core"
	"github.com/minimind-ai/minimind/pkg/errorx"
)

// MemoryHandler handles memory REST API endpoints.
type MemoryHandler struct {
	svc service.TaskService
}

// NewMemoryHandler creates a new MemoryHandler.
func NewMemoryHandler(svc service.TaskService) *MemoryHandler {
	return &MemoryHandler{svc: svc}
}

// Store handles POST /users/:id/memories.
func (h *MemoryHandler) Store(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req StoreMemoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "bind memory request"), nil)
		return
	}

	memory := &entity.Memory{
		UserID:     id,
		MemoryType: req.MemoryType,
		Key:        req.Key,
		Value:      req.Value,
		Importance: req.Importance,
	}
	if err := h.svc.StoreMemory(c.Request.Context(), memory); err != nil {
		if errors.Is(err, errno.ErrUserNotFound) {
			core.WriteResponse(c, errorx.WrapC(err, ErrUserNotFound, "user %d not found", id), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrMemoryStore, "store memory for user %d", id), nil)
		return
	}

	core.WriteResponse(c, nil, toMemoryResponse(memory))
}

// List handles GET /users/:id/memories. The memory_type query parameter
// optionally filters by type.
func (h *MemoryHandler) List(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	memories, err := h.svc.ListUserMemories(c.Request.Context(), id, c.Query("memory_type"))
	if err != nil {
		if errors.Is(err, errno.ErrUserNotFound) {
			core.WriteResponse(c, errorx.WrapC(err, ErrUserNotFound, "user %d not found", id), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrMemoryList, "list memories for user %d", id), nil)
		return
	}

	core.WriteResponse(c, nil, gin.H{"memories": gslice.Map(memories, toMemoryResponse)})
}
