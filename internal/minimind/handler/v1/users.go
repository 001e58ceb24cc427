package v1

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/service"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
	"github.com/minimind-ai/minimind/internal/pkg/core"
	"github.com/minimind-ai/minimind/pkg/errorx"
)

// UserHandler handles user REST API endpoints.
type UserHandler struct {
	svc service.TaskService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(svc service.TaskService) *UserHandler {
	return &UserHandler{svc: svc}
}

// Create handles POST /users.
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "bind user request"), nil)
		return
	}

	user := &entity.User{
		Username:    req.Username,
		Email:       req.Email,
		Preferences: map[string]any{},
	}
	if err := h.svc.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, errno.ErrUsernameTaken) {
			core.WriteResponse(c, errorx.WrapC(err, ErrUsernameTaken, "create user %q", req.Username), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrUserCreate, "create user %q", req.Username), nil)
		return
	}

	core.WriteResponse(c, nil, toUserResponse(user))
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	user, err := h.svc.GetUser(c.Request.Context(), id)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrUserNotFound, "user %d not found", id), nil)
		return
	}
	core.WriteResponse(c, nil, toUserResponse(user))
}

// UpdatePreferences handles PUT /users/:id/preferences.
func (h *UserHandler) UpdatePreferences(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrBind, "bind preferences request"), nil)
		return
	}

	user, err := h.svc.UpdateUserPreferences(c.Request.Context(), id, req.Preferences)
	if err != nil {
		if errors.Is(err, errno.ErrUserNotFound) {
			core.WriteResponse(c, errorx.WrapC(err, ErrUserNotFound, "user %d not found", id), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrUserUpdate, "update preferences for user %d", id), nil)
		return
	}
	core.WriteResponse(c, nil, toUserResponse(user))
}

// parseID reads a path parameter as int64, writing the validation error
// itself on failure.
func parseID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		core.WriteResponse(c, errorx.WrapC(err, ErrValidation, "invalid %s %q", name, c.Param(name)), nil)
		return 0, err
	}
	return id, nil
}
