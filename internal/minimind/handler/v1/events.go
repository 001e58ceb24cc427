package v1

import (
	"errors"
	"io"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/service"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
	"github.com/minimind-ai/minimind/internal/pkg/core"
	"github.com/minimind-ai/minimind/pkg/errorx"
)

// eventInterval is how often progress updates are pushed to SSE clients.
const eventInterval = 2 * time.Second

// EventHandler streams task progress over Server-Sent Events.
type EventHandler struct {
	svc      service.TaskService
	interval time.Duration
}

// NewEventHandler creates a new EventHandler.
func NewEventHandler(svc service.TaskService) *EventHandler {
	return &EventHandler{svc: svc, interval: eventInterval}
}

// Stream handles GET /tasks/:id/events. It emits a progress_update event
// every interval until the task reaches a terminal state or the client
// disconnects. The final state is always emitted before the stream closes.
func (h *EventHandler) Stream(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		return
	}

	// Reject unknown tasks before committing to the stream.
	if _, err := h.svc.GetTaskDetail(c.Request.Context(), id); err != nil {
		if errors.Is(err, errno.ErrTaskNotFound) {
			core.WriteResponse(c, errorx.WrapC(err, ErrTaskNotFound, "task %d not found", id), nil)
			return
		}
		core.WriteResponse(c, errorx.WrapC(err, ErrTaskDetail, "load task %d", id), nil)
		return
	}

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	c.Stream(func(w io.Writer) bool {
		detail, err := h.svc.GetTaskDetail(c.Request.Context(), id)
		if err != nil {
			_ = sse.Encode(w, sse.Event{
				Event: "error",
				Data:  gin.H{"task_id": id, "message": "task no longer available"},
			})
			return false
		}

		_ = sse.Encode(w, sse.Event{
			Event: "progress_update",
			Data:  toTaskStatusResponse(detail),
		})
		if detail.Task.Status.IsTerminal() {
			return false
		}

		select {
		case <-c.Request.Context().Done():
			return false
		case <-ticker.C:
			return true
		}
	})
}
