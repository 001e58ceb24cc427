package v1

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/russross/blackfriday"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/service"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
	"github.com/minimind-ai/minimind/internal/pkg/core"
	"github.com/minimind-ai/minimind/pkg/errorx"
)

// ReportHandler renders a human-readable HTML report for a task.
type ReportHandler struct {
	svc service.TaskService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(svc service.TaskService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Render handles GET /tasks/:id/report.
func (h *ReportHandler) Render(c *gin.Context) {
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

	html := blackfriday.MarkdownCommon([]byte(reportMarkdown(detail)))
	c.Data(http.StatusOK, "text/html; charset=utf-8", html)
}

// reportMarkdown builds the markdown source for the task report.
func reportMarkdown(detail *service.TaskDetail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Task %d: %s\n\n", detail.Task.ID, detail.Task.Title)
	fmt.Fprintf(&b, "**Status:** %s  \n", detail.Task.Status)
	fmt.Fprintf(&b, "**Progress:** %.0f%%  \n", detail.Progress)
	if detail.CurrentStep != "" {
		fmt.Fprintf(&b, "**Current step:** %s  \n", detail.CurrentStep)
	}
	fmt.Fprintf(&b, "**Created:** %s\n\n", detail.Task.CreatedAt.Format("2006-01-02 15:04:05"))

	if detail.Task.Description != "" {
		fmt.Fprintf(&b, "%s\n\n", detail.Task.Description)
	}

	if len(detail.Subtasks) > 0 {
		b.WriteString("## Subtasks\n\n")
		b.WriteString("| # | Title | Agent | Status |\n")
		b.WriteString("|---|-------|-------|--------|\n")
		for _, st := range detail.Subtasks {
			fmt.Fprintf(&b, "| %d | %s | %s | %s |\n", st.OrderIndex+1, st.Title, st.AgentType, st.Status)
		}
		b.WriteString("\n")
	}

	if len(detail.Executions) > 0 {
		b.WriteString("## Agent Executions\n\n")
		for _, e := range detail.Executions {
			fmt.Fprintf(&b, "### %s (%s)\n\n", e.AgentType, e.Status)
			fmt.Fprintf(&b, "Started %s", e.StartedAt.Format("15:04:05"))
			if e.CompletedAt != nil {
				fmt.Fprintf(&b, ", finished %s", e.CompletedAt.Format("15:04:05"))
			}
			b.WriteString("\n\n")
			if e.ErrorMessage != "" {
				fmt.Fprintf(&b, "> %s\n\n", e.ErrorMessage)
			}
			if result, ok := e.OutputData["result"].(string); ok && result != "" {
				fmt.Fprintf(&b, "%s\n\n", result)
			}
		}
	}

	return b.String()
}
