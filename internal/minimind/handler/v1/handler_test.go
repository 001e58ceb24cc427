package v1

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks"
	"github.com/minimind-ai/minimind/internal/pkg/core"
	"github.com/minimind-ai/minimind/pkg/json"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &tasks.Config{StoreType: "inmemory", StepDelay: time.Millisecond}
	module, err := cfg.Complete().New(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { _ = module.Close() })

	users := NewUserHandler(module.Service)
	taskHandler := NewTaskHandler(module.Service)
	memories := NewMemoryHandler(module.Service)
	demo := NewDemoHandler(module.Service)
	report := NewReportHandler(module.Service)

	engine := gin.New()
	engine.POST("/users", users.Create)
	engine.GET("/users/:id", users.Get)
	engine.PUT("/users/:id/preferences", users.UpdatePreferences)
	engine.POST("/tasks", taskHandler.Create)
	engine.GET("/tasks/:id", taskHandler.GetStatus)
	engine.GET("/tasks/:id/progress", taskHandler.GetProgress)
	engine.GET("/tasks/:id/report", report.Render)
	engine.GET("/users/:id/tasks", taskHandler.ListByUser)
	engine.POST("/users/:id/memories", memories.Store)
	engine.GET("/users/:id/memories", memories.List)
	engine.POST("/demo/create-user", demo.CreateUser)
	engine.POST("/demo/task", demo.CreateTask)
	engine.GET("/demo/tasks/:id", demo.GetProgress)
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func decodeBody[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func createTestUser(t *testing.T, engine *gin.Engine, username string) UserResponse {
	t.Helper()
	w := doJSON(t, engine, http.MethodPost, "/users", CreateUserRequest{
		Username: username,
		Email:    username + "@example.com",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeBody[UserResponse](t, w)
}

// awaitTerminal polls the status endpoint until the workflow settles.
func awaitTerminal(t *testing.T, engine *gin.Engine, taskID int64) TaskStatusResponse {
	t.Helper()
	var status TaskStatusResponse
	require.Eventually(t, func() bool {
		w := doJSON(t, engine, http.MethodGet, fmt.Sprintf("/tasks/%d", taskID), nil)
		if w.Code != http.StatusOK {
			return false
		}
		status = decodeBody[TaskStatusResponse](t, w)
		return status.Status == "completed" || status.Status == "error"
	}, 5*time.Second, 10*time.Millisecond)
	return status
}

func TestCreateAndGetUser(t *testing.T) {
	engine := newTestRouter(t)

	user := createTestUser(t, engine, "alice")
	require.NotZero(t, user.ID)
	require.Equal(t, "alice", user.Username)

	w := doJSON(t, engine, http.MethodGet, fmt.Sprintf("/users/%d", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[UserResponse](t, w)
	require.Equal(t, user.ID, got.ID)
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	engine := newTestRouter(t)
	createTestUser(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/users", CreateUserRequest{
		Username: "alice",
		Email:    "other@example.com",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decodeBody[core.ErrResponse](t, w)
	require.Equal(t, ErrUsernameTaken, errResp.Code)
}

func TestGetUnknownUser(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/users/999", nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	errResp := decodeBody[core.ErrResponse](t, w)
	require.Equal(t, ErrUserNotFound, errResp.Code)
}

func TestInvalidIDParam(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodGet, "/users/notanumber", nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decodeBody[core.ErrResponse](t, w)
	require.Equal(t, ErrValidation, errResp.Code)
}

func TestUpdatePreferences(t *testing.T) {
	engine := newTestRouter(t)
	user := createTestUser(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPut, fmt.Sprintf("/users/%d/preferences", user.ID),
		UpdatePreferencesRequest{Preferences: map[string]any{"tone": "brief"}})
	require.Equal(t, http.StatusOK, w.Code)
	got := decodeBody[UserResponse](t, w)
	require.Equal(t, "brief", got.Preferences["tone"])
}

func TestCreateTaskAndObserveWorkflow(t *testing.T) {
	engine := newTestRouter(t)
	user := createTestUser(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/tasks", TaskRequest{
		UserID:  user.ID,
		Request: "Plan a weekend trip to NYC under $500",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	ack := decodeBody[TaskResponse](t, w)
	require.NotZero(t, ack.TaskID)
	require.Equal(t, "started", ack.Status)
	require.Equal(t, estimatedTaskDuration, ack.EstimatedDuration)

	status := awaitTerminal(t, engine, ack.TaskID)
	require.Equal(t, "completed", status.Status)
	require.Equal(t, 100.0, status.Progress)
	require.Equal(t, "Completed", status.CurrentStep)
	require.Len(t, status.Subtasks, 3)
	require.NotEmpty(t, status.Executions)
}

func TestCreateTaskUnknownUser(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/tasks", TaskRequest{UserID: 999, Request: "anything"})
	require.Equal(t, http.StatusNotFound, w.Code)
	errResp := decodeBody[core.ErrResponse](t, w)
	require.Equal(t, ErrUserNotFound, errResp.Code)
}

func TestCreateTaskMissingRequest(t *testing.T) {
	engine := newTestRouter(t)
	user := createTestUser(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/tasks", map[string]any{"user_id": user.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decodeBody[core.ErrResponse](t, w)
	require.Equal(t, ErrBind, errResp.Code)
}

func TestTaskProgressDocument(t *testing.T) {
	engine := newTestRouter(t)
	user := createTestUser(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/tasks", TaskRequest{UserID: user.ID, Request: "do a thing"})
	require.Equal(t, http.StatusOK, w.Code)
	ack := decodeBody[TaskResponse](t, w)
	awaitTerminal(t, engine, ack.TaskID)

	w = doJSON(t, engine, http.MethodGet, fmt.Sprintf("/tasks/%d/progress", ack.TaskID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decodeBody[map[string]any](t, w)
	require.Equal(t, float64(3), doc["total_subtasks"])
	require.Equal(t, float64(3), doc["completed_subtasks"])
	require.Equal(t, float64(100), doc["progress_percentage"])
	recent, ok := doc["recent_executions"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, recent)
}

func TestListUserTasks(t *testing.T) {
	engine := newTestRouter(t)
	user := createTestUser(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/tasks", TaskRequest{UserID: user.ID, Request: "first"})
	require.Equal(t, http.StatusOK, w.Code)
	ack := decodeBody[TaskResponse](t, w)
	awaitTerminal(t, engine, ack.TaskID)

	w = doJSON(t, engine, http.MethodGet, fmt.Sprintf("/users/%d/tasks", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	overviews := decodeBody[[]TaskOverviewResponse](t, w)
	require.Len(t, overviews, 1)
	require.Equal(t, ack.TaskID, overviews[0].ID)
	require.Equal(t, 3, overviews[0].SubtaskCount)
}

func TestMemoriesStoreAndList(t *testing.T) {
	engine := newTestRouter(t)
	user := createTestUser(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, fmt.Sprintf("/users/%d/memories", user.ID), StoreMemoryRequest{
		MemoryType: "preference",
		Key:        "travel_style",
		Value:      map[string]any{"style": "budget"},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	stored := decodeBody[MemoryResponse](t, w)
	require.Equal(t, 5, stored.Importance)

	w = doJSON(t, engine, http.MethodGet, fmt.Sprintf("/users/%d/memories?memory_type=preference", user.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	listed := decodeBody[map[string][]MemoryResponse](t, w)
	require.Len(t, listed["memories"], 1)
	require.Equal(t, "travel_style", listed["memories"][0].Key)
}

func TestDemoFlow(t *testing.T) {
	engine := newTestRouter(t)

	w := doJSON(t, engine, http.MethodPost, "/demo/create-user", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decodeBody[UserResponse](t, w)
	require.Equal(t, demoUsername, first.Username)

	// A second call reuses the existing demo user.
	w = doJSON(t, engine, http.MethodPost, "/demo/create-user", nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decodeBody[UserResponse](t, w)
	require.Equal(t, first.ID, second.ID)

	w = doJSON(t, engine, http.MethodPost, "/demo/task", nil)
	require.Equal(t, http.StatusOK, w.Code)
	ack := decodeBody[TaskResponse](t, w)
	require.NotZero(t, ack.TaskID)

	awaitTerminal(t, engine, ack.TaskID)

	w = doJSON(t, engine, http.MethodGet, fmt.Sprintf("/demo/tasks/%d", ack.TaskID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	doc := decodeBody[map[string]any](t, w)
	require.Equal(t, "completed", doc["task_status"])
}

func TestTaskReport(t *testing.T) {
	engine := newTestRouter(t)
	user := createTestUser(t, engine, "alice")

	w := doJSON(t, engine, http.MethodPost, "/tasks", TaskRequest{UserID: user.ID, Request: "report me"})
	require.Equal(t, http.StatusOK, w.Code)
	ack := decodeBody[TaskResponse](t, w)
	awaitTerminal(t, engine, ack.TaskID)

	w = doJSON(t, engine, http.MethodGet, fmt.Sprintf("/tasks/%d/report", ack.TaskID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")
	require.Contains(t, w.Body.String(), "report me")
}
