package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/service/workflow"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/store/inmemory"
)

func newTestService(t *testing.T) (TaskService, *inmemory.TaskStore) {
	t.Helper()

	users := inmemory.NewUserStore()
	tasks := inmemory.NewTaskStore()
	memories := inmemory.NewMemoryStore()

	executor := workflow.NewExecutorAgent()
	memory := workflow.NewMemoryAgent(users, tasks, memories)
	planner := workflow.NewPlannerAgent(tasks)
	registry := workflow.NewRegistry(executor, memory, planner, workflow.NewResearchAgent())
	controller := workflow.NewController(tasks, memory, planner, registry, 0)

	return NewTaskService(users, tasks, memories, controller), tasks
}

func seedUser(t *testing.T, svc TaskService) *entity.User {
	t.Helper()
	user := &entity.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, svc.CreateUser(context.Background(), user))
	return user
}

func TestCreateTaskRunsWorkflow(t *testing.T) {
	svc, _ := newTestService(t)
	user := seedUser(t, svc)
	ctx := context.Background()

	task, err := svc.CreateTask(ctx, user.ID, "Plan a weekend trip", nil)
	require.NoError(t, err)
	require.NotZero(t, task.ID)
	require.Equal(t, entity.TaskStatusPending, task.Status)
	require.Equal(t, "medium", task.Priority)

	require.Eventually(t, func() bool {
		detail, err := svc.GetTaskDetail(ctx, task.ID)
		return err == nil && detail.Task.Status.IsTerminal()
	}, 5*time.Second, 10*time.Millisecond)

	detail, err := svc.GetTaskDetail(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, entity.TaskStatusCompleted, detail.Task.Status)
	require.Len(t, detail.Subtasks, 3)
	require.Equal(t, 100.0, detail.Progress)
	require.Equal(t, "Completed", detail.CurrentStep)
	require.NotEmpty(t, detail.Executions)
}

func TestCreateTaskUnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.CreateTask(context.Background(), 404, "anything", nil)
	require.ErrorIs(t, err, errno.ErrUserNotFound)
}

func TestCreateTaskTitleAndPriority(t *testing.T) {
	svc, _ := newTestService(t)
	user := seedUser(t, svc)
	ctx := context.Background()

	long := strings.Repeat("x", maxTitleLength+50)
	task, err := svc.CreateTask(ctx, user.ID, long, map[string]any{"priority": "high"})
	require.NoError(t, err)
	require.Len(t, task.Title, maxTitleLength)
	require.Equal(t, long, task.Description)
	require.Equal(t, "high", task.Priority)
}

func TestListUserTasksCounters(t *testing.T) {
	svc, tasks := newTestService(t)
	user := seedUser(t, svc)
	ctx := context.Background()

	task := &entity.Task{UserID: user.ID, Title: "manual", Status: entity.TaskStatusExecuting}
	require.NoError(t, tasks.CreateTask(ctx, task))
	require.NoError(t, tasks.CreateSubtask(ctx, &entity.Subtask{
		TaskID: task.ID, Title: "done", OrderIndex: 0, Status: entity.SubtaskStatusCompleted,
	}))
	require.NoError(t, tasks.CreateSubtask(ctx, &entity.Subtask{
		TaskID: task.ID, Title: "open", OrderIndex: 1, Status: entity.SubtaskStatusPending,
	}))

	overviews, err := svc.ListUserTasks(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, overviews, 1)
	require.Equal(t, 2, overviews[0].SubtaskCount)
	require.Equal(t, 1, overviews[0].CompletedSubtasks)
	require.Equal(t, 50.0, overviews[0].Progress)
}

func TestUpdateUserPreferencesMerges(t *testing.T) {
	svc, _ := newTestService(t)
	user := seedUser(t, svc)
	ctx := context.Background()

	_, err := svc.UpdateUserPreferences(ctx, user.ID, map[string]any{"tone": "brief"})
	require.NoError(t, err)
	updated, err := svc.UpdateUserPreferences(ctx, user.ID, map[string]any{"lang": "en"})
	require.NoError(t, err)
	require.Equal(t, "brief", updated.Preferences["tone"])
	require.Equal(t, "en", updated.Preferences["lang"])
}

func TestStoreMemoryDefaultsImportance(t *testing.T) {
	svc, _ := newTestService(t)
	user := seedUser(t, svc)
	ctx := context.Background()

	m := &entity.Memory{UserID: user.ID, MemoryType: "context", Key: "general"}
	require.NoError(t, svc.StoreMemory(ctx, m))
	require.Equal(t, 5, m.Importance)

	listed, err := svc.ListUserMemories(ctx, user.ID, "")
	require.NoError(t, err)
	require.Len(t, listed, 1)
}

func TestCurrentStep(t *testing.T) {
	executing := &entity.Subtask{Title: "Research", Status: entity.SubtaskStatusExecuting}
	pending := &entity.Subtask{Title: "Execute", Status: entity.SubtaskStatusPending}
	completed := &entity.Subtask{Title: "Load", Status: entity.SubtaskStatusCompleted}
	failed := &entity.Subtask{Title: "Broken", Status: entity.SubtaskStatusFailed}

	require.Equal(t, "", currentStep(nil))
	require.Equal(t, "Research", currentStep([]*entity.Subtask{completed, executing, pending}))
	require.Equal(t, "Next: Execute", currentStep([]*entity.Subtask{completed, pending}))
	require.Equal(t, "Completed", currentStep([]*entity.Subtask{completed, completed}))
	require.Equal(t, "Unknown", currentStep([]*entity.Subtask{completed, failed}))
}

func TestProgressPercent(t *testing.T) {
	require.Equal(t, 0.0, progressPercent(0, 0))
	require.Equal(t, 50.0, progressPercent(1, 2))
	require.Equal(t, 100.0, progressPercent(3, 3))
}
