package boltdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUserStoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	user := &entity.User{
		Username:    "alice",
		Email:       "alice@example.com",
		Preferences: map[string]any{"tone": "brief"},
	}
	require.NoError(t, s.Create(ctx, user))
	require.NotZero(t, user.ID)

	got, err := s.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", got.Username)
	require.Equal(t, "brief", got.Preferences["tone"])

	byName, err := s.GetByUsername(ctx, "alice")
	require.NoError(t, err)
	require.Equal(t, user.ID, byName.ID)

	got.Email = "new@example.com"
	require.NoError(t, s.Update(ctx, got))
	updated, err := s.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "new@example.com", updated.Email)

	_, err = s.Get(ctx, 999)
	require.ErrorIs(t, err, errno.ErrUserNotFound)
}

func TestUserStoreUniqueUsername(t *testing.T) {
	db := newTestDB(t)
	s := NewUserStore(db)
	ctx := context.Background()

	require.NoError(t, s.Create(ctx, &entity.User{Username: "alice", Email: "a@example.com"}))
	err := s.Create(ctx, &entity.User{Username: "alice", Email: "b@example.com"})
	require.ErrorIs(t, err, errno.ErrUsernameTaken)
}

func TestTaskStoreRoundTrip(t *testing.T) {
	db := newTestDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	task := &entity.Task{
		UserID:      1,
		Title:       "demo",
		Description: "demo task",
		Status:      entity.TaskStatusPending,
		Priority:    "medium",
	}
	require.NoError(t, s.CreateTask(ctx, task))
	require.NotZero(t, task.ID)

	got, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, entity.TaskStatusPending, got.Status)

	got.Status = entity.TaskStatusCompleted
	now := time.Now()
	got.CompletedAt = &now
	require.NoError(t, s.UpdateTask(ctx, got))

	again, err := s.GetTask(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, entity.TaskStatusCompleted, again.Status)
	require.NotNil(t, again.CompletedAt)

	_, err = s.GetTask(ctx, 999)
	require.ErrorIs(t, err, errno.ErrTaskNotFound)
}

func TestTaskStoreListNewestFirst(t *testing.T) {
	db := newTestDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	base := time.Now()
	require.NoError(t, s.CreateTask(ctx, &entity.Task{UserID: 1, Title: "older", CreatedAt: base.Add(-time.Hour)}))
	require.NoError(t, s.CreateTask(ctx, &entity.Task{UserID: 1, Title: "newer", CreatedAt: base}))
	require.NoError(t, s.CreateTask(ctx, &entity.Task{UserID: 2, Title: "other", CreatedAt: base}))

	tasks, err := s.ListTasksByUser(ctx, 1)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	require.Equal(t, "newer", tasks[0].Title)
	require.Equal(t, "older", tasks[1].Title)
}

func TestSubtasksAndExecutions(t *testing.T) {
	db := newTestDB(t)
	s := NewTaskStore(db)
	ctx := context.Background()

	task := &entity.Task{UserID: 1, Title: "demo"}
	require.NoError(t, s.CreateTask(ctx, task))

	for _, idx := range []int{1, 0, 2} {
		require.NoError(t, s.CreateSubtask(ctx, &entity.Subtask{
			TaskID:     task.ID,
			Title:      "step",
			AgentType:  "executor",
			OrderIndex: idx,
			Status:     entity.SubtaskStatusPending,
		}))
	}

	subtasks, err := s.ListSubtasks(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, subtasks, 3)
	for i, st := range subtasks {
		require.Equal(t, i, st.OrderIndex)
	}

	subtasks[0].Status = entity.SubtaskStatusCompleted
	require.NoError(t, s.UpdateSubtask(ctx, subtasks[0]))
	again, err := s.ListSubtasks(ctx, task.ID)
	require.NoError(t, err)
	require.Equal(t, entity.SubtaskStatusCompleted, again[0].Status)

	require.ErrorIs(t, s.CreateSubtask(ctx, &entity.Subtask{TaskID: 999}), errno.ErrTaskNotFound)

	exec := &entity.AgentExecution{
		TaskID:     task.ID,
		AgentType:  "executor",
		InputData:  map[string]any{"request": "demo"},
		OutputData: map[string]any{"result": "done"},
		Status:     entity.ExecutionStatusCompleted,
	}
	require.NoError(t, s.CreateExecution(ctx, exec))

	executions, err := s.ListExecutions(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	require.Equal(t, "done", executions[0].OutputData["result"])
}

func TestMemoryStoreListAndTouch(t *testing.T) {
	db := newTestDB(t)
	s := NewMemoryStore(db)
	ctx := context.Background()

	low := &entity.Memory{UserID: 1, MemoryType: "context", Key: "a", Importance: 3}
	high := &entity.Memory{UserID: 1, MemoryType: "preference", Key: "b", Importance: 9}
	require.NoError(t, s.Create(ctx, low))
	require.NoError(t, s.Create(ctx, high))

	all, err := s.ListByUser(ctx, 1, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, high.ID, all[0].ID)

	prefs, err := s.ListByUser(ctx, 1, "preference")
	require.NoError(t, err)
	require.Len(t, prefs, 1)

	before := all[1].LastAccessed
	time.Sleep(time.Millisecond)
	require.NoError(t, s.Touch(ctx, low.ID))
	after, err := s.ListByUser(ctx, 1, "context")
	require.NoError(t, err)
	require.True(t, after[0].LastAccessed.After(before))

	require.ErrorIs(t, s.Touch(ctx, 999), errno.ErrMemoryNotFound)
}
