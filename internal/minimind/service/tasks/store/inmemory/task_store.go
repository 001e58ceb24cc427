package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
)

type TaskStore struct {
	mu         sync.RWMutex
	nextID     int64
	tasks      map[int64]*entity.Task
	subtasks   map[int64]*entity.Subtask
	executions map[int64]*entity.AgentExecution
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks:      make(map[int64]*entity.Task),
		subtasks:   make(map[int64]*entity.Subtask),
		executions: make(map[int64]*entity.AgentExecution),
	}
}

func (s *TaskStore) CreateTask(_ context.Context, task *entity.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	task.ID = s.nextID
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	s.tasks[task.ID] = task
	return nil
}

func (s *TaskStore) GetTask(_ context.Context, id int64) (*entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	task, ok := s.tasks[id]
	if !ok {
		return nil, errno.ErrTaskNotFound
	}
	copied := *task
	return &copied, nil
}

func (s *TaskStore) UpdateTask(_ context.Context, task *entity.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[task.ID]; !ok {
		return errno.ErrTaskNotFound
	}
	copied := *task
	s.tasks[task.ID] = &copied
	return nil
}

func (s *TaskStore) ListTasksByUser(_ context.Context, userID int64) ([]*entity.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tasks := make([]*entity.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == userID {
			copied := *t
			tasks = append(tasks, &copied)
		}
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (s *TaskStore) CreateSubtask(_ context.Context, subtask *entity.Subtask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[subtask.TaskID]; !ok {
		return errno.ErrTaskNotFound
	}
	s.nextID++
	subtask.ID = s.nextID
	if subtask.CreatedAt.IsZero() {
		subtask.CreatedAt = time.Now()
	}
	copied := *subtask
	s.subtasks[subtask.ID] = &copied
	return nil
}

func (s *TaskStore) UpdateSubtask(_ context.Context, subtask *entity.Subtask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subtasks[subtask.ID]; !ok {
		return errno.ErrSubtaskNotFound
	}
	copied := *subtask
	s.subtasks[subtask.ID] = &copied
	return nil
}

func (s *TaskStore) ListSubtasks(_ context.Context, taskID int64) ([]*entity.Subtask, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	subtasks := make([]*entity.Subtask, 0)
	for _, st := range s.subtasks {
		if st.TaskID == taskID {
			copied := *st
			subtasks = append(subtasks, &copied)
		}
	}
	sort.Slice(subtasks, func(i, j int) bool {
		if subtasks[i].OrderIndex == subtasks[j].OrderIndex {
			return subtasks[i].ID < subtasks[j].ID
		}
		return subtasks[i].OrderIndex < subtasks[j].OrderIndex
	})
	return subtasks, nil
}

func (s *TaskStore) CreateExecution(_ context.Context, execution *entity.AgentExecution) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[execution.TaskID]; !ok {
		return errno.ErrTaskNotFound
	}
	s.nextID++
	execution.ID = s.nextID
	if execution.StartedAt.IsZero() {
		execution.StartedAt = time.Now()
	}
	copied := *execution
	s.executions[execution.ID] = &copied
	return nil
}

func (s *TaskStore) ListExecutions(_ context.Context, taskID int64) ([]*entity.AgentExecution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	executions := make([]*entity.AgentExecution, 0)
	for _, e := range s.executions {
		if e.TaskID == taskID {
			copied := *e
			executions = append(executions, &copied)
		}
	}
	sort.Slice(executions, func(i, j int) bool {
		if executions[i].StartedAt.Equal(executions[j].StartedAt) {
			return executions[i].ID < executions[j].ID
		}
		return executions[i].StartedAt.Before(executions[j].StartedAt)
	})
	return executions, nil
}
