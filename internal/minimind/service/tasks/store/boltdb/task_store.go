package boltdb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/boltdb/bolt"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
	"github.com/minimind-ai/minimind/pkg/json"
)

// TaskStore is a BoltDB-backed store for tasks, subtasks and agent executions.
type TaskStore struct {
	db *bolt.DB
}

// NewTaskStore creates a new TaskStore.
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db.Bolt()}
}

func (s *TaskStore) CreateTask(ctx context.Context, task *entity.Task) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTaskStore)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate task id: %w", err)
		}
		task.ID = int64(seq)
		if task.CreatedAt.IsZero() {
			task.CreatedAt = time.Now()
		}
		data, err := json.Marshal(task)
		if err != nil {
			return fmt.Errorf("failed to marshal task: %w", err)
		}
		return b.Put(itob(task.ID), data)
	})
}

func (s *TaskStore) GetTask(ctx context.Context, id int64) (*entity.Task, error) {
	var task entity.Task
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketTaskStore).Get(itob(id))
		if data == nil {
			return errno.ErrTaskNotFound
		}
		return json.Unmarshal(data, &task)
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskStore) UpdateTask(ctx context.Context, task *entity.Task) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTaskStore)
		if b.Get(itob(task.ID)) == nil {
			return errno.ErrTaskNotFound
		}
		data, err := json.Marshal(task)
		if err != nil {
			return fmt.Errorf("failed to marshal task: %w", err)
		}
		return b.Put(itob(task.ID), data)
	})
}

func (s *TaskStore) ListTasksByUser(ctx context.Context, userID int64) ([]*entity.Task, error) {
	var tasks []*entity.Task
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketTaskStore).ForEach(func(k, v []byte) error {
			var t entity.Task
			if err := json.Unmarshal(v, &t); err != nil {
				return fmt.Errorf("failed to unmarshal task: %w", err)
			}
			if t.UserID == userID {
				tasks = append(tasks, &t)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for user %d: %w", userID, err)
	}
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].CreatedAt.Equal(tasks[j].CreatedAt) {
			return tasks[i].ID > tasks[j].ID
		}
		return tasks[i].CreatedAt.After(tasks[j].CreatedAt)
	})
	return tasks, nil
}

func (s *TaskStore) CreateSubtask(ctx context.Context, subtask *entity.Subtask) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketTaskStore).Get(itob(subtask.TaskID)) == nil {
			return errno.ErrTaskNotFound
		}
		b := tx.Bucket(bucketSubtaskStore)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate subtask id: %w", err)
		}
		subtask.ID = int64(seq)
		if subtask.CreatedAt.IsZero() {
			subtask.CreatedAt = time.Now()
		}
		data, err := json.Marshal(subtask)
		if err != nil {
			return fmt.Errorf("failed to marshal subtask: %w", err)
		}
		return b.Put(itob(subtask.ID), data)
	})
}

func (s *TaskStore) UpdateSubtask(ctx context.Context, subtask *entity.Subtask) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSubtaskStore)
		if b.Get(itob(subtask.ID)) == nil {
			return errno.ErrSubtaskNotFound
		}
		data, err := json.Marshal(subtask)
		if err != nil {
			return fmt.Errorf("failed to marshal subtask: %w", err)
		}
		return b.Put(itob(subtask.ID), data)
	})
}

func (s *TaskStore) ListSubtasks(ctx context.Context, taskID int64) ([]*entity.Subtask, error) {
	var subtasks []*entity.Subtask
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSubtaskStore).ForEach(func(k, v []byte) error {
			var st entity.Subtask
			if err := json.Unmarshal(v, &st); err != nil {
				return fmt.Errorf("failed to unmarshal subtask: %w", err)
			}
			if st.TaskID == taskID {
				subtasks = append(subtasks, &st)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks for task %d: %w", taskID, err)
	}
	sort.Slice(subtasks, func(i, j int) bool {
		if subtasks[i].OrderIndex == subtasks[j].OrderIndex {
			return subtasks[i].ID < subtasks[j].ID
		}
		return subtasks[i].OrderIndex < subtasks[j].OrderIndex
	})
	return subtasks, nil
}

func (s *TaskStore) CreateExecution(ctx context.Context, execution *entity.AgentExecution) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		if tx.Bucket(bucketTaskStore).Get(itob(execution.TaskID)) == nil {
			return errno.ErrTaskNotFound
		}
		b := tx.Bucket(bucketExecStore)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate execution id: %w", err)
		}
		execution.ID = int64(seq)
		if execution.StartedAt.IsZero() {
			execution.StartedAt = time.Now()
		}
		data, err := json.Marshal(execution)
		if err != nil {
			return fmt.Errorf("failed to marshal execution: %w", err)
		}
		return b.Put(itob(execution.ID), data)
	})
}

func (s *TaskStore) ListExecutions(ctx context.Context, taskID int64) ([]*entity.AgentExecution, error) {
	var executions []*entity.AgentExecution
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketExecStore).ForEach(func(k, v []byte) error {
			var e entity.AgentExecution
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("failed to unmarshal execution: %w", err)
			}
			if e.TaskID == taskID {
				executions = append(executions, &e)
			}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list executions for task %d: %w", taskID, err)
	}
	sort.Slice(executions, func(i, j int) bool {
		if executions[i].StartedAt.Equal(executions[j].StartedAt) {
			return executions[i].ID < executions[j].ID
		}
		return executions[i].StartedAt.Before(executions[j].StartedAt)
	})
	return executions, nil
}
