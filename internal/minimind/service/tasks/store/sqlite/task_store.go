package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
)

// TaskStore is a SQLite-backed store for tasks, subtasks and agent executions.
type TaskStore struct {
	db *sql.DB
}

// NewTaskStore creates a new TaskStore.
func NewTaskStore(db *DB) *TaskStore {
	return &TaskStore{db: db.SQL()}
}

func (s *TaskStore) CreateTask(ctx context.Context, task *entity.Task) error {
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO tasks (user_id, title, description, status, priority, created_at, updated_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		task.UserID, task.Title, task.Description, task.Status, task.Priority,
		task.CreatedAt, task.UpdatedAt, task.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	task.ID, err = res.LastInsertId()
	return err
}

func (s *TaskStore) GetTask(ctx context.Context, id int64) (*entity.Task, error) {
	var task entity.Task
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, title, description, status, priority, created_at, updated_at, completed_at
		 FROM tasks WHERE id = ?`, id).
		Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status,
			&task.Priority, &task.CreatedAt, &task.UpdatedAt, &task.CompletedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errno.ErrTaskNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get task %d: %w", id, err)
	}
	return &task, nil
}

func (s *TaskStore) UpdateTask(ctx context.Context, task *entity.Task) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE tasks SET status = ?, priority = ?, title = ?, description = ?, updated_at = ?, completed_at = ?
		 WHERE id = ?`,
		task.Status, task.Priority, task.Title, task.Description, task.UpdatedAt, task.CompletedAt, task.ID)
	if err != nil {
		return fmt.Errorf("failed to update task %d: %w", task.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errno.ErrTaskNotFound
	}
	return nil
}

func (s *TaskStore) ListTasksByUser(ctx context.Context, userID int64) ([]*entity.Task, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, title, description, status, priority, created_at, updated_at, completed_at
		 FROM tasks WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks for user %d: %w", userID, err)
	}
	defer rows.Close()

	tasks := make([]*entity.Task, 0)
	for rows.Next() {
		var task entity.Task
		if err := rows.Scan(&task.ID, &task.UserID, &task.Title, &task.Description, &task.Status,
			&task.Priority, &task.CreatedAt, &task.UpdatedAt, &task.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan task: %w", err)
		}
		tasks = append(tasks, &task)
	}
	return tasks, rows.Err()
}

func (s *TaskStore) CreateSubtask(ctx context.Context, subtask *entity.Subtask) error {
	if subtask.CreatedAt.IsZero() {
		subtask.CreatedAt = time.Now()
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO subtasks (task_id, title, description, agent_type, order_index, status, created_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		subtask.TaskID, subtask.Title, subtask.Description, subtask.AgentType,
		subtask.OrderIndex, subtask.Status, subtask.CreatedAt, subtask.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to create subtask: %w", err)
	}
	subtask.ID, err = res.LastInsertId()
	return err
}

func (s *TaskStore) UpdateSubtask(ctx context.Context, subtask *entity.Subtask) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE subtasks SET status = ?, completed_at = ? WHERE id = ?`,
		subtask.Status, subtask.CompletedAt, subtask.ID)
	if err != nil {
		return fmt.Errorf("failed to update subtask %d: %w", subtask.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errno.ErrSubtaskNotFound
	}
	return nil
}

func (s *TaskStore) ListSubtasks(ctx context.Context, taskID int64) ([]*entity.Subtask, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, task_id, title, description, agent_type, order_index, status, created_at, completed_at
		 FROM subtasks WHERE task_id = ? ORDER BY order_index ASC, id ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list subtasks for task %d: %w", taskID, err)
	}
	defer rows.Close()

	subtasks := make([]*entity.Subtask, 0)
	for rows.Next() {
		var st entity.Subtask
		if err := rows.Scan(&st.ID, &st.TaskID, &st.Title, &st.Description, &st.AgentType,
			&st.OrderIndex, &st.Status, &st.CreatedAt, &st.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan subtask: %w", err)
		}
		subtasks = append(subtasks, &st)
	}
	return subtasks, rows.Err()
}

func (s *TaskStore) CreateExecution(ctx context.Context, execution *entity.AgentExecution) error {
	if execution.StartedAt.IsZero() {
		execution.StartedAt = time.Now()
	}
	input, err := encodeDoc(execution.InputData)
	if err != nil {
		return fmt.Errorf("failed to marshal input data: %w", err)
	}
	var output sql.NullString
	if execution.OutputData != nil {
		raw, err := encodeDoc(execution.OutputData)
		if err != nil {
			return fmt.Errorf("failed to marshal output data: %w", err)
		}
		output = sql.NullString{String: raw, Valid: true}
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO agent_executions (task_id, subtask_id, agent_type, input_data, output_data, status, error_message, started_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		execution.TaskID, execution.SubtaskID, execution.AgentType, input, output,
		execution.Status, nullString(execution.ErrorMessage), execution.StartedAt, execution.CompletedAt)
	if err != nil {
		return fmt.Errorf("failed to create execution: %w", err)
	}
	execution.ID, err = res.LastInsertId()
	return err
}

func (s *TaskStore) ListExecutions(ctx context.Context, taskID int64) ([]*entity.AgentExecution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, task_id, subtask_id, agent_type, input_data, output_data, status, error_message, started_at, completed_at
		 FROM agent_executions WHERE task_id = ? ORDER BY started_at ASC, id ASC`, taskID)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions for task %d: %w", taskID, err)
	}
	defer rows.Close()

	executions := make([]*entity.AgentExecution, 0)
	for rows.Next() {
		var (
			e            entity.AgentExecution
			input        string
			output, emsg sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.TaskID, &e.SubtaskID, &e.AgentType, &input, &output,
			&e.Status, &emsg, &e.StartedAt, &e.CompletedAt); err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}
		if err := decodeDoc(input, &e.InputData); err != nil {
			return nil, fmt.Errorf("failed to unmarshal input data: %w", err)
		}
		if output.Valid {
			if err := decodeDoc(output.String, &e.OutputData); err != nil {
				return nil, fmt.Errorf("failed to unmarshal output data: %w", err)
			}
		}
		e.ErrorMessage = emsg.String
		executions = append(executions, &e)
	}
	return executions, rows.Err()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
