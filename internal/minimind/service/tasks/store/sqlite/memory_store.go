package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
)

// MemoryStore is a SQLite-backed store for user memories.
type MemoryStore struct {
	db *sql.DB
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore(db *DB) *MemoryStore {
	return &MemoryStore{db: db.SQL()}
}

func (s *MemoryStore) Create(ctx context.Context, memory *entity.Memory) error {
	now := time.Now()
	if memory.CreatedAt.IsZero() {
		memory.CreatedAt = now
	}
	if memory.LastAccessed.IsZero() {
		memory.LastAccessed = now
	}
	value, err := encodeDoc(memory.Value)
	if err != nil {
		return fmt.Errorf("failed to marshal memory value: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO memories (user_id, memory_type, key, value, importance, created_at, last_accessed)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		memory.UserID, memory.MemoryType, memory.Key, value, memory.Importance,
		memory.CreatedAt, memory.LastAccessed)
	if err != nil {
		return fmt.Errorf("failed to create memory: %w", err)
	}
	memory.ID, err = res.LastInsertId()
	return err
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID int64, memoryType string) ([]*entity.Memory, error) {
	query := `SELECT id, user_id, memory_type, key, value, importance, created_at, last_accessed
		 FROM memories WHERE user_id = ?`
	args := []any{userID}
	if memoryType != "" {
		query += ` AND memory_type = ?`
		args = append(args, memoryType)
	}
	query += ` ORDER BY importance DESC, last_accessed DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list memories for user %d: %w", userID, err)
	}
	defer rows.Close()

	memories := make([]*entity.Memory, 0)
	for rows.Next() {
		var (
			m     entity.Memory
			value string
		)
		if err := rows.Scan(&m.ID, &m.UserID, &m.MemoryType, &m.Key, &value,
			&m.Importance, &m.CreatedAt, &m.LastAccessed); err != nil {
			return nil, fmt.Errorf("failed to scan memory: %w", err)
		}
		if err := decodeDoc(value, &m.Value); err != nil {
			return nil, fmt.Errorf("failed to unmarshal memory value: %w", err)
		}
		memories = append(memories, &m)
	}
	return memories, rows.Err()
}

func (s *MemoryStore) Touch(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE memories SET last_accessed = ? WHERE id = ?`, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to touch memory %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errno.ErrMemoryNotFound
	}
	return nil
}
