package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
	"github.com/minimind-ai/minimind/pkg/json"
)

// UserStore is a SQLite-backed store for users.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db.SQL()}
}

func (s *UserStore) Create(ctx context.Context, user *entity.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	prefs, err := encodeDoc(user.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (username, email, preferences, created_at) VALUES (?, ?, ?, ?)`,
		user.Username, user.Email, prefs, user.CreatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return errno.ErrUsernameTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	user.ID, err = res.LastInsertId()
	return err
}

func (s *UserStore) Get(ctx context.Context, id int64) (*entity.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, preferences, created_at FROM users WHERE id = ?`, id))
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	return s.scanUser(s.db.QueryRowContext(ctx,
		`SELECT id, username, email, preferences, created_at FROM users WHERE username = ?`, username))
}

func (s *UserStore) Update(ctx context.Context, user *entity.User) error {
	prefs, err := encodeDoc(user.Preferences)
	if err != nil {
		return fmt.Errorf("failed to marshal preferences: %w", err)
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE users SET username = ?, email = ?, preferences = ? WHERE id = ?`,
		user.Username, user.Email, prefs, user.ID)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errno.ErrUserNotFound
	}
	return nil
}

func (s *UserStore) scanUser(row *sql.Row) (*entity.User, error) {
	var (
		user  entity.User
		prefs string
	)
	err := row.Scan(&user.ID, &user.Username, &user.Email, &prefs, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errno.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan user: %w", err)
	}
	if err := decodeDoc(prefs, &user.Preferences); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preferences: %w", err)
	}
	return &user, nil
}

func encodeDoc(doc map[string]any) (string, error) {
	if doc == nil {
		return "{}", nil
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decodeDoc(raw string, doc *map[string]any) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), doc)
}
