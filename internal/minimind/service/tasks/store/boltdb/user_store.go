package boltdb

import (
	"context"
	"fmt"
	"time"

	"github.com/boltdb/bolt"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
	"github.com/minimind-ai/minimind/pkg/json"
)

// UserStore is a BoltDB-backed store for users.
type UserStore struct {
	db *bolt.DB
}

// NewUserStore creates a new UserStore.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db.Bolt()}
}

func (s *UserStore) Create(ctx context.Context, user *entity.User) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUserStore)
		idx := tx.Bucket(bucketUsernameIndex)
		if idx.Get([]byte(user.Username)) != nil {
			return errno.ErrUsernameTaken
		}
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate user id: %w", err)
		}
		user.ID = int64(seq)
		if user.CreatedAt.IsZero() {
			user.CreatedAt = time.Now()
		}
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		if err := b.Put(itob(user.ID), data); err != nil {
			return err
		}
		return idx.Put([]byte(user.Username), itob(user.ID))
	})
}

func (s *UserStore) Get(ctx context.Context, id int64) (*entity.User, error) {
	var user entity.User
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(bucketUserStore).Get(itob(id))
		if data == nil {
			return errno.ErrUserNotFound
		}
		return json.Unmarshal(data, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) GetByUsername(ctx context.Context, username string) (*entity.User, error) {
	var user entity.User
	err := s.db.View(func(tx *bolt.Tx) error {
		key := tx.Bucket(bucketUsernameIndex).Get([]byte(username))
		if key == nil {
			return errno.ErrUserNotFound
		}
		data := tx.Bucket(bucketUserStore).Get(key)
		if data == nil {
			return errno.ErrUserNotFound
		}
		return json.Unmarshal(data, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserStore) Update(ctx context.Context, user *entity.User) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketUserStore)
		if b.Get(itob(user.ID)) == nil {
			return errno.ErrUserNotFound
		}
		data, err := json.Marshal(user)
		if err != nil {
			return fmt.Errorf("failed to marshal user: %w", err)
		}
		return b.Put(itob(user.ID), data)
	})
}
