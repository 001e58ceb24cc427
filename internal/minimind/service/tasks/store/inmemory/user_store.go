package inmemory

import (
	"context"
	"sync"
	"time"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
)

type UserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]*entity.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[int64]*entity.User)}
}

func (s *UserStore) Create(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Username == user.Username {
			return errno.ErrUsernameTaken
		}
	}
	s.nextID++
	user.ID = s.nextID
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	s.users[user.ID] = user
	return nil
}

func (s *UserStore) Get(_ context.Context, id int64) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	user, ok := s.users[id]
	if !ok {
		return nil, errno.ErrUserNotFound
	}
	return user, nil
}

func (s *UserStore) GetByUsername(_ context.Context, username string) (*entity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, errno.ErrUserNotFound
}

func (s *UserStore) Update(_ context.Context, user *entity.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return errno.ErrUserNotFound
	}
	s.users[user.ID] = user
	return nil
}
