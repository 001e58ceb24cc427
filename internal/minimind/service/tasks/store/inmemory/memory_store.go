package inmemory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/pkg/errno"
)

type MemoryStore struct {
	mu       sync.RWMutex
	nextID   int64
	memories map[int64]*entity.Memory
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{memories: make(map[int64]*entity.Memory)}
}

func (s *MemoryStore) Create(_ context.Context, memory *entity.Memory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	memory.ID = s.nextID
	now := time.Now()
	if memory.CreatedAt.IsZero() {
		memory.CreatedAt = now
	}
	if memory.LastAccessed.IsZero() {
		memory.LastAccessed = now
	}
	copied := *memory
	s.memories[memory.ID] = &copied
	return nil
}

func (s *MemoryStore) ListByUser(_ context.Context, userID int64, memoryType string) ([]*entity.Memory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	memories := make([]*entity.Memory, 0)
	for _, m := range s.memories {
		if m.UserID != userID {
			continue
		}
		if memoryType != "" && m.MemoryType != memoryType {
			continue
		}
		copied := *m
		memories = append(memories, &copied)
	}
	sort.Slice(memories, func(i, j int) bool {
		if memories[i].Importance == memories[j].Importance {
			return memories[i].LastAccessed.After(memories[j].LastAccessed)
		}
		return memories[i].Importance > memories[j].Importance
	})
	return memories, nil
}

func (s *MemoryStore) Touch(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memories[id]
	if !ok {
		return errno.ErrMemoryNotFound
	}
	m.LastAccessed = time.Now()
	return nil
}
