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

// MemoryStore is a BoltDB-backed store for user memories.
type MemoryStore struct {
	db *bolt.DB
}

// NewMemoryStore creates a new MemoryStore.
func NewMemoryStore(db *DB) *MemoryStore {
	return &MemoryStore{db: db.Bolt()}
}

func (s *MemoryStore) Create(ctx context.Context, memory *entity.Memory) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMemoryStore)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("failed to allocate memory id: %w", err)
		}
		memory.ID = int64(seq)
		now := time.Now()
		if memory.CreatedAt.IsZero() {
			memory.CreatedAt = now
		}
		if memory.LastAccessed.IsZero() {
			memory.LastAccessed = now
		}
		data, err := json.Marshal(memory)
		if err != nil {
			return fmt.Errorf("failed to marshal memory: %w", err)
		}
		return b.Put(itob(memory.ID), data)
	})
}

func (s *MemoryStore) ListByUser(ctx context.Context, userID int64, memoryType string) ([]*entity.Memory, error) {
	var memories []*entity.Memory
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketMemoryStore).ForEach(func(k, v []byte) error {
			var m entity.Memory
			if err := json.Unmarshal(v, &m); err != nil {
				return fmt.Errorf("failed to unmarshal memory: %w", err)
			}
			if m.UserID != userID {
				return nil
			}
			if memoryType != "" && m.MemoryType != memoryType {
				return nil
			}
			memories = append(memories, &m)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list memories for user %d: %w", userID, err)
	}
	sort.Slice(memories, func(i, j int) bool {
		if memories[i].Importance == memories[j].Importance {
			return memories[i].LastAccessed.After(memories[j].LastAccessed)
		}
		return memories[i].Importance > memories[j].Importance
	})
	return memories, nil
}

func (s *MemoryStore) Touch(ctx context.Context, id int64) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketMemoryStore)
		data := b.Get(itob(id))
		if data == nil {
			return errno.ErrMemoryNotFound
		}
		var m entity.Memory
		if err := json.Unmarshal(data, &m); err != nil {
			return fmt.Errorf("failed to unmarshal memory: %w", err)
		}
		m.LastAccessed = time.Now()
		out, err := json.Marshal(&m)
		if err != nil {
			return fmt.Errorf("failed to marshal memory: %w", err)
		}
		return b.Put(itob(id), out)
	})
}
