package repo

import (
	"context"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
)

// MemoryRepository defines the persistence interface for Memory entities.
type MemoryRepository interface {
	// Create stores a new memory and assigns its ID.
	Create(ctx context.Context, memory *entity.Memory) error
	// ListByUser returns a user's memories ordered by importance then
	// recency. memoryType filters when non-empty.
	ListByUser(ctx context.Context, userID int64, memoryType string) ([]*entity.Memory, error)
	// Touch updates a memory's last-accessed time.
	Touch(ctx context.Context, id int64) error
}
