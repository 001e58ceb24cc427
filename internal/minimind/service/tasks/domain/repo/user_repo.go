package repo

import (
	"context"

	"github.com/minimind-ai/minimind/internal/minimind/service/tasks/domain/entity"
)

// UserRepository defines the persistence interface for User entities.
type UserRepository interface {
	// Create stores a new user and assigns its ID.
	Create(ctx context.Context, user *entity.User) error
	// Get retrieves a user by ID.
	Get(ctx context.Context, id int64) (*entity.User, error)
	// GetByUsername retrieves a user by username.
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
	// Update updates an existing user.
	Update(ctx context.Context, user *entity.User) error
}
