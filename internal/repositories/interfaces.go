package repositories

import (
	"context"

	"github.com/reelbase/backend/internal/models"
)

// UserRepository defines the data access contract for identity records.
type UserRepository interface {
	Create(ctx context.Context, user models.User) error
	FindByEmail(ctx context.Context, email string) (models.User, error)
	FindByID(ctx context.Context, id string) (models.User, error)
	Update(ctx context.Context, user models.User) error
}

// ProfileRepository defines the data access contract for the per-user
// profile document.
type ProfileRepository interface {
	Find(ctx context.Context, userID string) (models.Profile, error)
	Upsert(ctx context.Context, profile models.Profile) error
}
