package ports

import (
	"context"

	"github.com/registryhq/identity-service/internal/core/domain"
)

// UserRepository defines the persistence interface for user identities.
// Create must fail with domain.ErrUserExists when the normalized email is
// already taken; concurrent duplicate registrations resolve to exactly one
// winner through the store's unique index.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}
