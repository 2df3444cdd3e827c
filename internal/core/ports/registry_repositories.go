package ports

import (
	"context"

	"github.com/registryhq/identity-service/internal/core/domain"
)

// PhoneRepository persists phone records. Create must fail with
// domain.ErrPhoneExists when the number is already assigned to any user.
type PhoneRepository interface {
	Create(ctx context.Context, phone *domain.Phone) (*domain.Phone, error)
	FindByNumber(ctx context.Context, number string) (*domain.Phone, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Phone, error)
}

// RelationshipRepository persists relationship links.
type RelationshipRepository interface {
	Create(ctx context.Context, rel *domain.Relationship) (*domain.Relationship, error)
	FindByID(ctx context.Context, id string) (*domain.Relationship, error)
	Update(ctx context.Context, rel *domain.Relationship) error
}

// APIKeyRepository persists project API keys. Pub keys are generated so
// collisions are improbable, but a duplicate insert must still fail the
// write rather than overwrite.
type APIKeyRepository interface {
	Create(ctx context.Context, key *domain.ProjectAPIKey) (*domain.ProjectAPIKey, error)
	FindByPubKey(ctx context.Context, pubKey string) (*domain.ProjectAPIKey, error)
}
