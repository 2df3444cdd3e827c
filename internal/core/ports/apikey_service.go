package ports

import (
	"context"

	"github.com/registryhq/identity-service/internal/core/domain"
)

// APIKeyService validates and mints project-level API key pairs.
type APIKeyService interface {
	// Authorize checks the two-header credential. A missing pub key and a
	// wrong secret are indistinguishable to the caller: both return
	// domain.ErrAPIKeyInvalid.
	Authorize(ctx context.Context, pubKey, secKey string) (*domain.User, error)
	// Create mints a key pair owned by the user behind ownerEmail and
	// returns the plaintext secret exactly once.
	Create(ctx context.Context, ownerEmail string) (*domain.ProjectAPIKey, string, error)
}
