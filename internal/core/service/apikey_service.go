package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/registryhq/identity-service/internal/core/domain"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// APIKeyService implements ports.APIKeyService.
type APIKeyService struct {
	keys   ports.APIKeyRepository
	users  ports.UserRepository
	hasher ports.SecretHasher
}

func NewAPIKeyService(keys ports.APIKeyRepository, users ports.UserRepository, hasher ports.SecretHasher) *APIKeyService {
	return &APIKeyService{keys: keys, users: users, hasher: hasher}
}

// Authorize validates the two-header credential and returns the owning
// user. A lookup miss and a secret mismatch are deliberately collapsed
// into one error so callers cannot probe which half failed.
func (s *APIKeyService) Authorize(ctx context.Context, pubKey, secKey string) (*domain.User, error) {
	if pubKey == "" || secKey == "" {
		return nil, domain.ErrAPIKeyInvalid
	}

	key, err := s.keys.FindByPubKey(ctx, pubKey)
	if err != nil {
		if errors.Is(err, domain.ErrAPIKeyInvalid) {
			return nil, domain.ErrAPIKeyInvalid
		}
		return nil, fmt.Errorf("find api key: %w", err)
	}

	if !s.hasher.Verify(secKey, key.SecretHash) {
		return nil, domain.ErrAPIKeyInvalid
	}

	owner, err := s.users.FindByID(ctx, key.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrAPIKeyInvalid
		}
		return nil, fmt.Errorf("find api key owner: %w", err)
	}

	return owner, nil
}

// Create mints a key pair for the user behind ownerEmail. The plaintext
// secret is returned exactly once; only its hash is persisted.
func (s *APIKeyService) Create(ctx context.Context, ownerEmail string) (*domain.ProjectAPIKey, string, error) {
	owner, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(ownerEmail))
	if err != nil {
		return nil, "", err
	}

	pubKey := generatePubKey()
	secret := generateSecret()

	hash, err := s.hasher.Hash(secret)
	if err != nil {
		return nil, "", fmt.Errorf("hash api secret: %w", err)
	}

	key := &domain.ProjectAPIKey{
		UserID:     owner.ID,
		PubKey:     pubKey,
		SecretHash: hash,
		CreatedAt:  time.Now().UTC(),
	}
	created, err := s.keys.Create(ctx, key)
	if err != nil {
		return nil, "", err
	}

	return created, secret, nil
}

// generatePubKey produces a 64-character public identifier.
func generatePubKey() string {
	return randomHex() + randomHex()
}

// generateSecret produces the sec-key in the historical three-segment
// shape: 6, 32 and 16 character groups joined by dots.
func generateSecret() string {
	long := randomHex()
	return fmt.Sprintf("%s.%s.%s", randomHex()[:6], long, randomHex()[:16])
}

// randomHex returns 32 hex characters of randomness.
func randomHex() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}
