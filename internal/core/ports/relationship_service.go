package ports

import (
	"context"

	"github.com/registryhq/identity-service/internal/core/domain"
)

// RelationshipService links two user profiles and drives the invite
// notifications for the second partner.
type RelationshipService interface {
	// Create ensures the other user exists (conjuring a passwordless ghost
	// when needed), records their phone numbers, creates the unverified
	// link and fans out the invite notifications.
	Create(ctx context.Context, creatorID, otherEmail string, phones []string, status domain.RelationshipStatus) (*domain.Relationship, error)
	// Verify flips the relationship to verified. The transition is legal
	// only false -> true; repeating it fails with ErrAlreadyVerified.
	Verify(ctx context.Context, id string) (*domain.Relationship, error)
}
