package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/registryhq/identity-service/internal/core/domain"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// NotificationDispatcher enqueues outbound messages for asynchronous
// delivery. Relationship invites fan out to one email plus any number of
// SMS targets, none of which should hold the request open.
type NotificationDispatcher interface {
	EnqueueEmail(to, subject, body string)
	EnqueueSMS(to, body string)
}

// RelationshipService implements ports.RelationshipService.
type RelationshipService struct {
	relationships ports.RelationshipRepository
	phones        ports.PhoneRepository
	users         ports.UserRepository
	auth          ports.AuthService
	dispatcher    NotificationDispatcher
	log           zerolog.Logger
}

func NewRelationshipService(
	relationships ports.RelationshipRepository,
	phones ports.PhoneRepository,
	users ports.UserRepository,
	auth ports.AuthService,
	dispatcher NotificationDispatcher,
	log zerolog.Logger,
) *RelationshipService {
	return &RelationshipService{
		relationships: relationships,
		phones:        phones,
		users:         users,
		auth:          auth,
		dispatcher:    dispatcher,
		log:           log,
	}
}

// Create links the creator with the user behind otherEmail, conjuring a
// passwordless account for them when none exists, and fans out the invite
// notifications. The link starts unverified.
func (s *RelationshipService) Create(ctx context.Context, creatorID, otherEmail string, phoneNumbers []string, status domain.RelationshipStatus) (*domain.Relationship, error) {
	if status == "" {
		status = domain.StatusDating
	}
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidCredentials, status)
	}

	cleaned := make([]string, 0, len(phoneNumbers))
	for _, number := range phoneNumbers {
		number = strings.TrimSpace(number)
		if number == "" {
			continue
		}
		if !domain.ValidPhone(number) {
			return nil, domain.ErrInvalidPhone
		}
		cleaned = append(cleaned, number)
	}

	creator, err := s.users.FindByID(ctx, creatorID)
	if err != nil {
		return nil, err
	}

	other, err := s.auth.EnsureUser(ctx, otherEmail)
	if err != nil {
		return nil, err
	}
	if other.ID == creator.ID {
		return nil, domain.ErrSelfRelationship
	}

	for _, number := range cleaned {
		if _, err := s.phones.Create(ctx, &domain.Phone{
			UserID:    other.ID,
			Number:    number,
			CreatedAt: time.Now().UTC(),
		}); err != nil {
			return nil, err
		}
	}

	rel, err := s.relationships.Create(ctx, &domain.Relationship{
		CreatorID:    creator.ID,
		OtherID:      other.ID,
		Status:       status,
		PhoneNumbers: cleaned,
		CreatedAt:    time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	body := inviteMessage(creator, other)
	s.dispatcher.EnqueueEmail(other.Email, "Requested Relationship on Registry", body)
	for _, number := range cleaned {
		s.dispatcher.EnqueueSMS(number, body)
	}

	return rel, nil
}

// Verify flips the link to verified, false -> true only.
func (s *RelationshipService) Verify(ctx context.Context, id string) (*domain.Relationship, error) {
	rel, err := s.relationships.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if rel.Verified {
		return nil, domain.ErrAlreadyVerified
	}
	rel.Verified = true
	if err := s.relationships.Update(ctx, rel); err != nil {
		return nil, err
	}
	return rel, nil
}

func inviteMessage(creator, other *domain.User) string {
	inviter := creator.Profile.FullName
	if inviter == "" {
		inviter = creator.Email
	}
	return fmt.Sprintf(
		"Hi,\n\n%s has requested a relationship with you on Registry. Download the app, complete your registration with %s and verify the relationship.",
		inviter, other.Email,
	)
}
