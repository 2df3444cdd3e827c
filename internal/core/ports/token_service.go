package ports

import (
	"github.com/registryhq/identity-service/internal/core/domain"
)

// TokenService mints and verifies the JWT credentials of the system.
//
// The email-verification token is special: it is signed with a key derived
// from the user's id and current verified_email state, so flipping the
// state invalidates every outstanding token without a revocation table.
type TokenService interface {
	IssuePair(user *domain.User) (*domain.TokenPair, error)
	VerifyAccess(token string) (string, error)
	Refresh(refreshToken string) (string, error)
	IssueEmailToken(user *domain.User) (string, error)
	CheckEmailToken(user *domain.User, token string) bool
}
