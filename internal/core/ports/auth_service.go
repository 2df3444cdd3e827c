package ports

import (
	"context"

	"github.com/registryhq/identity-service/internal/core/domain"
)

// AuthService is the request-facing orchestrator for the account state
// machine: registered(unverified) -> email_verified -> active_session.
type AuthService interface {
	// Register creates the user and its profile in one step and triggers
	// the verification passcode. Returns the new user and the passcode.
	Register(ctx context.Context, email, password, fullname, country string) (*domain.User, string, error)
	// Login verifies credentials. Unverified accounts get no tokens; the
	// result is flagged pending and a fresh passcode is dispatched.
	Login(ctx context.Context, email, password string) (*domain.LoginResult, error)
	// VerifyEmailRequest re-sends the verification passcode.
	VerifyEmailRequest(ctx context.Context, email string) (string, error)
	// VerifyEmailConfirm consumes the passcode and marks the email verified.
	VerifyEmailConfirm(ctx context.Context, email, code string) (*domain.User, error)
	// GenerateEmailToken mints the self-invalidating email-verify token.
	GenerateEmailToken(ctx context.Context, userID string) (string, error)
	// ValidateEmailToken consumes the token. Repeating the call on an
	// already-verified user fails with domain.ErrAlreadyVerified while the
	// verified state stays true.
	ValidateEmailToken(ctx context.Context, userID, token string) (*domain.User, error)
	// ChangePassword requires the current password before accepting a new
	// one that passes the strength policy.
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	// ForgetPasswordRequest dispatches a reset passcode to a known email.
	ForgetPasswordRequest(ctx context.Context, email string) (string, error)
	// ForgetPasswordApply sets a new password for a known email. The trust
	// boundary is the out-of-band channel that delivered the request.
	ForgetPasswordApply(ctx context.Context, email, newPassword string) error
	// Refresh exchanges a valid refresh token for a new access token.
	Refresh(ctx context.Context, refreshToken string) (string, error)
	// ValidateAccess resolves an access token to its active user.
	ValidateAccess(ctx context.Context, accessToken string) (*domain.User, error)
	// CurrentUser loads the user behind an authenticated request.
	CurrentUser(ctx context.Context, userID string) (*domain.User, error)
	// EnsureUser finds or conjures a passwordless user for an invite.
	EnsureUser(ctx context.Context, email string) (*domain.User, error)
}
