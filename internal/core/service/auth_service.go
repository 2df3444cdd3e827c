package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/registryhq/identity-service/internal/core/domain"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// AuthService implements the account state machine:
// registered(unverified) -> email_verified -> active_session.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.SecretHasher
	tokens ports.TokenService
	otp    ports.OTPService
	log    zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	hasher ports.SecretHasher,
	tokens ports.TokenService,
	otp ports.OTPService,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, otp: otp, log: log}
}

// Register creates the user and its profile in one explicit step and
// dispatches the verification passcode. A ghost account created earlier by
// a relationship invite is completed in place: it gets its password and
// profile but keeps its id and existing links.
func (s *AuthService) Register(ctx context.Context, email, password, fullname, country string) (*domain.User, string, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || fullname == "" {
		return nil, "", domain.ErrInvalidCredentials
	}
	if !domain.ValidName(fullname) {
		return nil, "", domain.ErrInvalidCredentials
	}
	if !domain.ValidPassword(password) {
		return nil, "", domain.ErrWeakPassword
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, "", fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.HasUsablePassword() {
			return nil, "", domain.ErrUserExists
		}
		user.PasswordHash = hash
		user.Profile = domain.Profile{FullName: fullname, Country: country}
		user.UpdatedAt = time.Now().UTC()
		if err := s.users.Update(ctx, user); err != nil {
			return nil, "", err
		}
	case errors.Is(err, domain.ErrUserNotFound):
		now := time.Now().UTC()
		user, err = s.users.Create(ctx, &domain.User{
			Email:        email,
			PasswordHash: hash,
			Active:       true,
			Profile:      domain.Profile{FullName: fullname, Country: country},
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil {
			return nil, "", err
		}
	default:
		return nil, "", err
	}

	otp, err := s.otp.Issue(ctx, user, PurposeVerifyEmail)
	if err != nil {
		// The account exists and stays pending verification; delivery can
		// be retried through the verify-email endpoint.
		s.log.Warn().Err(err).Str("email", user.Email).Msg("verification otp issue failed after registration")
	}
	return user, otp, nil
}

// Login verifies the credential pair. Accounts with unverified email get
// no tokens: a fresh passcode is dispatched and the result comes back
// flagged pending.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Indistinguishable from a wrong password: no account
			// enumeration through the login endpoint.
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, domain.ErrAccountInactive
	}

	if !user.VerifiedEmail {
		otp, err := s.otp.Issue(ctx, user, PurposeVerifyEmail)
		if err != nil {
			s.log.Warn().Err(err).Str("email", user.Email).Msg("verification otp issue failed at login")
		}
		return &domain.LoginResult{User: user, Pending: true, OTP: otp}, nil
	}

	pair, err := s.tokens.IssuePair(user)
	if err != nil {
		return nil, fmt.Errorf("issue token pair: %w", err)
	}
	return &domain.LoginResult{User: user, Tokens: pair}, nil
}

// VerifyEmailRequest re-dispatches the verification passcode for a known,
// still-unverified email.
func (s *AuthService) VerifyEmailRequest(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return "", err
	}
	if user.VerifiedEmail {
		return "", domain.ErrAlreadyVerified
	}
	return s.otp.Issue(ctx, user, PurposeVerifyEmail)
}

// VerifyEmailConfirm consumes the passcode and flips the user to verified.
func (s *AuthService) VerifyEmailConfirm(ctx context.Context, email, code string) (*domain.User, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return nil, err
	}
	if user.VerifiedEmail {
		return nil, domain.ErrAlreadyVerified
	}
	if err := s.otp.Confirm(ctx, user.Email, PurposeVerifyEmail, code); err != nil {
		return nil, err
	}
	return s.markVerified(ctx, user)
}

// GenerateEmailToken mints the self-invalidating email-verification token
// for a user id.
func (s *AuthService) GenerateEmailToken(ctx context.Context, userID string) (string, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return "", err
	}
	return s.tokens.IssueEmailToken(user)
}

// ValidateEmailToken consumes an email-verification token. The check is
// idempotent in effect: a second call with the originally valid token
// reports ErrAlreadyVerified while the verified state stays true.
func (s *AuthService) ValidateEmailToken(ctx context.Context, userID, token string) (*domain.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.VerifiedEmail {
		return nil, domain.ErrAlreadyVerified
	}
	if !s.tokens.CheckEmailToken(user, token) {
		return nil, domain.ErrTokenInvalid
	}
	return s.markVerified(ctx, user)
}

// ChangePassword requires the current password before accepting a new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(oldPassword, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}
	return s.setPassword(ctx, user, newPassword)
}

// ForgetPasswordRequest dispatches a reset passcode. Unlike login this
// deliberately reveals whether the email exists: recovery is pointless
// against an unknown address.
func (s *AuthService) ForgetPasswordRequest(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return "", err
	}
	return s.otp.Issue(ctx, user, PurposeResetPassword)
}

// ForgetPasswordApply sets a new password for a known email without
// re-authentication. The surrounding out-of-band flow is the trust
// boundary here.
func (s *AuthService) ForgetPasswordApply(ctx context.Context, email, newPassword string) error {
	user, err := s.users.FindByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		return err
	}
	return s.setPassword(ctx, user, newPassword)
}

// Refresh exchanges a refresh token for a new access token.
func (s *AuthService) Refresh(_ context.Context, refreshToken string) (string, error) {
	return s.tokens.Refresh(refreshToken)
}

// ValidateAccess resolves an access token to its user. Deactivated
// accounts never authenticate, token validity notwithstanding.
func (s *AuthService) ValidateAccess(ctx context.Context, accessToken string) (*domain.User, error) {
	userID, err := s.tokens.VerifyAccess(accessToken)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrTokenInvalid
		}
		return nil, err
	}
	if !user.Active {
		return nil, domain.ErrAccountInactive
	}
	return user, nil
}

// CurrentUser loads the user behind an authenticated request.
func (s *AuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// EnsureUser finds the user behind email or conjures a passwordless ghost
// account for them, profile included, both-or-neither. An address already
// claimed by a registered account fails with ErrEmailTaken.
func (s *AuthService) EnsureUser(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if user.HasUsablePassword() {
			return nil, domain.ErrEmailTaken
		}
		return user, nil
	case errors.Is(err, domain.ErrUserNotFound):
		now := time.Now().UTC()
		return s.users.Create(ctx, &domain.User{
			Email:     email,
			Active:    true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	default:
		return nil, err
	}
}

func (s *AuthService) markVerified(ctx context.Context, user *domain.User) (*domain.User, error) {
	user.VerifiedEmail = true
	user.UpdatedAt = time.Now().UTC()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *AuthService) setPassword(ctx context.Context, user *domain.User, newPassword string) error {
	if !domain.ValidPassword(newPassword) {
		return domain.ErrWeakPassword
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = time.Now().UTC()
	return s.users.Update(ctx, user)
}
