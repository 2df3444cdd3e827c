package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/registryhq/identity-service/internal/core/domain"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	tokenTypeEmail   = "email_verify"
)

// TokenService implements ports.TokenService with HS256 JWTs.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
}

func NewTokenService(secret string, accessTTL, refreshTTL, emailTTL time.Duration) *TokenService {
	if accessTTL <= 0 {
		accessTTL = 15 * time.Minute
	}
	if refreshTTL <= 0 {
		refreshTTL = 24 * time.Hour
	}
	if emailTTL <= 0 {
		emailTTL = time.Hour
	}
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		emailTTL:   emailTTL,
	}
}

// IssuePair mints the access/refresh pair for a user. Claims carry only
// identity and expiry, nothing business-sensitive.
func (s *TokenService) IssuePair(user *domain.User) (*domain.TokenPair, error) {
	access, err := s.sign(user.ID, tokenTypeAccess, s.accessTTL, s.secret)
	if err != nil {
		return nil, err
	}
	refresh, err := s.sign(user.ID, tokenTypeRefresh, s.refreshTTL, s.secret)
	if err != nil {
		return nil, err
	}
	return &domain.TokenPair{Access: access, Refresh: refresh}, nil
}

// VerifyAccess returns the user id bound to a valid access token.
func (s *TokenService) VerifyAccess(token string) (string, error) {
	return s.verify(token, tokenTypeAccess, s.secret)
}

// Refresh exchanges a valid refresh token for a new access token.
// Malformed, expired and tampered tokens all fail with ErrTokenInvalid;
// the caller never learns which.
func (s *TokenService) Refresh(refreshToken string) (string, error) {
	userID, err := s.verify(refreshToken, tokenTypeRefresh, s.secret)
	if err != nil {
		return "", err
	}
	return s.sign(userID, tokenTypeAccess, s.accessTTL, s.secret)
}

// IssueEmailToken mints a one-time email-verification token. It is signed
// with a key derived from the user's id and current verified_email state,
// so the token stops validating the moment the state flips.
func (s *TokenService) IssueEmailToken(user *domain.User) (string, error) {
	return s.sign(user.ID, tokenTypeEmail, s.emailTTL, s.emailKey(user))
}

// CheckEmailToken reports whether token is still valid for the user's
// current state.
func (s *TokenService) CheckEmailToken(user *domain.User, token string) bool {
	userID, err := s.verify(token, tokenTypeEmail, s.emailKey(user))
	return err == nil && userID == user.ID
}

// emailKey derives the per-user signing key for email-verification tokens.
func (s *TokenService) emailKey(user *domain.User) []byte {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(user.ID))
	mac.Write([]byte(strconv.FormatBool(user.VerifiedEmail)))
	return mac.Sum(nil)
}

func (s *TokenService) sign(userID, typ string, ttl time.Duration, key []byte) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": userID,
		"typ": typ,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(key)
}

func (s *TokenService) verify(token, wantType string, key []byte) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", domain.ErrTokenExpired
		}
		return "", domain.ErrTokenInvalid
	}
	if !tkn.Valid {
		return "", domain.ErrTokenInvalid
	}
	if typ, _ := claims["typ"].(string); typ != wantType {
		return "", domain.ErrTokenInvalid
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", domain.ErrTokenInvalid
	}
	return sub, nil
}
