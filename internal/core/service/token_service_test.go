package service

import (
	"errors"
	"testing"
	"time"

	"github.com/registryhq/identity-service/internal/core/domain"
)

func TestTokenService_IssuePairAndVerify(t *testing.T) {
	svc := NewTokenService("secret", 15*time.Minute, 24*time.Hour, time.Hour)
	user := &domain.User{ID: "user_1"}

	pair, err := svc.IssuePair(user)
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}

	userID, err := svc.VerifyAccess(pair.Access)
	if err != nil {
		t.Fatalf("VerifyAccess failed: %v", err)
	}
	if userID != "user_1" {
		t.Fatalf("unexpected subject: %s", userID)
	}
}

func TestTokenService_TokenTypesDoNotCross(t *testing.T) {
	svc := NewTokenService("secret", 15*time.Minute, 24*time.Hour, time.Hour)
	user := &domain.User{ID: "user_1"}

	pair, err := svc.IssuePair(user)
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}

	// A refresh token is not an access token and vice versa.
	if _, err := svc.VerifyAccess(pair.Refresh); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("refresh as access: got %v", err)
	}
	if _, err := svc.Refresh(pair.Access); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("access as refresh: got %v", err)
	}

	emailToken, err := svc.IssueEmailToken(user)
	if err != nil {
		t.Fatalf("IssueEmailToken failed: %v", err)
	}
	if _, err := svc.VerifyAccess(emailToken); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("email token as access: got %v", err)
	}
}

func TestTokenService_Refresh(t *testing.T) {
	svc := NewTokenService("secret", 15*time.Minute, 24*time.Hour, time.Hour)
	pair, err := svc.IssuePair(&domain.User{ID: "user_9"})
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}

	access, err := svc.Refresh(pair.Refresh)
	if err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}
	userID, err := svc.VerifyAccess(access)
	if err != nil || userID != "user_9" {
		t.Fatalf("refreshed access invalid: %s, %v", userID, err)
	}
}

func TestTokenService_ExpiredAndTampered(t *testing.T) {
	svc := NewTokenService("secret", 15*time.Minute, 24*time.Hour, time.Hour)
	expired, err := svc.sign("user_1", tokenTypeAccess, -time.Minute, svc.secret)
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	if _, err := svc.VerifyAccess(expired); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expired token: got %v", err)
	}

	pair, err := svc.IssuePair(&domain.User{ID: "user_1"})
	if err != nil {
		t.Fatalf("IssuePair failed: %v", err)
	}
	if _, err := svc.VerifyAccess(pair.Access + "x"); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("tampered token: got %v", err)
	}

	other := NewTokenService("other-secret", 15*time.Minute, 24*time.Hour, time.Hour)
	if _, err := other.VerifyAccess(pair.Access); !errors.Is(err, domain.ErrTokenInvalid) {
		t.Fatalf("wrong secret: got %v", err)
	}
}

func TestTokenService_EmailTokenSelfInvalidates(t *testing.T) {
	svc := NewTokenService("secret", 15*time.Minute, 24*time.Hour, time.Hour)
	user := &domain.User{ID: "user_1", VerifiedEmail: false}

	token, err := svc.IssueEmailToken(user)
	if err != nil {
		t.Fatalf("IssueEmailToken failed: %v", err)
	}
	if !svc.CheckEmailToken(user, token) {
		t.Fatalf("fresh token must validate")
	}

	// Flipping the verified flag changes the derived signing key, so the
	// outstanding token stops validating with no revocation list.
	user.VerifiedEmail = true
	if svc.CheckEmailToken(user, token) {
		t.Fatalf("token must stop validating once the state flips")
	}
}

func TestTokenService_EmailTokenBoundToUser(t *testing.T) {
	svc := NewTokenService("secret", 15*time.Minute, 24*time.Hour, time.Hour)

	token, err := svc.IssueEmailToken(&domain.User{ID: "user_1"})
	if err != nil {
		t.Fatalf("IssueEmailToken failed: %v", err)
	}
	if svc.CheckEmailToken(&domain.User{ID: "user_2"}, token) {
		t.Fatalf("token minted for one user must not validate for another")
	}
}
