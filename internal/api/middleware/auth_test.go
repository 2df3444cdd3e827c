package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/registryhq/identity-service/internal/core/domain"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// stubTokenAuth embeds the interface so only ValidateAccess needs a body.
type stubTokenAuth struct {
	ports.AuthService
	user  *domain.User
	token string
}

func (s *stubTokenAuth) ValidateAccess(_ context.Context, accessToken string) (*domain.User, error) {
	if s.user != nil && accessToken == s.token {
		return s.user, nil
	}
	return nil, domain.ErrTokenInvalid
}

type stubKeyAuth struct {
	actor  *domain.User
	pub    string
	secret string
}

func (s *stubKeyAuth) Authorize(_ context.Context, pubKey, secKey string) (*domain.User, error) {
	if s.actor != nil && pubKey == s.pub && secKey == s.secret {
		return s.actor, nil
	}
	return nil, domain.ErrAPIKeyInvalid
}

func (s *stubKeyAuth) Create(context.Context, string) (*domain.ProjectAPIKey, string, error) {
	return nil, "", domain.ErrUserNotFound
}

func runExtraction(t *testing.T, mw echo.MiddlewareFunc, decorate func(*http.Request)) *Credentials {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if decorate != nil {
		decorate(req)
	}
	c := e.NewContext(req, httptest.NewRecorder())

	var got *Credentials
	handler := mw(func(c echo.Context) error {
		got = FromContext(c)
		return c.NoContent(http.StatusOK)
	})
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	return got
}

func TestBearerAuth_ValidToken(t *testing.T) {
	user := &domain.User{ID: "user_1"}
	mw := BearerAuth(&stubTokenAuth{user: user, token: "good-token"})

	creds := runExtraction(t, mw, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer good-token")
	})
	if creds.BearerUser == nil || creds.BearerUser.ID != "user_1" {
		t.Fatalf("bearer slot not filled: %+v", creds)
	}
}

func TestBearerAuth_InvalidTokenIsBestEffort(t *testing.T) {
	mw := BearerAuth(&stubTokenAuth{user: &domain.User{ID: "user_1"}, token: "good-token"})

	// Bad token: the request proceeds with an empty slot, it is the
	// route's policy that denies or allows.
	creds := runExtraction(t, mw, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer bad-token")
	})
	if creds.BearerUser != nil {
		t.Fatalf("invalid token must leave the slot empty")
	}

	// No header at all behaves the same.
	creds = runExtraction(t, mw, nil)
	if creds.BearerUser != nil {
		t.Fatalf("missing header must leave the slot empty")
	}

	// A non-bearer scheme is ignored, not treated as a token.
	creds = runExtraction(t, mw, func(r *http.Request) {
		r.Header.Set("Authorization", "Basic Zm9vOmJhcg==")
	})
	if creds.BearerUser != nil {
		t.Fatalf("non-bearer scheme must be ignored")
	}
}

func TestAPIKeyAuth_ValidPair(t *testing.T) {
	actor := &domain.User{ID: "actor_1", Staff: true}
	mw := APIKeyAuth(&stubKeyAuth{actor: actor, pub: "pub-1", secret: "sec-1"}, "Ivory-Api-Key", "Ivory-Sec-Api-Key")

	creds := runExtraction(t, mw, func(r *http.Request) {
		r.Header.Set("Ivory-Api-Key", "pub-1")
		r.Header.Set("Ivory-Sec-Api-Key", "sec-1")
	})
	if creds.APIKeyActor == nil || creds.APIKeyActor.ID != "actor_1" {
		t.Fatalf("api key slot not filled: %+v", creds)
	}
}

func TestAPIKeyAuth_BadPairIsBestEffort(t *testing.T) {
	actor := &domain.User{ID: "actor_1"}
	mw := APIKeyAuth(&stubKeyAuth{actor: actor, pub: "pub-1", secret: "sec-1"}, "Ivory-Api-Key", "Ivory-Sec-Api-Key")

	creds := runExtraction(t, mw, func(r *http.Request) {
		r.Header.Set("Ivory-Api-Key", "pub-1")
		r.Header.Set("Ivory-Sec-Api-Key", "wrong")
	})
	if creds.APIKeyActor != nil {
		t.Fatalf("wrong secret must leave the slot empty")
	}

	creds = runExtraction(t, mw, nil)
	if creds.APIKeyActor != nil {
		t.Fatalf("missing headers must leave the slot empty")
	}
}

func TestBothCredentialsCoexist(t *testing.T) {
	user := &domain.User{ID: "user_1"}
	actor := &domain.User{ID: "actor_1"}
	bearer := BearerAuth(&stubTokenAuth{user: user, token: "good-token"})
	apikey := APIKeyAuth(&stubKeyAuth{actor: actor, pub: "pub-1", secret: "sec-1"}, "Ivory-Api-Key", "Ivory-Sec-Api-Key")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	req.Header.Set("Ivory-Api-Key", "pub-1")
	req.Header.Set("Ivory-Sec-Api-Key", "sec-1")
	c := e.NewContext(req, httptest.NewRecorder())

	var got *Credentials
	handler := apikey(bearer(func(c echo.Context) error {
		got = FromContext(c)
		return c.NoContent(http.StatusOK)
	}))
	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.APIKeyActor == nil || got.BearerUser == nil {
		t.Fatalf("both slots must be filled: %+v", got)
	}
}
