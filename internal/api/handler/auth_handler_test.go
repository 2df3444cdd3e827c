package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/registryhq/identity-service/internal/api/middleware"
	"github.com/registryhq/identity-service/internal/core/domain"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// stubAuthService embeds the interface so each test only fills the
// methods its handler touches.
type stubAuthService struct {
	ports.AuthService
	registerFn    func(ctx context.Context, email, password, fullname, country string) (*domain.User, string, error)
	loginFn       func(ctx context.Context, email, password string) (*domain.LoginResult, error)
	changeFn      func(ctx context.Context, userID, oldPassword, newPassword string) error
	currentUserFn func(ctx context.Context, userID string) (*domain.User, error)
	confirmFn     func(ctx context.Context, email, code string) (*domain.User, error)
}

func (s *stubAuthService) Register(ctx context.Context, email, password, fullname, country string) (*domain.User, string, error) {
	return s.registerFn(ctx, email, password, fullname, country)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (*domain.LoginResult, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	return s.changeFn(ctx, userID, oldPassword, newPassword)
}

func (s *stubAuthService) CurrentUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.currentUserFn(ctx, userID)
}

func (s *stubAuthService) VerifyEmailConfirm(ctx context.Context, email, code string) (*domain.User, error) {
	return s.confirmFn(ctx, email, code)
}

func newHandlerContext(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestAuthHandler_Register_Success(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(_ context.Context, email, password, fullname, country string) (*domain.User, string, error) {
			if email != "ada@example.com" || fullname != "Ada Lovelace" || country != "GB" {
				t.Fatalf("unexpected args: %s %s %s", email, fullname, country)
			}
			return &domain.User{ID: "user_1", Email: email}, "123456", nil
		},
	}
	handler := NewAuthHandler(stub, true)

	c, rec := newHandlerContext(t, http.MethodPost, "/auth/register",
		`{"email":"ada@example.com","password":"passw0rd1","fullname":"Ada Lovelace","country":"GB"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "ada@example.com" || resp["otp"] != "123456" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Register_OTPHiddenInProduction(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, string, string) (*domain.User, string, error) {
			return &domain.User{ID: "user_1", Email: "ada@example.com"}, "123456", nil
		},
	}
	handler := NewAuthHandler(stub, false)

	c, rec := newHandlerContext(t, http.MethodPost, "/auth/register",
		`{"email":"ada@example.com","password":"passw0rd1","fullname":"Ada"}`)
	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if _, leaked := resp["otp"]; leaked {
		t.Fatalf("otp must not be echoed in production: %+v", resp)
	}
}

func TestAuthHandler_Register_InvalidPayload(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, string, string) (*domain.User, string, error) {
			t.Fatalf("should not be called")
			return nil, "", nil
		},
	}
	handler := NewAuthHandler(stub, true)

	cases := []struct {
		name string
		body string
	}{
		{"not json", "not-json"},
		{"missing password", `{"email":"a@b.com","fullname":"Ada"}`},
		{"weak password", `{"email":"a@b.com","password":"12345678","fullname":"Ada"}`},
		{"special chars in name", `{"email":"a@b.com","password":"passw0rd1","fullname":"Ada<>"}`},
		{"bad email", `{"email":"not-an-email","password":"passw0rd1","fullname":"Ada"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, _ := newHandlerContext(t, http.MethodPost, "/auth/register", tc.body)
			err := handler.Register(c)
			var httpErr *echo.HTTPError
			if !errors.As(err, &httpErr) || httpErr.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 HTTPError, got %v", err)
			}
		})
	}
}

func TestAuthHandler_Register_Conflict(t *testing.T) {
	stub := &stubAuthService{
		registerFn: func(context.Context, string, string, string, string) (*domain.User, string, error) {
			return nil, "", domain.ErrUserExists
		},
	}
	handler := NewAuthHandler(stub, true)

	c, _ := newHandlerContext(t, http.MethodPost, "/auth/register",
		`{"email":"a@b.com","password":"passw0rd1","fullname":"Ada"}`)
	// Domain errors pass through to the central error handler untouched.
	if err := handler.Register(c); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*domain.LoginResult, error) {
			return &domain.LoginResult{
				User:   &domain.User{ID: "user_1", Email: email, VerifiedEmail: true},
				Tokens: &domain.TokenPair{Access: "acc", Refresh: "ref"},
			}, nil
		},
	}
	handler := NewAuthHandler(stub, true)

	c, rec := newHandlerContext(t, http.MethodPost, "/auth/login",
		`{"email":"ada@example.com","password":"passw0rd1"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	tokens, ok := resp["tokens"].(map[string]any)
	if !ok || tokens["access"] != "acc" || tokens["refresh"] != "ref" {
		t.Fatalf("unexpected tokens: %+v", resp)
	}
	user, ok := resp["user"].(map[string]any)
	if !ok || user["email"] != "ada@example.com" {
		t.Fatalf("unexpected user: %+v", resp)
	}
	if _, leaked := user["PasswordHash"]; leaked {
		t.Fatalf("password hash must never serialize")
	}
}

func TestAuthHandler_Login_PendingIs423(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(_ context.Context, email, password string) (*domain.LoginResult, error) {
			return &domain.LoginResult{
				User:    &domain.User{ID: "user_1", Email: email},
				Pending: true,
				OTP:     "654321",
			}, nil
		},
	}
	handler := NewAuthHandler(stub, true)

	c, rec := newHandlerContext(t, http.MethodPost, "/auth/login",
		`{"email":"eve@example.com","password":"passw0rd1"}`)
	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusLocked {
		t.Fatalf("expected 423, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["email"] != "eve@example.com" || resp["otp"] != "654321" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
	if _, hasTokens := resp["tokens"]; hasTokens {
		t.Fatalf("pending login must not carry tokens: %+v", resp)
	}
}

func TestAuthHandler_Login_InvalidCredentials(t *testing.T) {
	stub := &stubAuthService{
		loginFn: func(context.Context, string, string) (*domain.LoginResult, error) {
			return nil, domain.ErrInvalidCredentials
		},
	}
	handler := NewAuthHandler(stub, true)

	c, _ := newHandlerContext(t, http.MethodPost, "/auth/login",
		`{"email":"ada@example.com","password":"wrong"}`)
	if err := handler.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthHandler_ChangePassword_RequiresClaims(t *testing.T) {
	handler := NewAuthHandler(&stubAuthService{}, true)

	c, _ := newHandlerContext(t, http.MethodPatch, "/auth/change-password",
		`{"old_password":"passw0rd1","new_password":"n3wpassword"}`)
	err := handler.ChangePassword(c)
	var httpErr *echo.HTTPError
	if !errors.As(err, &httpErr) || httpErr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestAuthHandler_ChangePassword_Success(t *testing.T) {
	stub := &stubAuthService{
		changeFn: func(_ context.Context, userID, oldPassword, newPassword string) error {
			if userID != "user_1" || oldPassword != "passw0rd1" || newPassword != "n3wpassword" {
				t.Fatalf("unexpected args: %s %s %s", userID, oldPassword, newPassword)
			}
			return nil
		},
	}
	handler := NewAuthHandler(stub, true)

	c, rec := newHandlerContext(t, http.MethodPatch, "/auth/change-password",
		`{"old_password":"passw0rd1","new_password":"n3wpassword"}`)
	c.Set("credentials", &middleware.Credentials{BearerUser: &domain.User{ID: "user_1"}})

	if err := handler.ChangePassword(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthHandler_ConfirmEmail(t *testing.T) {
	stub := &stubAuthService{
		confirmFn: func(_ context.Context, email, code string) (*domain.User, error) {
			if code != "123456" {
				t.Fatalf("unexpected code %q", code)
			}
			return &domain.User{ID: "user_1", Email: email, VerifiedEmail: true}, nil
		},
	}
	handler := NewAuthHandler(stub, true)

	c, rec := newHandlerContext(t, http.MethodPost, "/auth/verify-email/confirm",
		`{"email":"hal@example.com","otp":"123456"}`)
	if err := handler.ConfirmEmail(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["verified_email"] != true {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestAuthHandler_Me(t *testing.T) {
	stub := &stubAuthService{
		currentUserFn: func(_ context.Context, userID string) (*domain.User, error) {
			return &domain.User{ID: userID, Email: "ada@example.com"}, nil
		},
	}
	handler := NewAuthHandler(stub, true)

	c, rec := newHandlerContext(t, http.MethodGet, "/auth/me", "")
	c.Set("credentials", &middleware.Credentials{BearerUser: &domain.User{ID: "user_1"}})

	if err := handler.Me(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["id"] != "user_1" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}
