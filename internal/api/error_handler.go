package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/registryhq/identity-service/internal/api/handler"
	"github.com/registryhq/identity-service/internal/core/domain"
)

// envelope is the canonical error shape shared by every endpoint:
// {status, error, code, message, path}.
type envelope struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path"`
}

// errorTable maps domain sentinel errors onto the envelope. Machine codes
// follow the historical tables (user-001, req-103, ...).
var errorTable = []struct {
	err     error
	status  int
	kind    string
	code    string
	message string
}{
	{domain.ErrInvalidCredentials, http.StatusBadRequest, "ValidationError", "auth-001", "email and password do not match"},
	{domain.ErrWeakPassword, http.StatusBadRequest, "ValidationError", "pass-001", "password does not meet the strength policy"},
	{domain.ErrOTPMismatch, http.StatusBadRequest, "ValidationError", "otp-001", "one time passcode is not valid"},
	{domain.ErrInvalidPhone, http.StatusBadRequest, "ValidationError", "phone-002", "phone number is not in the right format"},
	{domain.ErrSelfRelationship, http.StatusBadRequest, "ValidationError", "rel-001", "a relationship needs two distinct users"},
	{domain.ErrAlreadyVerified, http.StatusBadRequest, "AlreadyVerified", "user-002", "user has already been verified"},
	{domain.ErrUserNotFound, http.StatusNotFound, "NotFound", "user-001", "user does not exist"},
	{domain.ErrRelationshipNotFound, http.StatusNotFound, "NotFound", "rel-002", "relationship does not exist"},
	{domain.ErrUserExists, http.StatusConflict, "Conflict", "req-103", "email has already been used by another user"},
	{domain.ErrEmailTaken, http.StatusConflict, "Conflict", "req-103", "email has already been used by another user"},
	{domain.ErrPhoneExists, http.StatusConflict, "Conflict", "phone-001", "phone number has already been used"},
	{domain.ErrTokenExpired, http.StatusUnauthorized, "TokenInvalid", "user-003", "token passed is not valid"},
	{domain.ErrTokenInvalid, http.StatusUnauthorized, "TokenInvalid", "user-003", "token passed is not valid"},
	{domain.ErrAPIKeyInvalid, http.StatusUnauthorized, "Unauthorized", "key-001", "api credentials are not valid"},
	{domain.ErrForbidden, http.StatusForbidden, "Forbidden", "perm-001", "access forbidden"},
	{domain.ErrAccountInactive, http.StatusForbidden, "AccountInactive", "auth-002", "account has been deactivated"},
	{domain.ErrPendingVerification, http.StatusLocked, "PendingVerification", "auth-003", "email is not yet verified"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their envelope via errorTable.
//   - Honours handler-provided *Error values as-is.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		env := resolveError(err, log, c)
		env.Path = c.Request().URL.Path
		_ = c.JSON(env.Status, env)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) envelope {
	// Handler-provided envelope overrides (endpoint-specific mappings).
	var apiErr *handler.Error
	if errors.As(err, &apiErr) {
		return envelope{Status: apiErr.Status, Error: apiErr.Kind, Code: apiErr.Code, Message: apiErr.Message}
	}

	for _, entry := range errorTable {
		if errors.Is(err, entry.err) {
			return envelope{Status: entry.status, Error: entry.kind, Code: entry.code, Message: entry.message}
		}
	}

	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return envelope{
			Status:  he.Code,
			Error:   kindForStatus(he.Code),
			Message: fmt.Sprintf("%v", he.Message),
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return envelope{Status: http.StatusInternalServerError, Error: "InternalError", Message: "internal server error"}
}

func kindForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "ValidationError"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusNotFound:
		return "NotFound"
	case http.StatusConflict:
		return "Conflict"
	default:
		return "Error"
	}
}
