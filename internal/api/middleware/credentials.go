package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/registryhq/identity-service/internal/core/domain"
)

const credentialsKey = "credentials"

// Credentials is the typed capability set a request has presented. The two
// slots are independent: a request may carry a project API key, a user
// bearer token, both, or neither. Policies are evaluated against this set.
type Credentials struct {
	// APIKeyActor is the owner of a validated project API key.
	APIKeyActor *domain.User
	// BearerUser is the authenticated end user behind a valid access token.
	BearerUser *domain.User
}

// Any reports whether at least one credential was validated.
func (c *Credentials) Any() bool {
	return c != nil && (c.APIKeyActor != nil || c.BearerUser != nil)
}

// FromContext returns the request's credential set, never nil.
func FromContext(c echo.Context) *Credentials {
	if creds, ok := c.Get(credentialsKey).(*Credentials); ok {
		return creds
	}
	return &Credentials{}
}

func ensureCredentials(c echo.Context) *Credentials {
	if creds, ok := c.Get(credentialsKey).(*Credentials); ok {
		return creds
	}
	creds := &Credentials{}
	c.Set(credentialsKey, creds)
	return creds
}
