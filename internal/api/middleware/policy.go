package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/registryhq/identity-service/internal/core/domain"
)

// Policy is an authorization rule evaluated against the request's typed
// credential set. Policies compose with Any and All; evaluation is pure
// boolean with no side effects.
type Policy interface {
	Allows(creds *Credentials) bool
}

type policyFunc func(*Credentials) bool

func (f policyFunc) Allows(creds *Credentials) bool { return f(creds) }

// APIKey grants requests carrying any valid project API key.
func APIKey() Policy {
	return policyFunc(func(creds *Credentials) bool {
		return creds.APIKeyActor != nil
	})
}

// StaffAPIKey grants requests whose API key belongs to a staff or admin
// actor.
func StaffAPIKey() Policy {
	return policyFunc(func(creds *Credentials) bool {
		return creds.APIKeyActor != nil && creds.APIKeyActor.IsElevated()
	})
}

// Authenticated grants requests with a valid user bearer token.
func Authenticated() Policy {
	return policyFunc(func(creds *Credentials) bool {
		return creds.BearerUser != nil
	})
}

// AdminUser grants requests whose bearer user is staff or admin.
func AdminUser() Policy {
	return policyFunc(func(creds *Credentials) bool {
		return creds.BearerUser != nil && creds.BearerUser.IsElevated()
	})
}

// Any grants when at least one policy grants.
func Any(policies ...Policy) Policy {
	return policyFunc(func(creds *Credentials) bool {
		for _, p := range policies {
			if p.Allows(creds) {
				return true
			}
		}
		return false
	})
}

// All grants only when every policy grants.
func All(policies ...Policy) Policy {
	return policyFunc(func(creds *Credentials) bool {
		for _, p := range policies {
			if !p.Allows(creds) {
				return false
			}
		}
		return true
	})
}

// Require enforces a policy: requests with no validated credential at all
// get 401, requests whose credentials simply do not satisfy the policy
// get 403.
func Require(policy Policy) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			creds := FromContext(c)
			if policy.Allows(creds) {
				return next(c)
			}
			if !creds.Any() {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid credentials")
			}
			return domain.ErrForbidden
		}
	}
}
