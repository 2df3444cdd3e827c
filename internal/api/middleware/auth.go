package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/registryhq/identity-service/internal/api/metrics"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// BearerAuth resolves the Authorization bearer token to its user and
// records it in the request's credential set. Extraction is best-effort:
// a missing or invalid token leaves the slot empty and the downstream
// policy decides whether that denies the request.
func BearerAuth(auth ports.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := bearerToken(c)
			if token == "" {
				return next(c)
			}

			user, err := auth.ValidateAccess(c.Request().Context(), token)
			if err != nil {
				metrics.TokenChecksTotal.WithLabelValues("access", "invalid").Inc()
				return next(c)
			}
			metrics.TokenChecksTotal.WithLabelValues("access", "ok").Inc()

			ensureCredentials(c).BearerUser = user
			return next(c)
		}
	}
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
