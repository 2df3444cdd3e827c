package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/registryhq/identity-service/internal/api/metrics"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// APIKeyAuth validates the two-header project API-key pair and records the
// owning actor in the request's credential set. Like BearerAuth this is
// best-effort extraction: a lookup miss and a secret mismatch leave the
// slot empty identically, so nothing downstream can tell which failed.
func APIKeyAuth(keys ports.APIKeyService, pubHeader, secHeader string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			pubKey := c.Request().Header.Get(pubHeader)
			secKey := c.Request().Header.Get(secHeader)
			if pubKey == "" && secKey == "" {
				return next(c)
			}

			actor, err := keys.Authorize(c.Request().Context(), pubKey, secKey)
			if err != nil {
				metrics.APIKeyChecksTotal.WithLabelValues("denied").Inc()
				return next(c)
			}
			metrics.APIKeyChecksTotal.WithLabelValues("ok").Inc()

			ensureCredentials(c).APIKeyActor = actor
			return next(c)
		}
	}
}
