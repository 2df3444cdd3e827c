package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/registryhq/identity-service/internal/api/middleware"
	"github.com/registryhq/identity-service/internal/core/domain"
)

// ctxUser extracts the bearer user injected by the auth middleware and
// fast-fails before any service call: a handler behind an Authenticated
// policy must never see an empty slot, so an empty one means the route is
// mis-wired and the request cannot be trusted.
func ctxUser(c echo.Context) (*domain.User, error) {
	user := middleware.FromContext(c).BearerUser
	if user == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return user, nil
}
