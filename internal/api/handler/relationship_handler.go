package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/registryhq/identity-service/internal/core/domain"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// RelationshipHandler links two user profiles.
type RelationshipHandler struct {
	relationshipService ports.RelationshipService
}

func NewRelationshipHandler(relationshipService ports.RelationshipService) *RelationshipHandler {
	return &RelationshipHandler{relationshipService: relationshipService}
}

type createRelationshipRequest struct {
	Email string `json:"email" validate:"required,email"`
	// Phones is a single number or comma-separated numbers for the invitee.
	Phones string `json:"phones" validate:"required"`
	Status string `json:"status" validate:"omitempty,oneof=dating married"`
}

// Create links the authenticated user with the user behind the email,
// creating a passwordless account for them when none exists. The invitee
// is notified by email and SMS so they can complete registration and
// verify the relationship.
//
// @Summary      Create a relationship
// @Tags         relationships
// @Accept       json
// @Produce      json
// @Param        body  body      createRelationshipRequest  true  "Invitee details"
// @Success      201   {object}  domain.Relationship
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /relationships [post]
func (h *RelationshipHandler) Create(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req createRelationshipRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		if req.Email == "" {
			return NewError(http.StatusBadRequest, "RequestError", "req-003", "email was not passed with the request")
		}
		if req.Phones == "" {
			return NewError(http.StatusBadRequest, "RequestError", "req-004", "phone number not provided with request")
		}
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	rel, err := h.relationshipService.Create(
		c.Request().Context(),
		user.ID,
		req.Email,
		strings.Split(req.Phones, ","),
		domain.RelationshipStatus(req.Status),
	)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, rel)
}

// Verify confirms a relationship. Legal only once: repeating it reports
// AlreadyVerified.
//
// @Summary      Verify a relationship
// @Tags         relationships
// @Produce      json
// @Param        id   path      string  true  "Relationship id"
// @Success      200  {object}  domain.Relationship
// @Failure      400  {object}  map[string]any
// @Failure      404  {object}  map[string]any
// @Router       /relationships/{id}/verify [patch]
func (h *RelationshipHandler) Verify(c echo.Context) error {
	rel, err := h.relationshipService.Verify(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, rel)
}
