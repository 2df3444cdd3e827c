package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/registryhq/identity-service/internal/api/middleware"
	"github.com/registryhq/identity-service/internal/core/domain"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// APIKeyHandler mints project API keys.
type APIKeyHandler struct {
	keyService ports.APIKeyService
}

func NewAPIKeyHandler(keyService ports.APIKeyService) *APIKeyHandler {
	return &APIKeyHandler{keyService: keyService}
}

type createAPIKeyRequest struct {
	// Email selects the owning user. Optional when the request carries a
	// bearer user, who then owns the key.
	Email string `json:"email" validate:"omitempty,email"`
}

type createAPIKeyResponse struct {
	// SecretAPIKey is the plaintext secret, returned here and never again.
	SecretAPIKey string                `json:"secret_api_key"`
	APIDetails   *domain.ProjectAPIKey `json:"api_details"`
}

// Create mints a key pair. The plaintext secret appears only in this
// response; the store keeps a hash.
//
// @Summary      Create a project API key
// @Tags         apikeys
// @Accept       json
// @Produce      json
// @Param        body  body      createAPIKeyRequest  true  "Owner selection"
// @Success      200   {object}  createAPIKeyResponse
// @Failure      400   {object}  map[string]any
// @Router       /apikeys [post]
func (h *APIKeyHandler) Create(c echo.Context) error {
	var req createAPIKeyRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ownerEmail := req.Email
	if ownerEmail == "" {
		user := middleware.FromContext(c).BearerUser
		if user == nil {
			return NewError(http.StatusBadRequest, "RequestError", "req-003", "provide a user email to create the api key for")
		}
		ownerEmail = user.Email
	}

	key, secret, err := h.keyService.Create(c.Request().Context(), ownerEmail)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, createAPIKeyResponse{SecretAPIKey: secret, APIDetails: key})
}
