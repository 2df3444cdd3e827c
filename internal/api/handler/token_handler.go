package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/registryhq/identity-service/internal/api/metrics"
	"github.com/registryhq/identity-service/internal/core/domain"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// TokenHandler exposes token refresh/validation and the staff-only
// email-token and OTP utilities.
type TokenHandler struct {
	authService ports.AuthService
	otpService  ports.OTPService
}

func NewTokenHandler(authService ports.AuthService, otpService ports.OTPService) *TokenHandler {
	return &TokenHandler{authService: authService, otpService: otpService}
}

type refreshRequest struct {
	Refresh string `json:"refresh" validate:"required"`
}

type refreshResponse struct {
	Access string `json:"access"`
}

type validateTokenRequest struct {
	Token string `json:"token" validate:"required"`
}

type emailTokenGenerateRequest struct {
	UserID string `json:"id" validate:"required"`
}

type emailTokenResponse struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

type emailTokenValidateRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Token  string `json:"token" validate:"required"`
}

type otpResponse struct {
	OTP string `json:"otp"`
}

// Refresh exchanges a refresh token for a new access token.
//
// @Summary      Refresh an access token
// @Tags         token
// @Accept       json
// @Produce      json
// @Param        body  body      refreshRequest  true  "Refresh token"
// @Success      200   {object}  refreshResponse
// @Failure      401   {object}  map[string]any
// @Router       /auth/token/refresh [post]
func (h *TokenHandler) Refresh(c echo.Context) error {
	var req refreshRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	access, err := h.authService.Refresh(c.Request().Context(), req.Refresh)
	if err != nil {
		metrics.TokenChecksTotal.WithLabelValues("refresh", "invalid").Inc()
		return err
	}
	metrics.TokenChecksTotal.WithLabelValues("refresh", "ok").Inc()

	return c.JSON(http.StatusOK, refreshResponse{Access: access})
}

// Validate checks whether an access token is still valid and returns the
// user it belongs to.
//
// @Summary      Validate an access token
// @Tags         token
// @Accept       json
// @Produce      json
// @Param        body  body      validateTokenRequest  true  "Access token"
// @Success      200   {object}  domain.User
// @Failure      401   {object}  map[string]any
// @Router       /auth/token/validate [post]
func (h *TokenHandler) Validate(c echo.Context) error {
	var req validateTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.ValidateAccess(c.Request().Context(), req.Token)
	if err != nil {
		metrics.TokenChecksTotal.WithLabelValues("access", "invalid").Inc()
		return err
	}
	metrics.TokenChecksTotal.WithLabelValues("access", "ok").Inc()

	return c.JSON(http.StatusOK, user)
}

// EmailTokenGenerate mints the self-invalidating email-verification token
// for a user id.
//
// @Summary      Generate an email verification token
// @Tags         token
// @Accept       json
// @Produce      json
// @Param        body  body      emailTokenGenerateRequest  true  "User id"
// @Success      200   {object}  emailTokenResponse
// @Failure      404   {object}  map[string]any
// @Router       /user/email-token/generate [post]
func (h *TokenHandler) EmailTokenGenerate(c echo.Context) error {
	var req emailTokenGenerateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return NewError(http.StatusBadRequest, "RequestError", "req-001", "id value was not passed with the request")
	}

	token, err := h.authService.GenerateEmailToken(c.Request().Context(), req.UserID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, emailTokenResponse{UserID: req.UserID, Token: token})
}

// EmailTokenValidate consumes an email-verification token and marks the
// user verified. Repeating the call reports AlreadyVerified.
//
// @Summary      Validate an email verification token
// @Tags         token
// @Accept       json
// @Produce      json
// @Param        body  body      emailTokenValidateRequest  true  "User id and token"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /user/email-token/validate [post]
func (h *TokenHandler) EmailTokenValidate(c echo.Context) error {
	var req emailTokenValidateRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.ValidateEmailToken(c.Request().Context(), req.UserID, req.Token)
	if err != nil {
		metrics.TokenChecksTotal.WithLabelValues("email_verify", "invalid").Inc()
		if errors.Is(err, domain.ErrTokenInvalid) || errors.Is(err, domain.ErrTokenExpired) {
			// This endpoint reports bad tokens as a validation failure,
			// not a missing credential.
			return NewError(http.StatusBadRequest, "TokenValidationError", "user-003", "token passed is not valid")
		}
		return err
	}
	metrics.TokenChecksTotal.WithLabelValues("email_verify", "ok").Inc()

	return c.JSON(http.StatusOK, user)
}

// GenerateOTP returns a fresh random passcode. Staff utility; the code is
// not stored and confirms nothing.
//
// @Summary      Generate a random one-time passcode
// @Tags         util
// @Produce      json
// @Success      200  {object}  otpResponse
// @Failure      401  {object}  map[string]any
// @Router       /util/generate-otp [get]
func (h *TokenHandler) GenerateOTP(c echo.Context) error {
	otp, err := h.otpService.Generate()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, otpResponse{OTP: otp})
}
