package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/registryhq/identity-service/internal/api/handler"
	"github.com/registryhq/identity-service/internal/api/middleware"
	"github.com/registryhq/identity-service/internal/core/ports"
)

// RouterConfig carries the constructed services and the settings the HTTP
// layer needs. Everything is injected; the router owns no state.
type RouterConfig struct {
	AuthService         ports.AuthService
	OTPService          ports.OTPService
	APIKeyService       ports.APIKeyService
	RelationshipService ports.RelationshipService

	DB  *mongo.Database
	RDB *redis.Client

	APIKeyHeader    string
	APISecKeyHeader string
	EchoOTP         bool

	Log zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// Credential extraction runs on every request; policies per route
	// decide what each endpoint actually requires.
	e.Use(middleware.APIKeyAuth(cfg.APIKeyService, cfg.APIKeyHeader, cfg.APISecKeyHeader))
	e.Use(middleware.BearerAuth(cfg.AuthService))

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.EchoOTP)
	tokenHandler := handler.NewTokenHandler(cfg.AuthService, cfg.OTPService)
	apiKeyHandler := handler.NewAPIKeyHandler(cfg.APIKeyService)
	relationshipHandler := handler.NewRelationshipHandler(cfg.RelationshipService)

	// --- Policies ---
	staffOnly := middleware.Require(middleware.Any(middleware.StaffAPIKey(), middleware.AdminUser()))
	anyProject := middleware.Require(middleware.Any(middleware.APIKey(), middleware.AdminUser()))
	projectKey := middleware.Require(middleware.APIKey())
	userOnly := middleware.Require(middleware.Authenticated())
	projectUser := middleware.Require(middleware.All(middleware.APIKey(), middleware.Authenticated()))

	// --- Auth routes ---
	auth := e.Group("/auth")
	auth.POST("/register", authHandler.Register, staffOnly)
	auth.POST("/login", authHandler.Login, anyProject)
	auth.POST("/token/refresh", tokenHandler.Refresh, projectKey)
	auth.POST("/token/validate", tokenHandler.Validate, staffOnly)
	auth.PATCH("/change-password", authHandler.ChangePassword, userOnly)
	auth.POST("/forget-password", authHandler.ForgetPassword, projectKey)
	auth.PUT("/forget-password", authHandler.ResetPassword, projectKey)
	auth.POST("/verify-email", authHandler.VerifyEmail, projectKey)
	auth.POST("/verify-email/confirm", authHandler.ConfirmEmail, projectKey)
	auth.GET("/me", authHandler.Me, userOnly)

	// --- Staff utilities ---
	e.GET("/util/generate-otp", tokenHandler.GenerateOTP, staffOnly)
	e.POST("/user/email-token/generate", tokenHandler.EmailTokenGenerate, staffOnly)
	e.POST("/user/email-token/validate", tokenHandler.EmailTokenValidate, staffOnly)
	e.POST("/apikeys", apiKeyHandler.Create, staffOnly)

	// --- Relationships ---
	e.POST("/relationships", relationshipHandler.Create, projectUser)
	e.PATCH("/relationships/:id/verify", relationshipHandler.Verify, staffOnly)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(cfg.DB, cfg.RDB)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthDepsHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())

	return e
}
