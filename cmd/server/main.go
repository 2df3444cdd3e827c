package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/registryhq/identity-service/internal/api"
	"github.com/registryhq/identity-service/internal/core/ports"
	"github.com/registryhq/identity-service/internal/core/service"
	"github.com/registryhq/identity-service/internal/infrastructure/config"
	mongodb "github.com/registryhq/identity-service/internal/infrastructure/db/mongo"
	redisdb "github.com/registryhq/identity-service/internal/infrastructure/db/redis"
	"github.com/registryhq/identity-service/internal/infrastructure/notify"
	"github.com/registryhq/identity-service/internal/infrastructure/queue"
	"github.com/registryhq/identity-service/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET must be set")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// --- Infrastructure ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() { _ = mongoClient.Disconnect(context.Background()) }()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer func() { _ = rdb.Close() }()

	userRepo := mongodb.NewUserRepository(db)
	phoneRepo := mongodb.NewPhoneRepository(db)
	relationshipRepo := mongodb.NewRelationshipRepository(db)
	apiKeyRepo := mongodb.NewAPIKeyRepository(db)

	for _, idx := range []interface {
		EnsureIndexes(context.Context) error
	}{userRepo, phoneRepo, apiKeyRepo} {
		if err := idx.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("ensure indexes failed")
		}
	}

	otpStore := redisdb.NewOTPStore(rdb)

	var notifier ports.Notifier
	if cfg.SMTP.Addr != "" {
		notifier = notify.NewSMTPNotifier(cfg.SMTP.Addr, cfg.SMTP.From, cfg.SMTP.Username, cfg.SMTP.Password)
	} else {
		log.Warn().Msg("SMTP_ADDR not set, notifications go to the log")
		notifier = notify.NewLogNotifier(logger.Component("notify"))
	}

	dispatcher := queue.NewDispatcher(0, notifier, logger.Component("dispatcher"))
	dispatcher.Start(ctx)

	// --- Services ---
	hasher := service.NewBcryptHasher(cfg.BcryptCost)
	tokenService := service.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.EmailTokenTTL)
	otpService := service.NewOTPService(otpStore, notifier, hasher, cfg.OTPTTL, logger.Component("otp"))
	authService := service.NewAuthService(userRepo, hasher, tokenService, otpService, logger.Component("auth"))
	apiKeyService := service.NewAPIKeyService(apiKeyRepo, userRepo, hasher)
	relationshipService := service.NewRelationshipService(relationshipRepo, phoneRepo, userRepo, authService, dispatcher, logger.Component("relationship"))

	e := api.NewRouter(api.RouterConfig{
		AuthService:         authService,
		OTPService:          otpService,
		APIKeyService:       apiKeyService,
		RelationshipService: relationshipService,
		DB:                  db,
		RDB:                 rdb,
		APIKeyHeader:        cfg.APIKeyHeader,
		APISecKeyHeader:     cfg.APISecKeyHeader,
		EchoOTP:             !cfg.IsProduction(),
		Log:                 log,
	})

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("starting server")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
