// Command api serves the EventFlow HTTP API.
//
// @title EventFlow API
// @version 1.0
// @description Event management: events, invites with QR check-in, and media galleries.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the identity provider's access token.
package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eventflow/config"
	"eventflow/internal/adapters/auth"
	"eventflow/internal/adapters/blob"
	"eventflow/internal/adapters/email"
	"eventflow/internal/adapters/ratelimit"
	delivery "eventflow/internal/delivery/http"
	"eventflow/internal/delivery/http/controllers"
	"eventflow/internal/domain"
	"eventflow/internal/repository/postgres"
	"eventflow/internal/services"

	_ "eventflow/docs"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logger := config.NewLogger(cfg.Environment, cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DBUrl)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.AutoMigrate {
		if err := postgres.Migrate(db); err != nil {
			return err
		}
		logger.Info("database migration completed")
	}

	// Repositories
	eventRepo := postgres.NewEventRepository(db)
	inviteRepo := postgres.NewInviteRepository(db)
	mediaRepo := postgres.NewMediaRepository(db)

	// Adapters
	blobs := blob.NewStore(blob.Config{
		Bucket:          cfg.Storage.Bucket,
		Region:          cfg.Storage.Region,
		Endpoint:        cfg.Storage.Endpoint,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		UsePathStyle:    cfg.Storage.UsePathStyle,
	})
	if cfg.Storage.Bucket == "" {
		logger.Warn("media storage not configured, gallery endpoints will return 503")
	}

	mailer, err := email.NewMailer(email.MailerConfig{
		Provider:    cfg.Email.Provider,
		FromAddress: cfg.Email.FromAddress,
		FromName:    cfg.Email.FromName,
		SES: email.SESConfig{
			Region:          cfg.Email.SESRegion,
			AccessKeyID:     cfg.Email.SESAccessKeyID,
			SecretAccessKey: cfg.Email.SESSecretAccessKey,
		},
		SMTP: email.SMTPConfig{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUsername,
			Password: cfg.Email.SMTPPassword,
			StartTLS: cfg.Email.SMTPStartTLS,
		},
	}, logger)
	if err != nil {
		return err
	}

	limiter, closeLimiter, err := newLimiter(ctx, cfg.RateLimit, logger)
	if err != nil {
		return err
	}
	defer closeLimiter()

	verifier := auth.NewJWTVerifier(cfg.Auth.JWTSecret, cfg.Auth.Issuer)

	// Services
	emailService := services.NewEmailService(mailer, email.NewTemplateRenderer(), logger)
	eventService := services.NewEventService(eventRepo, inviteRepo, mediaRepo, blobs, logger, cfg.RequestTimeout)
	inviteService := services.NewInviteService(inviteRepo, eventRepo, emailService, cfg.AppBaseURL, logger, cfg.RequestTimeout)
	mediaService := services.NewMediaService(mediaRepo, eventRepo, inviteRepo, blobs, cfg.Storage.SignedURLTTL, logger, cfg.RequestTimeout)

	router := delivery.NewRouter(delivery.RouterDeps{
		Logger:           logger,
		Verifier:         verifier,
		Limiter:          limiter,
		TrustForwarded:   cfg.RateLimit.TrustForwardedFor,
		AllowedOrigins:   cfg.AllowedOrigins,
		EventController:  controllers.NewEventController(logger, eventService),
		InviteController: controllers.NewInviteController(logger, inviteService),
		MediaController:  controllers.NewMediaController(logger, mediaService, cfg.Storage.MaxUploadBytes),
		Health:           db.PingContext,
	})

	srv := &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Environment)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}
	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("server exited gracefully")
	return nil
}

// newLimiter builds the limiter for the public invite-code routes. The returned
// func releases its resources.
func newLimiter(ctx context.Context, cfg config.RateLimitConfig, logger *slog.Logger) (domain.RateLimiter, func(), error) {
	switch cfg.Backend {
	case "redis":
		client, err := ratelimit.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using Redis rate limiter")
		return ratelimit.NewRedisLimiter(client, cfg.Requests, cfg.Window), func() { _ = client.Close() }, nil
	case "none":
		logger.Warn("rate limiting disabled")
		return ratelimit.NewUnlimited(), func() {}, nil
	default:
		logger.Info("using in-memory rate limiter")
		return ratelimit.NewMemoryLimiter(cfg.Requests, cfg.Window), func() {}, nil
	}
}

