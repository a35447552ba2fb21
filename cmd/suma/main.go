package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"suma/internal/amqp"
	"suma/internal/auth"
	"suma/internal/backend"
	"suma/internal/config"
	apphttp "suma/internal/http"
	applog "suma/internal/log"
	"suma/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	cfg := config.Load()

	logger := applog.New(applog.Config{
		Level:     applog.LevelFromEnv(cfg.LogLevel),
		Component: "suma",
	})
	slog.SetDefault(logger.Logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	// Data backend
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", applog.FieldError, err)
		os.Exit(1)
	}
	factory := backend.NewFactory(logger.Logger)
	result, err := factory.CreateBackend(context.Background(), backendCfg)
	if err != nil {
		logger.Error("Failed to initialize backend", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}
	defer func() {
		if err := result.Cleanup(); err != nil {
			logger.Error("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	// Identity verifier
	verifier, err := newVerifier(cfg)
	if err != nil {
		logger.Error("Failed to initialize verifier", applog.FieldError, err, "mode", cfg.AuthMode)
		os.Exit(1)
	}

	// AMQP event stream (optional)
	var events *amqp.Client
	if cfg.AMQPURL != "" {
		events, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer events.Close()
		logger.Info("AMQP event stream enabled", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP event stream disabled - no AMQP_URL provided")
	}

	users := services.NewUserService(result.Store)
	movements := services.NewMovementService(result.Store, events)
	refs := services.NewReferenceService(result.Store)

	srv := apphttp.NewServer(apphttp.Config{
		Addr:           ":" + cfg.Port,
		CORSOrigins:    cfg.CORSOrigins,
		AppName:        config.AppName,
		AppVersion:     config.AppVersion,
		AuthConfigured: cfg.AuthConfigured(),
	}, verifier, users, movements, refs, logger)

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	// Graceful shutdown handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting suma server",
		"port", cfg.Port,
		applog.FieldBackend, cfg.DataBackend,
		"auth_mode", cfg.AuthMode)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// newVerifier selects the identity provider from configuration. An empty mode
// yields the fail-closed verifier so protected routes answer 503.
func newVerifier(cfg *config.Config) (auth.Verifier, error) {
	revocations := auth.NewRevocations()
	switch cfg.AuthMode {
	case "firebase":
		return auth.NewFirebaseVerifier(cfg.FirebaseProjectID, revocations), nil
	case "google":
		return auth.NewGoogleVerifier(context.Background(), cfg.GoogleAudience, revocations)
	case "hmac":
		return auth.NewHMACVerifier(cfg.AuthHMACSecret, revocations), nil
	default:
		return auth.Unconfigured{}, nil
	}
}
