// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/resumeforge/internal/admin"
	"github.com/carterperez-dev/resumeforge/internal/auth"
	"github.com/carterperez-dev/resumeforge/internal/config"
	"github.com/carterperez-dev/resumeforge/internal/core"
	"github.com/carterperez-dev/resumeforge/internal/gate"
	"github.com/carterperez-dev/resumeforge/internal/health"
	"github.com/carterperez-dev/resumeforge/internal/letters"
	"github.com/carterperez-dev/resumeforge/internal/middleware"
	"github.com/carterperez-dev/resumeforge/internal/policy"
	"github.com/carterperez-dev/resumeforge/internal/provider"
	"github.com/carterperez-dev/resumeforge/internal/quota"
	"github.com/carterperez-dev/resumeforge/internal/resume"
	"github.com/carterperez-dev/resumeforge/internal/server"
	"github.com/carterperez-dev/resumeforge/internal/usage"
	"github.com/carterperez-dev/resumeforge/internal/versions"
)

const (
	drainDelay = 5 * time.Second
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	verifier, err := auth.NewVerifier(cfg.Auth)
	if err != nil {
		return err
	}
	logger.Info("token verifier initialized",
		"algorithm", "ES256",
		"issuer", cfg.Auth.Issuer,
	)

	tierPolicy := policy.New(cfg.Tiers)
	ledger := quota.NewRedisLedger(redis.Client)
	featureGate := gate.New(tierPolicy, ledger, cfg.App.UpgradeURL)

	aiRouter := provider.NewRouter(cfg.Providers.Default, cfg.Providers.Timeout)
	registerGenerators(aiRouter, cfg, logger)

	resumeRepo := resume.NewRepository(db.DB)
	resumeSvc := resume.NewService(resumeRepo, featureGate)
	resumeHandler := resume.NewHandler(resumeSvc, featureGate)

	versionsRepo := versions.NewRepository(db.DB)
	versionsSvc := versions.NewService(versionsRepo, featureGate, aiRouter)
	versionsHandler := versions.NewHandler(versionsSvc, featureGate)

	lettersSvc := letters.NewService(featureGate, aiRouter)
	lettersHandler := letters.NewHandler(lettersSvc)

	usageHandler := usage.NewHandler(featureGate)

	healthHandler := health.NewHandler(db, redis)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
		Policy:     tierPolicy,
		Gate:       featureGate,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(logger))
	router.Use(
		middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
			Limit: middleware.PerMinute(
				cfg.RateLimit.Requests,
				cfg.RateLimit.Burst,
			),
			FailOpen: true,
		}).Handler,
	)
	router.Use(middleware.SecurityHeaders(cfg.App.Environment == "production"))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	authenticate := middleware.Authenticator(verifier)
	tieredLimit := middleware.TieredRateLimiter(
		redis.Client,
		middleware.DefaultTiers,
	)

	// Tier-aware limits need the tier claim, so the limiter runs after
	// authentication on every protected route.
	authenticator := func(next http.Handler) http.Handler {
		return authenticate(tieredLimit(next))
	}
	adminOnly := middleware.RequireAdmin

	router.Route("/v1", func(r chi.Router) {
		resumeHandler.RegisterRoutes(r, authenticator)
		versionsHandler.RegisterRoutes(r, authenticator)
		lettersHandler.RegisterRoutes(r, authenticator)
		usageHandler.RegisterRoutes(r, authenticator)
		adminHandler.RegisterRoutes(r, authenticator, adminOnly)
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}

// registerGenerators wires every configured provider id into the router.
// The static generator stands in for real upstreams outside production;
// swapping in a live client is a config-plus-registration change here.
func registerGenerators(
	r *provider.Router,
	cfg *config.Config,
	logger *slog.Logger,
) {
	static := provider.NewStaticGenerator()

	r.Register(cfg.Providers.Default, static)
	for _, p := range cfg.Providers.List {
		r.Register(p.ID, static)
	}

	logger.Info("content generators registered",
		"default", cfg.Providers.Default,
		"count", 1+len(cfg.Providers.List),
	)
}

func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
