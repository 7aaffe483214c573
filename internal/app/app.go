// Package app holds the startup sequence shared by the three service
// binaries.
package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"task_deadlines/internal/auth"
	"task_deadlines/internal/config"
	"task_deadlines/internal/db"
	httpServer "task_deadlines/internal/http"
	"task_deadlines/internal/http/middleware"
	"task_deadlines/internal/logger"
	"task_deadlines/internal/secretcheck"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

var Version = "dev"

// Service describes one binary.
type Service struct {
	Name          string
	Port          string
	MigrationsDir string
	TokenTTL      time.Duration
	Shared        config.Shared
}

// Deps is handed to the route registration callback.
type Deps struct {
	Pool    *pgxpool.Pool
	Tokens  *auth.Manager
	Options httpServer.Options
}

// Run connects to Postgres, migrates, serves until SIGINT/SIGTERM and checks
// that every configured peer shares the token secret. Any startup failure
// exits the process.
func Run(svc Service, register func(r *gin.Engine, d Deps)) {
	cfg := svc.Shared
	logger.Init(svc.Name, cfg.LogLevel, cfg.LogJSON)
	if cfg.Env != config.EnvLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoMigrate {
		if err := db.Migrate(ctx, cfg.DatabaseURL, svc.MigrationsDir); err != nil {
			logger.Fatal("migrations failed", "error", err)
		}
	}

	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	defer pool.Close()

	tokens, err := auth.NewManager(cfg.JWTSecret, svc.TokenTTL)
	if err != nil {
		logger.Fatal("invalid token configuration", "error", err)
	}

	limiter := middleware.NewRedisRateLimiter(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, svc.Name)
	defer limiter.Close()

	opts := httpServer.Options{
		Service:       svc.Name,
		Version:       Version,
		DB:            pool,
		Tokens:        tokens,
		Limiter:       limiter,
		APIRateLimit:  cfg.APIRateLimit,
		APIRateWindow: cfg.APIRateWindow,
		AllowedOrigin: cfg.AllowedOrigin,
	}
	r := httpServer.NewEngine(opts)
	register(r, Deps{Pool: pool, Tokens: tokens, Options: opts})

	srv, err := httpServer.Listen(":"+svc.Port, r)
	if err != nil {
		logger.Fatal("listen failed", "port", svc.Port, "error", err)
	}
	serveErr := srv.Serve()

	checker := secretcheck.NewChecker(2 * time.Second)
	if err := checker.VerifyPeers(ctx, tokens.Fingerprint(), cfg.SecretPeers, cfg.SecretCheckWait); err != nil {
		_ = srv.Shutdown(cfg.ShutdownTimeout)
		logger.Fatal("secret agreement check failed", "error", err)
	}

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			logger.Fatal("server failed", "error", err)
		}
	}

	logger.Info("shutting down server")
	if err := srv.Shutdown(cfg.ShutdownTimeout); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	logger.Info("server exited")
}
