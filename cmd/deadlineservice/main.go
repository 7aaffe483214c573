package main

import (
	"time"

	"task_deadlines/internal/app"
	"task_deadlines/internal/config"
	httpServer "task_deadlines/internal/http"
	"task_deadlines/internal/http/handlers"
	"task_deadlines/internal/logger"
	"task_deadlines/internal/migrations"
	"task_deadlines/internal/ownership"
	"task_deadlines/internal/repository"
	"task_deadlines/internal/service"
	"task_deadlines/internal/taskclient"
	"task_deadlines/internal/ws"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadDeadlineService()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	app.Run(app.Service{
		Name:          "deadline-service",
		Port:          cfg.AppPort,
		MigrationsDir: migrations.Deadlines,
		TokenTTL:      time.Hour,
		Shared:        cfg.Shared,
	}, func(r *gin.Engine, d app.Deps) {
		validator := ownership.NewValidator(
			taskclient.NewClient(cfg.TaskServiceURL, cfg.OwnershipTimeout),
			cfg.OwnershipTimeout,
		)
		hub := ws.NewHub()
		deadlines := service.NewDeadlineService(validator, repository.NewDeadlineRepository(d.Pool), hub)

		httpServer.RegisterDeadlineRoutes(r, d.Options, handlers.NewDeadlineHandler(deadlines), hub,
			cfg.WriteRateLimit, cfg.WriteRateWindow)
		logger.Info("ownership checks delegated", "task_service", cfg.TaskServiceURL, "timeout", cfg.OwnershipTimeout)
	})
}
