package main

import (
	"time"

	"task_deadlines/internal/app"
	"task_deadlines/internal/config"
	httpServer "task_deadlines/internal/http"
	"task_deadlines/internal/http/handlers"
	"task_deadlines/internal/logger"
	"task_deadlines/internal/migrations"
	"task_deadlines/internal/repository"
	"task_deadlines/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.LoadTaskService()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	app.Run(app.Service{
		Name:          "task-service",
		Port:          cfg.AppPort,
		MigrationsDir: migrations.Tasks,
		// verify only; this service never issues tokens
		TokenTTL: time.Hour,
		Shared:   cfg.Shared,
	}, func(r *gin.Engine, d app.Deps) {
		tasks := service.NewTaskService(repository.NewTaskRepository(d.Pool))
		httpServer.RegisterTaskRoutes(r, d.Options, handlers.NewTaskHandler(tasks))
	})
}
