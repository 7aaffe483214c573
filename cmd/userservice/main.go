package main

import (
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
	cfg, err := config.LoadUserService()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}

	app.Run(app.Service{
		Name:          "user-service",
		Port:          cfg.AppPort,
		MigrationsDir: migrations.Users,
		TokenTTL:      cfg.TokenTTL,
		Shared:        cfg.Shared,
	}, func(r *gin.Engine, d app.Deps) {
		identity, err := service.NewIdentityService(repository.NewUserRepository(d.Pool), d.Tokens, cfg.BcryptCost)
		if err != nil {
			logger.Fatal("identity service init failed", "error", err)
		}
		httpServer.RegisterUserRoutes(r, d.Options, handlers.NewUserHandler(identity), cfg.AuthRateLimit, cfg.AuthRateWindow)
	})
}
