package main

import (
	"context"
	"flag"
	"os"

	"task_deadlines/internal/db"
	"task_deadlines/internal/logger"
	"task_deadlines/internal/migrations"

	"github.com/joho/godotenv"
)

func main() {
	serviceName := flag.String("service", "", "migrations to run: users, tasks or deadlines")
	apply := flag.Bool("apply", false, "apply pending migrations instead of printing status")
	flag.Parse()

	_ = godotenv.Load()
	logger.Init("migrate", "info", false)

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	switch *serviceName {
	case migrations.Users, migrations.Tasks, migrations.Deadlines:
	default:
		logger.Fatal("unknown -service", "service", *serviceName)
	}

	ctx := context.Background()
	if !*apply {
		if err := db.Status(ctx, dsn, *serviceName); err != nil {
			logger.Fatal("status failed", "error", err)
		}
		return
	}

	if err := db.Migrate(ctx, dsn, *serviceName); err != nil {
		logger.Fatal("migrate failed", "error", err)
	}
	logger.Info("migrations applied", "service", *serviceName)
}
