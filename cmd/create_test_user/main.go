package main

import (
	"context"
	"errors"
	"flag"
	"fmt"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/auth"
	"task_deadlines/internal/config"
	"task_deadlines/internal/db"
	"task_deadlines/internal/logger"
	"task_deadlines/internal/repository"
	"task_deadlines/internal/service"

	"golang.org/x/crypto/bcrypt"
)

// Creates a user in the user service database, or reuses it, and prints a
// token for it.
func main() {
	username := flag.String("username", "testuser", "username")
	password := flag.String("password", "testpassword", "password")
	flag.Parse()

	cfg, err := config.LoadUserService()
	if err != nil {
		logger.Fatal("failed to load config", "error", err)
	}
	logger.Init("create_test_user", cfg.LogLevel, false)

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal("database unavailable", "error", err)
	}
	defer pool.Close()

	tokens, err := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	if err != nil {
		logger.Fatal("invalid token configuration", "error", err)
	}
	identity, err := service.NewIdentityService(repository.NewUserRepository(pool), tokens, bcrypt.MinCost)
	if err != nil {
		logger.Fatal("identity service init failed", "error", err)
	}

	id, err := identity.Signup(ctx, *username, *password)
	switch {
	case err == nil:
		logger.Info("user created", "id", id)
	case errors.Is(err, apperr.ErrValidation):
		logger.Info("user exists, logging in", "username", *username, "reason", apperr.Message(err))
	default:
		logger.Fatal("signup failed", "error", err)
	}

	token, err := identity.Login(ctx, *username, *password)
	if err != nil {
		logger.Fatal("login failed", "error", err)
	}
	fmt.Println(token)
}
