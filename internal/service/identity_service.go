package service

import (
	"context"
	"errors"
	"strings"

	"task_deadlines/internal/apperr"
	"task_deadlines/internal/domain"
	"task_deadlines/internal/logger"
	"task_deadlines/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserStore persists identity provider accounts.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

// TokenIssuer signs tokens for a verified identity.
type TokenIssuer interface {
	Issue(id domain.Identity) (string, error)
}

var errInvalidCredentials = apperr.Validation("Invalid credentials")

// IdentityService handles signup and login.
type IdentityService struct {
	users     UserStore
	tokens    TokenIssuer
	cost      int
	dummyHash []byte
}

func NewIdentityService(users UserStore, tokens TokenIssuer, bcryptCost int) (*IdentityService, error) {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	// compared against for unknown usernames so both failure paths cost one bcrypt
	dummy, err := bcrypt.GenerateFromPassword([]byte("dummy-password"), bcryptCost)
	if err != nil {
		return nil, err
	}
	return &IdentityService{
		users:     users,
		tokens:    tokens,
		cost:      bcryptCost,
		dummyHash: dummy,
	}, nil
}

// Signup creates an account and returns its id.
func (s *IdentityService) Signup(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, apperr.Validation("Missing fields")
	}
	if len(password) > 72 {
		return 0, apperr.Validation("Password too long")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return 0, apperr.Internal(err)
	}

	u := &domain.User{Username: username, PasswordHash: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrUsernameTaken) {
			return 0, apperr.Validation("Username already exists")
		}
		return 0, apperr.Internal(err)
	}

	logger.WithContext(ctx).Info("user created", "user_id", u.ID)
	return u.ID, nil
}

// Login checks the password and issues a token.
func (s *IdentityService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", apperr.Validation("Missing fields")
	}

	u, err := s.users.GetByUsername(ctx, username)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
		return "", errInvalidCredentials
	case err != nil:
		return "", apperr.Internal(err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return "", errInvalidCredentials
	}

	token, err := s.tokens.Issue(domain.Identity{UserID: u.ID, Username: u.Username})
	if err != nil {
		return "", apperr.Internal(err)
	}
	return token, nil
}
