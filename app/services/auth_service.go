package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/auth"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
)

// ErrInvalidCredentials covers both an unknown username and a wrong password.
var ErrInvalidCredentials = errors.New("auth: invalid username or password")

type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Attempt checks a username/password pair.
func (s *AuthService) Attempt(ctx context.Context, username, password string) (models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	switch {
	case errors.Is(err, repositories.ErrNotFound):
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return models.User{}, ErrInvalidCredentials
	case err != nil:
		return models.User{}, fmt.Errorf("auth: attempt: %w", err)
	}

	if !auth.CheckPassword(user.Password, password) {
		metrics.LoginAttempts.WithLabelValues("failure").Inc()
		return models.User{}, ErrInvalidCredentials
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	return user, nil
}

// Identity resolves a session's user ID for middleware.Identify.
func (s *AuthService) Identity(ctx context.Context, userID uint) (middleware.Identity, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repositories.ErrNotFound) {
		return middleware.Identity{}, middleware.ErrUnknownIdentity
	}
	if err != nil {
		return middleware.Identity{}, err
	}
	return middleware.Identity{UserID: user.ID, Username: user.Username, Role: user.Role}, nil
}

// HomeFor returns where a user lands after login when no target was given.
func HomeFor(role string) string {
	if role == models.RoleAdmin {
		return "/product/view_all"
	}
	return "/"
}
