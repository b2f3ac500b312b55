package service

import (
	"context"
	"errors"
	"strings"

	"github.com/dkotenko/snipvault/internal/hash"
	"github.com/dkotenko/snipvault/internal/logging"
	"github.com/dkotenko/snipvault/internal/models"
	"github.com/dkotenko/snipvault/internal/repo"
)

var (
	// ErrInvalidCredentials is returned uniformly: the caller cannot tell a
	// missing account from a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrMissingFields      = errors.New("name, email and password are required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
)

const minPasswordLen = 8

type AuthService struct {
	Repo *repo.Repo
}

// Register creates an account. It never logs the caller in; authentication is
// a separate step.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.register")

	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if name == "" || email == "" || password == "" {
		return nil, ErrMissingFields
	}
	if len(password) < minPasswordLen {
		return nil, ErrPasswordTooShort
	}

	pwHash, err := hash.HashPassword(password)
	if err != nil {
		l.Error("cannot hash password", "error", err)
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: &pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrDuplicateEmail) {
			l.Warn("registration rejected", "reason", "duplicate email")
			return nil, err
		}
		l.Error("registration failed", "error", err)
		return nil, err
	}
	return user, nil
}

// Authenticate verifies an email+password pair and returns the canonical
// identity. Every failure path collapses to ErrInvalidCredentials.
func (s *AuthService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.login")

	user, err := s.Repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		l.Error("login lookup failed", "error", err)
		return nil, err
	}
	if user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if !hash.CheckPassword(*user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
