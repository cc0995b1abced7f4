package auth

import (
	"context"
	"errors"
	"fmt"

	"storefront-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned when the admin password is wrong
var ErrInvalidCredentials = errors.New("invalid credentials")

// SessionStore persists login session flags
type SessionStore interface {
	CreateSession(ctx context.Context, token string) error
	SessionValid(ctx context.Context, token string) (bool, error)
}

// Service gates the admin surface behind a single shared secret. There
// is no explicit logout; session lifetime is bounded by the store TTL.
type Service struct {
	passwordHash []byte
	sessions     SessionStore
	logger       *zap.Logger
}

// NewService creates the auth service from a bcrypt password hash
func NewService(passwordHash string, sessions SessionStore) *Service {
	return &Service{
		passwordHash: []byte(passwordHash),
		sessions:     sessions,
		logger:       util.GetLogger(),
	}
}

// HashPassword bcrypt-hashes a plaintext admin password
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Login checks the shared secret and mints a session token on success
func (s *Service) Login(ctx context.Context, password string) (string, error) {
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		s.logger.Warn("Admin login rejected")
		return "", ErrInvalidCredentials
	}

	token := uuid.New().String()
	if err := s.sessions.CreateSession(ctx, token); err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}

	s.logger.Info("Admin logged in")
	return token, nil
}

// Authenticate reports whether a session token is active
func (s *Service) Authenticate(ctx context.Context, token string) (bool, error) {
	if token == "" {
		return false, nil
	}
	return s.sessions.SessionValid(ctx, token)
}
