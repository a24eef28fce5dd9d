package services

import (
	"context"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driving"
)

// operatorSubject is the single identity the API issues tokens for.
const operatorSubject = "operator"

// Ensure authService implements AuthService
var _ driving.AuthService = (*authService)(nil)

// authService implements the single-operator login flow. There is no user
// store; the operator password hash comes from configuration.
type authService struct {
	authAdapter  driven.AuthAdapter
	passwordHash string
	tokenTTL     time.Duration
}

// NewAuthService creates an AuthService checking against the configured
// bcrypt password hash.
func NewAuthService(authAdapter driven.AuthAdapter, passwordHash string) driving.AuthService {
	return &authService{
		authAdapter:  authAdapter,
		passwordHash: passwordHash,
		tokenTTL:     24 * time.Hour,
	}
}

// Login verifies the operator password and issues a signed token.
func (s *authService) Login(ctx context.Context, password string) (string, int64, error) {
	if password == "" || s.passwordHash == "" {
		return "", 0, domain.ErrInvalidCredentials
	}
	if !s.authAdapter.VerifyPassword(password, s.passwordHash) {
		return "", 0, domain.ErrInvalidCredentials
	}

	now := time.Now()
	claims := &domain.TokenClaims{
		Subject:   operatorSubject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(s.tokenTTL).Unix(),
	}
	token, err := s.authAdapter.GenerateToken(claims)
	if err != nil {
		return "", 0, err
	}
	return token, int64(s.tokenTTL.Seconds()), nil
}

// Verify parses a bearer token and returns its subject.
func (s *authService) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", domain.ErrUnauthorized
	}
	claims, err := s.authAdapter.ParseToken(token)
	if err != nil {
		return "", err
	}
	if claims.ExpiresAt != 0 && claims.ExpiresAt < time.Now().Unix() {
		return "", domain.ErrTokenExpired
	}
	return claims.Subject, nil
}
