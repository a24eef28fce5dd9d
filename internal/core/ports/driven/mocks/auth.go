package mocks

import (
	"sync"
	"time"

	"github.com/signal-watch/signalwatch-core/internal/core/domain"
	"github.com/signal-watch/signalwatch-core/internal/core/ports/driven"
)

// MockAuthAdapter is a fake AuthAdapter for testing. Hashing and signing are
// trivially reversible; never use outside tests.
type MockAuthAdapter struct {
	mu     sync.Mutex
	tokens map[string]*domain.TokenClaims

	// Err, when set, is returned by GenerateToken and ParseToken.
	Err error
}

// NewMockAuthAdapter creates an empty mock auth adapter.
func NewMockAuthAdapter() *MockAuthAdapter {
	return &MockAuthAdapter{tokens: make(map[string]*domain.TokenClaims)}
}

// Verify interface compliance
var _ driven.AuthAdapter = (*MockAuthAdapter)(nil)

func (m *MockAuthAdapter) HashPassword(password string) (string, error) {
	return "hashed:" + password, nil
}

func (m *MockAuthAdapter) VerifyPassword(password, hash string) bool {
	return hash == "hashed:"+password
}

func (m *MockAuthAdapter) GenerateToken(claims *domain.TokenClaims) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return "", m.Err
	}
	token := "token-" + domain.GenerateID()
	m.tokens[token] = claims
	return token, nil
}

func (m *MockAuthAdapter) ParseToken(token string) (*domain.TokenClaims, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	claims, ok := m.tokens[token]
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if claims.ExpiresAt != 0 && claims.ExpiresAt < time.Now().Unix() {
		return nil, domain.ErrTokenExpired
	}
	return claims, nil
}

// Reset clears all issued tokens.
func (m *MockAuthAdapter) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = make(map[string]*domain.TokenClaims)
	m.Err = nil
}
