package driven

import "github.com/signal-watch/signalwatch-core/internal/core/domain"

// AuthAdapter handles authentication cryptographic operations for the
// single-operator API. It does not handle storage.
type AuthAdapter interface {
	// Password operations
	HashPassword(password string) (string, error)
	VerifyPassword(password, hash string) bool

	// Token operations
	GenerateToken(claims *domain.TokenClaims) (string, error)
	ParseToken(token string) (*domain.TokenClaims, error)
}
