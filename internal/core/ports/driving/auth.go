package driving

import "context"

// AuthService is the driving port for the single-operator login flow.
type AuthService interface {
	// Login verifies the operator password and returns a signed token.
	// Returns domain.ErrInvalidCredentials on a bad password.
	Login(ctx context.Context, password string) (token string, expiresIn int64, err error)

	// Verify parses and validates a token, returning its subject.
	// Returns domain.ErrTokenExpired or domain.ErrUnauthorized on failure.
	Verify(ctx context.Context, token string) (subject string, err error)
}
