package domain

// TokenClaims are the claims carried in an operator bearer token. The service
// has a single operator identity; there is no user model.
type TokenClaims struct {
	Subject   string `json:"sub"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
