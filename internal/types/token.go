package types

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenClaims are the claims of an access token. The registered claims carry the token
// id used for revocation.
type TokenClaims struct {
	jwt.RegisteredClaims
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
}

var _ jwt.Claims = (*TokenClaims)(nil)

// ExpiresOr returns the expiry of the token, or fallback when it has none.
func (c *TokenClaims) ExpiresOr(fallback time.Time) time.Time {
	if c.ExpiresAt == nil {
		return fallback
	}
	return c.ExpiresAt.Time
}
