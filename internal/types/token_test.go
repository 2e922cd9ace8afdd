package types

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenClaimsExpiresOr(t *testing.T) {
	fallback := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, fallback, (&TokenClaims{}).ExpiresOr(fallback))

	expiry := fallback.Add(time.Hour)
	claims := &TokenClaims{RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(expiry)}}
	assert.True(t, expiry.Equal(claims.ExpiresOr(fallback)))
}

func TestTokenClaimsRegisteredGetters(t *testing.T) {
	claims := &TokenClaims{RegisteredClaims: jwt.RegisteredClaims{Subject: "user-1", Issuer: "sugarsense"}}

	subject, err := claims.GetSubject()
	require.NoError(t, err)
	assert.Equal(t, "user-1", subject)

	issuer, err := claims.GetIssuer()
	require.NoError(t, err)
	assert.Equal(t, "sugarsense", issuer)
}
