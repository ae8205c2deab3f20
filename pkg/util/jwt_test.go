package util

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jwtSecret = "storefront-signing-key"

func issue(t *testing.T, userID uint, role string, access, refresh time.Duration) *TokenPair {
	t.Helper()
	pair, err := GenerateTokenPair(userID, "camille@example.com", role, jwtSecret, access, refresh)
	require.NoError(t, err)
	return pair
}

func TestTokenPairCarriesIdentity(t *testing.T) {
	pair := issue(t, 42, "admin", 15*time.Minute, 7*24*time.Hour)
	require.NotEqual(t, pair.AccessToken, pair.RefreshToken)

	access, err := ValidateToken(pair.AccessToken, jwtSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), access.UserID)
	assert.Equal(t, "camille@example.com", access.Email)
	assert.Equal(t, "admin", access.Role)
	assert.Equal(t, TokenTypeAccess, access.TokenType)
	assert.True(t, access.IssuedAt.Before(access.ExpiresAt.Time))

	refresh, err := ValidateToken(pair.RefreshToken, jwtSecret)
	require.NoError(t, err)
	assert.Equal(t, TokenTypeRefresh, refresh.TokenType)
	assert.NotEqual(t, access.ID, refresh.ID)
	// refresh outlives access
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))
}

func TestValidateTokenRejects(t *testing.T) {
	pair := issue(t, 7, "user", 15*time.Minute, time.Hour)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{UserID: 7, Role: "admin"})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
		key   string
	}{
		{name: "wrong key", token: pair.AccessToken, key: "another-key"},
		{name: "malformed", token: "invalid.token.format", key: jwtSecret},
		{name: "empty", token: "", key: jwtSecret},
		{name: "tampered", token: pair.AccessToken + "x", key: jwtSecret},
		{name: "alg none", token: unsigned, key: jwtSecret},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := ValidateToken(tt.token, tt.key)
			assert.ErrorIs(t, err, ErrInvalidToken)
			assert.Nil(t, claims)
		})
	}
}

func TestValidateTokenExpired(t *testing.T) {
	pair := issue(t, 1, "user", -time.Minute, -time.Minute)

	claims, err := ValidateToken(pair.AccessToken, jwtSecret)

	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.Nil(t, claims)
}
