package auth

import (
	"testing"

	"rently-backend/internal/config"
	"rently-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemoTokenRoundTrip(t *testing.T) {
	cfg := &config.Config{TokenScheme: "demo"}
	user := &models.User{ID: 42, Username: "anna", UserType: models.UserTypeLandlord}

	token, err := GenerateToken(cfg, user)
	require.NoError(t, err)
	assert.Equal(t, "demo-token-42", token)

	id, ok := ParseDemoToken(token)
	require.True(t, ok)
	assert.Equal(t, uint(42), id)
}

func TestParseDemoTokenRejectsGarbage(t *testing.T) {
	for _, token := range []string{
		"",
		"demo-token-",
		"demo-token-0",
		"demo-token-abc",
		"token-42",
		"eyJhbGciOiJIUzI1NiJ9.x.y",
	} {
		_, ok := ParseDemoToken(token)
		assert.False(t, ok, "token %q should be rejected", token)
	}
}

func TestJWTRoundTrip(t *testing.T) {
	cfg := &config.Config{
		TokenScheme: "jwt",
		JWTSecret:   "0123456789abcdef0123456789abcdef",
	}
	user := &models.User{ID: 7, Username: "anna", UserType: models.UserTypeLandlord}

	token, err := GenerateToken(cfg, user)
	require.NoError(t, err)
	assert.NotContains(t, token, "demo-token")

	claims, err := parseJWT(cfg.JWTSecret, token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, models.UserTypeLandlord, claims.UserType)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	cfg := &config.Config{
		TokenScheme: "jwt",
		JWTSecret:   "0123456789abcdef0123456789abcdef",
	}
	token, err := GenerateToken(cfg, &models.User{ID: 7, UserType: models.UserTypeAdmin})
	require.NoError(t, err)

	_, err = parseJWT("another-secret-another-secret-xx", token)
	assert.Error(t, err)
}
