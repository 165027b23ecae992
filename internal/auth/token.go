package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rently-backend/internal/config"
	"rently-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

const demoTokenPrefix = "demo-token-"

type JWTCustomClaims struct {
	UserID   uint            `json:"user_id"`
	Username string          `json:"username"`
	UserType models.UserType `json:"user_type"`
	jwt.RegisteredClaims
}

// GenerateToken issues a bearer token for the user. The demo scheme produces
// the literal "demo-token-{userId}" the existing mobile clients expect; the
// jwt scheme produces a signed HS256 token.
func GenerateToken(cfg *config.Config, user *models.User) (string, error) {
	if cfg.TokenScheme == "demo" {
		return fmt.Sprintf("%s%d", demoTokenPrefix, user.ID), nil
	}

	claims := &JWTCustomClaims{
		UserID:   user.ID,
		Username: user.Username,
		UserType: user.UserType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// ParseDemoToken extracts the user id from a "demo-token-{userId}" string.
func ParseDemoToken(token string) (uint, bool) {
	if !strings.HasPrefix(token, demoTokenPrefix) {
		return 0, false
	}
	id, err := strconv.ParseUint(strings.TrimPrefix(token, demoTokenPrefix), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func parseJWT(secret, tokenStr string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid or expired token")
	}
	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
