package jwtmw

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	EnvKeyJWTSecret     = "JWT_SECRET"
	EnvKeyJWTExpiration = "JWT_EXPIRATION"

	// DefaultExpiration はJWT_EXPIRATIONが未設定または不正な場合の有効期間です。
	DefaultExpiration = 24 * time.Hour
)

// Generator defines the interface for JWT token generation.
type Generator interface {
	// GenerateToken creates a signed JWT token for the given API client.
	GenerateToken(clientID string) (string, error)
}

// generator implements the Generator interface.
type generator struct {
	secret     []byte
	expiration time.Duration
}

var _ Generator = (*generator)(nil)

// NewGenerator creates a new JWT generator with the provided secret and expiration duration.
func NewGenerator(secret string, expiration time.Duration) *generator {
	return &generator{
		secret:     []byte(secret),
		expiration: expiration,
	}
}

// ExpirationFromEnv parses JWT_EXPIRATION as a Go duration ("1h", "30m").
func ExpirationFromEnv() time.Duration {
	d, err := time.ParseDuration(os.Getenv(EnvKeyJWTExpiration))
	if err != nil || d <= 0 {
		return DefaultExpiration
	}
	return d
}

// GenerateToken creates a signed JWT token with standard claims.
func (g *generator) GenerateToken(clientID string) (string, error) {
	if clientID == "" {
		return "", fmt.Errorf("client id is required")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": clientID,
		"exp": now.Add(g.expiration).Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(g.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}
