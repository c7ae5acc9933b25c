package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims extends JWT standard claims with Gadgetry-specific fields.
type Claims struct {
	jwt.RegisteredClaims
	Name string `json:"name"`
}

// GenerateToken creates a signed JWT bearer token for an account.
// Tokens are validated by signature only (no database hit per request).
func GenerateToken(account *Account, secret string, ttlHours int) (string, error) {
	if ttlHours <= 0 {
		ttlHours = 24 //nolint:mnd // default 24-hour token TTL
	}

	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   account.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(ttlHours) * time.Hour)),
			ID:        uuid.NewString(),
		},
		Name: account.Name,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// ParseToken validates and parses a JWT bearer token, returning the claims.
// It checks the signature, expiry, and required fields.
//
// All failure modes collapse into ErrTokenInvalid so callers cannot
// distinguish a forged token from an expired one.
func ParseToken(tokenString, secret string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(_ *jwt.Token) (any, error) {
		return []byte(secret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrTokenInvalid)
	}

	if claims.Name == "" {
		return nil, fmt.Errorf("%w: missing name", ErrTokenInvalid)
	}

	return claims, nil
}
