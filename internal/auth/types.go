package auth

import (
	"errors"
	"time"
)

// Account represents a registered operator account.
type Account struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	PasswordDigest string    `json:"-"` // never serialised
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Sentinel errors for auth operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountNotFound    = errors.New("account not found")
	ErrNameExists         = errors.New("account name already exists")
	ErrInvalidName        = errors.New("invalid account name")
	ErrMissingPassword    = errors.New("password is required")
	ErrTokenInvalid       = errors.New("invalid token")
)
