package auth

import (
	"context"
	"fmt"
)

// Service implements account registration and login on top of an
// AccountRepository.
type Service struct {
	repo      AccountRepository
	jwtSecret string
	tokenTTL  int // hours
}

// NewService creates a new auth service.
//
// Parameters:
//   - repo: Account persistence
//   - jwtSecret: Secret for signing bearer tokens (validated at config load)
//   - tokenTTLHours: Token lifetime in hours (0 uses the default)
func NewService(repo AccountRepository, jwtSecret string, tokenTTLHours int) *Service {
	return &Service{
		repo:      repo,
		jwtSecret: jwtSecret,
		tokenTTL:  tokenTTLHours,
	}
}

// CreateAccount registers a new operator account.
//
// Any non-empty name is accepted; there is no format restriction.
// The password is stored as a deterministic SHA-256 digest. Name
// uniqueness is enforced by the database; a duplicate surfaces as
// ErrNameExists.
//
// Returns:
//   - *Account: The created account
//   - error: ErrInvalidName, ErrMissingPassword, ErrNameExists, or a storage error
func (s *Service) CreateAccount(ctx context.Context, name, password string) (*Account, error) {
	if name == "" {
		return nil, ErrInvalidName
	}
	if password == "" {
		return nil, ErrMissingPassword
	}

	account := &Account{
		Name:           name,
		PasswordDigest: DigestPassword(password),
	}

	if err := s.repo.Create(ctx, account); err != nil {
		return nil, err
	}

	return account, nil
}

// Login authenticates an account and issues a bearer token.
//
// Verification recomputes the digest of the presented password and
// compares it to the stored digest.
//
// Returns:
//   - string: Signed JWT on success
//   - error: ErrAccountNotFound if the name is unknown,
//     ErrInvalidCredentials if the password does not match
func (s *Service) Login(ctx context.Context, name, password string) (string, error) {
	account, err := s.repo.GetByName(ctx, name)
	if err != nil {
		return "", err
	}

	if !VerifyPassword(password, account.PasswordDigest) {
		return "", ErrInvalidCredentials
	}

	token, err := GenerateToken(account, s.jwtSecret, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("issuing token: %w", err)
	}

	return token, nil
}

// VerifyToken parses and validates a bearer token, returning its claims.
func (s *Service) VerifyToken(tokenString string) (*Claims, error) {
	return ParseToken(tokenString, s.jwtSecret)
}
