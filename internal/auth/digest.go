package auth

import (
	"crypto/sha256"
	"encoding/hex"
)

// DigestPassword computes the credential digest for a password.
//
// The digest is a lowercase hex-encoded SHA-256 of the raw password.
// It is deterministic: the same password always yields the same digest,
// and login verifies by recomputing and comparing rather than using a
// salted verify function.
func DigestPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether the password matches the stored digest.
func VerifyPassword(password, digest string) bool {
	return DigestPassword(password) == digest
}
