package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

const (
	// MinPasswordLength applies to passwords set through recordsctl
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes
	maxPasswordBytes = 72
)

// dummyHash is compared against when the email is unknown
const dummyHash = "$2a$10$7EqJtq98hPqEX7fNZaFWoOhi5BWX4Z3NkfYHnyM1cHGr3F1XvT5aC"

var (
	// ErrPasswordMismatch is returned when a password does not match its hash
	ErrPasswordMismatch = errors.New("invalid password")
	// ErrPasswordPolicy is returned by HashPassword for unusable passwords
	ErrPasswordPolicy = errors.New("password does not meet policy")
)

// VerifyPassword checks a login password against a stored bcrypt hash
func VerifyPassword(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return ErrPasswordMismatch
	default:
		return fmt.Errorf("failed to verify password: %w", err)
	}
}

// HashPassword hashes a new account password at bcrypt's default cost
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: at least %d characters required", ErrPasswordPolicy, MinPasswordLength)
	}
	if len(password) > maxPasswordBytes {
		return "", fmt.Errorf("%w: longer than %d bytes", ErrPasswordPolicy, maxPasswordBytes)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}
