package auth

import (
	"regexp"
	"strings"

	apperrors "github.com/academix/records/pkg/errors"
)

var (
	// Email validation regex (RFC 5322 simplified)
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
)

// ValidateLoginRequest validates a login request
func ValidateLoginRequest(req *LoginRequest) error {
	fields := make(map[string]string)

	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "Email is required"
	} else if !IsValidEmail(req.Email) {
		fields["email"] = "Email format is invalid"
	}

	if req.Password == "" {
		fields["password"] = "Password is required"
	}

	if len(fields) > 0 {
		return apperrors.Validation("Validation failed", fields)
	}
	return nil
}

// IsValidEmail checks if an email address is valid
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if len(email) > 254 {
		return false
	}
	return emailRegex.MatchString(email)
}

// SanitizeEmail normalizes an email address
func SanitizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
