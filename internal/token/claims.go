package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload carried by a session token.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"` // "admin" or "student"
	jwt.RegisteredClaims
}

// IssuedAtTime returns the iat claim, or the zero time if absent.
func (c *Claims) IssuedAtTime() time.Time {
	if c.IssuedAt == nil {
		return time.Time{}
	}
	return c.IssuedAt.Time
}

// ExpiresAtTime returns the exp claim, or the zero time if absent.
func (c *Claims) ExpiresAtTime() time.Time {
	if c.ExpiresAt == nil {
		return time.Time{}
	}
	return c.ExpiresAt.Time
}

// Roles recognised by the authorization layer.
const (
	RoleAdmin   = "admin"
	RoleStudent = "student"
)

// TokenType constants
const (
	TokenTypeBearer = "Bearer"
)
