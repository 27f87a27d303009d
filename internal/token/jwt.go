package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Lifetime is how long an issued token stays valid.
const Lifetime = 24 * time.Hour

// ErrInvalid is returned by Verify for every rejected token. Callers must
// not try to tell malformed, forged and expired tokens apart.
var ErrInvalid = errors.New("invalid token")

// Service issues and verifies HS256 session tokens. It holds no state
// besides the secret and is safe for concurrent use.
type Service struct {
	secretKey []byte
	now       func() time.Time
}

// NewService creates a new token service
func NewService(secretKey string) (*Service, error) {
	if secretKey == "" {
		return nil, errors.New("token secret key must not be empty")
	}
	return &Service{
		secretKey: []byte(secretKey),
		now:       time.Now,
	}, nil
}

// Issue signs a token for the given subject using the current time.
func (s *Service) Issue(userID int64, email, role string) string {
	return s.IssueAt(userID, email, role, s.now())
}

// IssueAt signs a token as if issued at the given instant.
func (s *Service) IssueAt(userID int64, email, role string, at time.Time) string {
	issuedAt := jwt.NewNumericDate(at)
	claims := Claims{
		UserID: userID,
		Email:  email,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  issuedAt,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(Lifetime)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secretKey)
	if err != nil {
		// HMAC over a non-empty []byte key has no failure path.
		panic(fmt.Sprintf("token: sign HS256: %v", err))
	}
	return signed
}

// Verify checks structure, signature and expiry of tokenString as of now.
// The token is accepted only while now is strictly before its expiry.
func (s *Service) Verify(tokenString string, now time.Time) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrInvalid
	}
	return claims, nil
}

// ExpiresAt returns the expiry of a token issued at the given instant.
func ExpiresAt(issuedAt time.Time) time.Time {
	return issuedAt.Truncate(time.Second).Add(Lifetime)
}
