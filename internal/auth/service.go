package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/academix/records/internal/token"
	"github.com/academix/records/internal/user"
	apperrors "github.com/academix/records/pkg/errors"
	"go.uber.org/zap"
)

// UserFinder looks up login accounts
type UserFinder interface {
	FindByEmail(ctx context.Context, email string) (*user.User, error)
}

// TokenIssuer signs session tokens
type TokenIssuer interface {
	IssueAt(userID int64, email, role string, at time.Time) string
}

// RateLimiter interface for rate limiting
type RateLimiter interface {
	CheckLoginAttempt(ctx context.Context, email, ipAddress string) (allowed bool, remaining int, lockoutRemaining time.Duration, err error)
	RecordFailedAttempt(ctx context.Context, email, ipAddress string) error
	RecordSuccessfulAttempt(ctx context.Context, email, ipAddress string) error
}

// Service handles authentication business logic
type Service struct {
	users       UserFinder
	tokens      TokenIssuer
	rateLimiter RateLimiter
	logger      *zap.Logger
	now         func() time.Time
}

// NewService creates a new authentication service. rateLimiter may be nil.
func NewService(users UserFinder, tokens TokenIssuer, rateLimiter RateLimiter, logger *zap.Logger) *Service {
	return &Service{
		users:       users,
		tokens:      tokens,
		rateLimiter: rateLimiter,
		logger:      logger,
		now:         time.Now,
	}
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	Token     string     `json:"token"`
	TokenType string     `json:"token_type"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      *user.User `json:"user"`
}

// Login authenticates with email and password and issues a session token
func (s *Service) Login(ctx context.Context, email, password, ipAddress string) (*LoginResponse, error) {
	email = SanitizeEmail(email)

	if s.rateLimiter != nil {
		allowed, _, lockoutRemaining, err := s.rateLimiter.CheckLoginAttempt(ctx, email, ipAddress)
		if err != nil {
			// Throttling is best effort; redis trouble must not block logins
			s.logger.Warn("rate limiter unavailable", zap.Error(err))
		} else if !allowed {
			s.logger.Info("login blocked",
				zap.String("ip", ipAddress),
				zap.Duration("lockout_remaining", lockoutRemaining.Round(time.Second)),
			)
			return nil, apperrors.ErrRateLimitExceeded
		}
	}

	usr, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}

	hash := dummyHash
	if usr != nil {
		hash = usr.PasswordHash
	}
	// Compare even for unknown emails so both failures cost the same
	if err := VerifyPassword(password, hash); err != nil || usr == nil {
		s.recordFailure(ctx, email, ipAddress)
		return nil, apperrors.ErrInvalidCredentials
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.RecordSuccessfulAttempt(ctx, email, ipAddress); err != nil {
			s.logger.Warn("failed to reset login attempts", zap.Error(err))
		}
	}

	issuedAt := s.now()
	return &LoginResponse{
		Token:     s.tokens.IssueAt(usr.ID, usr.Email, usr.Role, issuedAt),
		TokenType: token.TokenTypeBearer,
		ExpiresAt: token.ExpiresAt(issuedAt),
		User:      usr,
	}, nil
}

func (s *Service) recordFailure(ctx context.Context, email, ipAddress string) {
	if s.rateLimiter == nil {
		return
	}
	if err := s.rateLimiter.RecordFailedAttempt(ctx, email, ipAddress); err != nil {
		s.logger.Warn("failed to record login attempt", zap.Error(err))
	}
}
