package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "records:login"

// Limiter throttles failed logins per email and client IP using Redis
type Limiter struct {
	client          redis.Cmdable
	window          time.Duration // Time window for counting failures
	maxAttempts     int           // Failures allowed in window
	lockoutDuration time.Duration // How long to block after exceeding limit
}

// NewLimiter creates a new rate limiter
func NewLimiter(client redis.Cmdable, window time.Duration, maxAttempts int, lockoutDuration time.Duration) *Limiter {
	return &Limiter{
		client:          client,
		window:          window,
		maxAttempts:     maxAttempts,
		lockoutDuration: lockoutDuration,
	}
}

func attemptKey(email, ipAddress string) string {
	return fmt.Sprintf("%s:attempts:%s:%s", keyPrefix, ipAddress, email)
}

func lockoutKey(email, ipAddress string) string {
	return fmt.Sprintf("%s:lockout:%s:%s", keyPrefix, ipAddress, email)
}

// CheckLoginAttempt reports whether a login attempt may proceed.
// Returns: allowed, remaining attempts, lockout remaining, error
func (l *Limiter) CheckLoginAttempt(ctx context.Context, email, ipAddress string) (bool, int, time.Duration, error) {
	var (
		ttlCmd   *redis.DurationCmd
		countCmd *redis.StringCmd
	)
	_, err := l.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		ttlCmd = pipe.TTL(ctx, lockoutKey(email, ipAddress))
		countCmd = pipe.Get(ctx, attemptKey(email, ipAddress))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, 0, 0, fmt.Errorf("failed to read login attempts: %w", err)
	}

	if ttl := ttlCmd.Val(); ttl > 0 {
		return false, 0, ttl, nil
	}

	count, err := countCmd.Int()
	if err != nil && !errors.Is(err, redis.Nil) {
		return false, 0, 0, fmt.Errorf("failed to parse attempt count: %w", err)
	}

	remaining := l.maxAttempts - count
	if remaining > 0 {
		return true, remaining, 0, nil
	}

	// Limit exceeded: start the lockout and reset the counter
	_, err = l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, lockoutKey(email, ipAddress), "1", l.lockoutDuration)
		pipe.Del(ctx, attemptKey(email, ipAddress))
		return nil
	})
	if err != nil {
		return false, 0, 0, fmt.Errorf("failed to set lockout: %w", err)
	}
	return false, 0, l.lockoutDuration, nil
}

// RecordFailedAttempt counts a failed login inside the current window.
// The window starts at the first failure. INCR and EXPIRE NX share one
// transaction (EXPIRE NX needs Redis 7).
func (l *Limiter) RecordFailedAttempt(ctx context.Context, email, ipAddress string) error {
	key := attemptKey(email, ipAddress)

	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, l.window)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to record failed attempt: %w", err)
	}
	return nil
}

// RecordSuccessfulAttempt clears the failure counter
func (l *Limiter) RecordSuccessfulAttempt(ctx context.Context, email, ipAddress string) error {
	if err := l.client.Del(ctx, attemptKey(email, ipAddress)).Err(); err != nil {
		return fmt.Errorf("failed to clear attempt counter: %w", err)
	}
	return nil
}

// ClearLockout lifts a lockout early; used by recordsctl
func (l *Limiter) ClearLockout(ctx context.Context, email, ipAddress string) error {
	if err := l.client.Del(ctx, lockoutKey(email, ipAddress), attemptKey(email, ipAddress)).Err(); err != nil {
		return fmt.Errorf("failed to clear lockout: %w", err)
	}
	return nil
}
