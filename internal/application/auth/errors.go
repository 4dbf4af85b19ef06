package auth

import (
	"errors"
	"fmt"
	"math"
	"time"
)

var (
	ErrSecretNotConfigured   = errors.New("Session secret not configured")
	ErrPasswordNotConfigured = errors.New("Admin password not configured")
	ErrInvalidPassword       = errors.New("Invalid password")
	ErrInvalidToken          = errors.New("Invalid session token")
	ErrTooManyAttempts       = errors.New("Too many login attempts")
)

// RateLimitedError is returned by Login when the caller's address is locked out.
type RateLimitedError struct {
	RetryAfter time.Duration
}

func (e *RateLimitedError) Error() string {
	return fmt.Sprintf("Too many login attempts. Please try again in %d seconds", e.RetryAfterSeconds())
}

func (e *RateLimitedError) Unwrap() error { return ErrTooManyAttempts }

// RetryAfterSeconds rounds up so a client never retries early.
func (e *RateLimitedError) RetryAfterSeconds() int {
	return int(math.Ceil(e.RetryAfter.Seconds()))
}
