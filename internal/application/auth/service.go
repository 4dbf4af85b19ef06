package auth

import (
	"context"
	"crypto/subtle"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Service authenticates the single shared admin account.
type Service struct {
	// Password is the configured admin password, plain or bcrypt-hashed. It
	// doubles as the session signing secret.
	Password string
	Limiter  LoginLimiter
	Now      func() time.Time
}

func (s *Service) codec() *TokenCodec {
	return &TokenCodec{Secret: s.Password, Now: s.Now}
}

// Login checks the limiter before the password so locked-out callers learn nothing.
// On success the limiter is reset and a fresh session token is returned.
func (s *Service) Login(ctx context.Context, password, clientAddress string) (string, error) {
	if s.Limiter != nil {
		d, err := s.Limiter.CheckAndRecordAttempt(ctx, clientAddress)
		if err != nil {
			return "", fmt.Errorf("login limiter: %w", err)
		}
		if !d.Allowed {
			return "", &RateLimitedError{RetryAfter: d.RetryAfter}
		}
	}

	if s.Password == "" {
		return "", ErrPasswordNotConfigured
	}
	if !s.passwordMatches(password) {
		return "", ErrInvalidPassword
	}

	if s.Limiter != nil {
		if err := s.Limiter.Reset(ctx, clientAddress); err != nil {
			return "", fmt.Errorf("login limiter: %w", err)
		}
	}
	return s.codec().Issue()
}

// Configured reports whether an admin password is set. Without one no
// session can be issued or verified.
func (s *Service) Configured() bool {
	return s.Password != ""
}

// CheckAuth reports whether token is a valid, unexpired admin session.
func (s *Service) CheckAuth(token string) bool {
	if token == "" {
		return false
	}
	return s.codec().Verify(token, SessionMaxAge) == nil
}

func (s *Service) passwordMatches(password string) bool {
	if isBcryptHash(s.Password) {
		return bcrypt.CompareHashAndPassword([]byte(s.Password), []byte(password)) == nil
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(s.Password)) == 1
}

func isBcryptHash(s string) bool {
	return len(s) == 60 && (strings.HasPrefix(s, "$2a$") || strings.HasPrefix(s, "$2b$") || strings.HasPrefix(s, "$2y$"))
}
