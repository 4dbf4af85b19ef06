package middleware

import (
	"wedding-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
)

// SessionChecker validates an admin session token.
type SessionChecker interface {
	Configured() bool
	CheckAuth(token string) bool
}

// RequireAdmin rejects requests without a valid admin_session cookie with 401.
// A missing admin password is a deployment error and answers 500.
func RequireAdmin(checker SessionChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !checker.Configured() {
			log.Error().Str("trace_id", GetTraceID(c)).Str("path", c.Path()).Msg("ADMIN_PASSWORD not set; admin routes unavailable")
			return response.Internal(c, "Admin password not configured")
		}
		if !checker.CheckAuth(AdminToken(c)) {
			return response.Unauthorized(c, "Unauthorized")
		}
		return c.Next()
	}
}
