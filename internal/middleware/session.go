package middleware

import (
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	AdminSessionCookie = "admin_session"
	InvitationCookie   = "invitation_code"

	adminSessionMaxAge = 8 * time.Hour
	invitationMaxAge   = 365 * 24 * time.Hour
)

// CookieConfig carries the deployment flags cookies depend on.
type CookieConfig struct {
	IsProduction bool
}

func (cfg CookieConfig) cookie(name, value string, maxAge time.Duration) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		Expires:  time.Now().Add(maxAge),
		HTTPOnly: true,
		Secure:   cfg.IsProduction,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

func (cfg CookieConfig) expired(name string) *fiber.Cookie {
	ck := cfg.cookie(name, "", 0)
	ck.MaxAge = -1
	ck.Expires = time.Unix(0, 0)
	return ck
}

// SetAdminSession stores a signed admin token for 8 hours.
func SetAdminSession(c *fiber.Ctx, cfg CookieConfig, token string) {
	c.Cookie(cfg.cookie(AdminSessionCookie, token, adminSessionMaxAge))
}

// ClearAdminSession expires the admin cookie. Issued tokens stay valid until
// they age out; there is no server-side revocation list.
func ClearAdminSession(c *fiber.Ctx, cfg CookieConfig) {
	c.Cookie(cfg.expired(AdminSessionCookie))
}

func AdminToken(c *fiber.Ctx) string {
	return c.Cookies(AdminSessionCookie)
}

// SetInvitationCode remembers the guest's code for a year. The code is
// the credential; anyone holding it sees the same party. It is path-escaped
// so free-form codes stay valid cookie values.
func SetInvitationCode(c *fiber.Ctx, cfg CookieConfig, code string) {
	c.Cookie(cfg.cookie(InvitationCookie, url.PathEscape(code), invitationMaxAge))
}

func ClearInvitationCode(c *fiber.Ctx, cfg CookieConfig) {
	c.Cookie(cfg.expired(InvitationCookie))
}

func InvitationCode(c *fiber.Ctx) string {
	raw := c.Cookies(InvitationCookie)
	code, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return code
}
