package middleware

import (
	"net"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClientAddress returns the address login attempts are counted against.
// Behind a trusted proxy it is the rightmost valid entry of the configured
// proxy header, which the proxy appended itself; entries to its left are
// client-supplied. Otherwise it is the socket peer.
// The result never aliases fasthttp's request buffers, so it may be stored.
func ClientAddress(c *fiber.Ctx) string {
	peer := c.Context().RemoteIP().String()
	header := c.App().Config().ProxyHeader
	if header == "" || !c.IsProxyTrusted() {
		return peer
	}
	hops := strings.Split(c.Get(header), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		if ip := net.ParseIP(strings.TrimSpace(hops[i])); ip != nil {
			return ip.String()
		}
	}
	return peer
}
