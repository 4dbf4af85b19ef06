package middleware

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func corsApp(cfg CORSConfig) *fiber.App {
	app := fiber.New()
	app.Use(CORS(cfg))
	app.Get("/x", func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func TestCORS(t *testing.T) {
	app := corsApp(CORSConfig{AllowedSuffix: ".example.com", DevPassword: "letmein"})

	tests := []struct {
		name   string
		method string
		origin string
		devPw  string
		status int
	}{
		{"no origin", "GET", "", "", fiber.StatusOK},
		{"suffix match", "GET", "https://www.example.com", "", fiber.StatusOK},
		{"preflight", "OPTIONS", "https://www.example.com", "", fiber.StatusNoContent},
		{"foreign origin", "GET", "https://evil.test", "", fiber.StatusForbidden},
		{"apex domain", "GET", "https://example.com", "", fiber.StatusOK},
		{"suffix without dot boundary", "GET", "https://evilexample.com", "", fiber.StatusForbidden},
		{"suffix inside path", "GET", "https://evil.test/.example.com", "", fiber.StatusForbidden},
		{"subdomain with port", "GET", "https://rsvp.example.com:8443", "", fiber.StatusOK},
		{"dev password", "GET", "https://evil.test", "letmein", fiber.StatusOK},
		{"localhost in production", "GET", "http://localhost:3000", "", fiber.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/x", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			if tt.devPw != "" {
				req.Header.Set("dev-password", tt.devPw)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			if tt.status != fiber.StatusForbidden && tt.origin != "" {
				assert.Equal(t, tt.origin, resp.Header.Get("Access-Control-Allow-Origin"))
				assert.Equal(t, "true", resp.Header.Get("Access-Control-Allow-Credentials"))
			}
		})
	}
}

func TestCORS_LocalhostInDevelopment(t *testing.T) {
	app := corsApp(CORSConfig{AllowLocalhost: true})
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
