package response

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, app *fiber.App, path string) (int, string, map[string]interface{}) {
	resp, err := app.Test(httptest.NewRequest("GET", path, nil))
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(body, &out))
	return resp.StatusCode, resp.Header.Get("Retry-After"), out
}

func TestSuccess_Envelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return Success(c, "ok", fiber.Map{"a": 1}, nil) })

	code, _, out := decode(t, app, "/")
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, "success", out["status"])
	assert.Equal(t, "ok", out["message"])
	assert.Equal(t, float64(1), out["data"].(map[string]interface{})["a"])
}

func TestTooManyRequests_SetsRetryAfter(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		return TooManyRequests(c, "slow down", 899500*time.Millisecond)
	})

	code, retry, out := decode(t, app, "/")
	assert.Equal(t, fiber.StatusTooManyRequests, code)
	assert.Equal(t, "900", retry)
	errObj := out["error"].(map[string]interface{})
	assert.Equal(t, "slow down", errObj["message"])
	assert.Equal(t, float64(429), errObj["statusCode"])
	assert.Equal(t, float64(900), errObj["details"].(map[string]interface{})["retryAfter"])
}

func TestConflict_MarksRetryable(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error { return Conflict(c, "busy", true) })

	code, _, out := decode(t, app, "/")
	assert.Equal(t, fiber.StatusConflict, code)
	details := out["error"].(map[string]interface{})["details"].(map[string]interface{})
	assert.Equal(t, true, details["retryable"])
}
