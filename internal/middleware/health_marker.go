package middleware

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// Redis keys shared with the health endpoints.
const (
	KeyReqTotal  = "health:site:req_total"
	KeyReqErrors = "health:site:req_errors"
	KeyResTime   = "health:site:res_time_total"
	KeyResCount  = "health:site:res_count"
	KeyStartTime = "health:site:start_time"
	KeyLastReq   = "health:site:last_request"
	KeyErrorLog  = "health:site:error_log"

	errorLogSize = 50
)

// ErrorEntry is one line of the error log shown at /health/errors.
type ErrorEntry struct {
	Time    time.Time `json:"time"`
	TraceID string    `json:"traceId"`
	Method  string    `json:"method"`
	Path    string    `json:"path"`
	Status  int       `json:"status"`
	Message string    `json:"message"`
}

// RecordError pushes entry onto the capped error log. Failures are only logged.
func RecordError(ctx context.Context, rdb *redis.Client, entry ErrorEntry) {
	if rdb == nil {
		return
	}
	b, err := json.Marshal(entry)
	if err != nil {
		return
	}
	pipe := rdb.TxPipeline()
	pipe.LPush(ctx, KeyErrorLog, b)
	pipe.LTrim(ctx, KeyErrorLog, 0, errorLogSize-1)
	if _, err := pipe.Exec(ctx); err != nil {
		log.Warn().Err(err).Msg("health: error log write failed")
	}
}

// HealthMarker records request stats in Redis (skip /, /health*, favicon)
// and appends 5xx responses to the error log.
func HealthMarker(rdb *redis.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		if path == "/" || strings.HasPrefix(path, "/health") || strings.HasPrefix(path, "/favicon") {
			return c.Next()
		}

		start := time.Now()
		lastReq := map[string]interface{}{
			"time":   start,
			"path":   c.OriginalURL(),
			"method": c.Method(),
		}
		b, _ := json.Marshal(lastReq)
		ctx := context.Background()
		_, _ = rdb.Set(ctx, KeyLastReq, b, 0).Result()
		_, _ = rdb.Incr(ctx, KeyReqTotal).Result()

		err := c.Next()

		ms := time.Since(start).Milliseconds()
		_, _ = rdb.Incr(ctx, KeyResCount).Result()
		_, _ = rdb.IncrByFloat(ctx, KeyResTime, float64(ms)).Result()
		status := c.Response().StatusCode()
		message := ""
		if fe, ok := err.(*fiber.Error); ok {
			status, message = fe.Code, fe.Message
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}
		if status >= fiber.StatusInternalServerError {
			_, _ = rdb.Incr(ctx, KeyReqErrors).Result()
			if message == "" {
				message = utils.StatusMessage(status)
			}
			RecordError(ctx, rdb, ErrorEntry{
				Time:    start.UTC(),
				TraceID: GetTraceID(c),
				Method:  c.Method(),
				Path:    path,
				Status:  status,
				Message: message,
			})
		}
		return err
	}
}
