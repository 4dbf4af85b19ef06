package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginAttemptsPrefix = "login_attempts:"

// checkAttemptScript applies the same rules as MemoryLimiter atomically.
// Returns {allowed, retryAfterMs}.
var checkAttemptScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local window = tonumber(ARGV[2])
local max = tonumber(ARGV[3])
local count = tonumber(redis.call('HGET', KEYS[1], 'count') or '0')
local last = tonumber(redis.call('HGET', KEYS[1], 'last') or '0')
if count == 0 or now - last >= window then
  redis.call('HSET', KEYS[1], 'count', 1, 'last', ARGV[1])
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
  return {1, 0}
end
if count < max then
  redis.call('HSET', KEYS[1], 'count', count + 1, 'last', ARGV[1])
  redis.call('PEXPIRE', KEYS[1], ARGV[2])
  return {1, 0}
end
return {0, window - (now - last)}
`)

// RedisLimiter shares lockout state between processes.
type RedisLimiter struct {
	Rdb         *redis.Client
	Window      time.Duration
	MaxAttempts int
	Now         func() time.Time
}

func NewRedisLimiter(rdb *redis.Client) *RedisLimiter {
	return &RedisLimiter{Rdb: rdb, Window: LockoutWindow, MaxAttempts: MaxAttempts}
}

func (l *RedisLimiter) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *RedisLimiter) CheckAndRecordAttempt(ctx context.Context, address string) (Decision, error) {
	res, err := checkAttemptScript.Run(ctx, l.Rdb, []string{loginAttemptsPrefix + address},
		l.now().UnixMilli(), l.Window.Milliseconds(), l.MaxAttempts).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(res) != 2 {
		return Decision{}, fmt.Errorf("login limiter: unexpected script result %v", res)
	}
	if res[0] == 1 {
		return Decision{Allowed: true}, nil
	}
	return Decision{RetryAfter: time.Duration(res[1]) * time.Millisecond}, nil
}

func (l *RedisLimiter) Reset(ctx context.Context, address string) error {
	return l.Rdb.Del(ctx, loginAttemptsPrefix+address).Err()
}
