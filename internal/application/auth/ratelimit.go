package auth

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"
)

const (
	LockoutWindow = 15 * time.Minute
	MaxAttempts   = 5
)

// Decision is the outcome of one login attempt check.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

func (d Decision) RetryAfterSeconds() int {
	return int(math.Ceil(d.RetryAfter.Seconds()))
}

// LoginLimiter tracks login attempts per client address.
type LoginLimiter interface {
	CheckAndRecordAttempt(ctx context.Context, address string) (Decision, error)
	Reset(ctx context.Context, address string) error
}

type attemptRecord struct {
	count int
	last  time.Time
}

// MemoryLimiter is a single-process limiter. Counters are lost on restart.
type MemoryLimiter struct {
	Window      time.Duration
	MaxAttempts int
	Now         func() time.Time

	mu       sync.Mutex
	attempts map[string]*attemptRecord
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		Window:      LockoutWindow,
		MaxAttempts: MaxAttempts,
		attempts:    make(map[string]*attemptRecord),
	}
}

func (l *MemoryLimiter) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

func (l *MemoryLimiter) CheckAndRecordAttempt(_ context.Context, address string) (Decision, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.attempts == nil {
		l.attempts = make(map[string]*attemptRecord)
	}

	now := l.now()
	rec, ok := l.attempts[address]
	if !ok || now.Sub(rec.last) >= l.Window {
		l.attempts[strings.Clone(address)] = &attemptRecord{count: 1, last: now}
		return Decision{Allowed: true}, nil
	}
	if rec.count < l.MaxAttempts {
		rec.count++
		rec.last = now
		return Decision{Allowed: true}, nil
	}
	return Decision{RetryAfter: l.Window - now.Sub(rec.last)}, nil
}

func (l *MemoryLimiter) Reset(_ context.Context, address string) error {
	l.mu.Lock()
	delete(l.attempts, address)
	l.mu.Unlock()
	return nil
}

// Sweep drops records whose window has passed and returns how many were removed.
func (l *MemoryLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	n := 0
	for addr, rec := range l.attempts {
		if now.Sub(rec.last) >= l.Window {
			delete(l.attempts, addr)
			n++
		}
	}
	return n
}

// RunSweeper sweeps every interval until ctx is done.
func (l *MemoryLimiter) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.Sweep()
		}
	}
}
