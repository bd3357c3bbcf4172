package gateway

import (
	"context"
	"sync"
	"time"
)

// windowLimiter is a fixed-window request limiter. The mutex is held only
// around the check-and-update of the window state, never across a network
// call or a sleep, so concurrent callers interleave their bookkeeping without
// serializing I/O.
type windowLimiter struct {
	mu          sync.Mutex
	limit       int
	window      time.Duration
	count       int
	windowStart time.Time
}

func newWindowLimiter(limit int, window time.Duration) *windowLimiter {
	if limit <= 0 {
		limit = 100
	}
	if window <= 0 {
		window = time.Minute
	}
	return &windowLimiter{
		limit:       limit,
		window:      window,
		windowStart: time.Now(),
	}
}

// acquire blocks until the caller may initiate a request under the window
// limit, or until ctx is done.
func (l *windowLimiter) acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()
		if now.Sub(l.windowStart) >= l.window {
			l.windowStart = now
			l.count = 0
		}
		if l.count < l.limit {
			l.count++
			l.mu.Unlock()
			return nil
		}
		wait := l.window - now.Sub(l.windowStart)
		l.mu.Unlock()

		if err := sleepCtx(ctx, wait); err != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
