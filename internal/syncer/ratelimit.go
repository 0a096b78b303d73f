package syncer

import (
	"context"
	"sync"
	"time"

	"github.com/scrpay/txsync-backend/internal/metrics"
)

// waitBuffer pads the computed wait so a slot is really free when we retry.
const waitBuffer = time.Second

// RateLimiter bounds outbound fetch calls to max per sliding window. It is
// owned by the engine instance that uses it, never shared package state.
type RateLimiter struct {
	mu     sync.Mutex
	max    int
	window time.Duration
	stamps []time.Time
}

func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{max: max, window: window}
}

// Acquire blocks until one more outbound call is allowed. After sleeping it
// re-evaluates the window instead of assuming the single wait was enough.
func (l *RateLimiter) Acquire(ctx context.Context) error {
	for {
		l.mu.Lock()
		now := time.Now()
		cutoff := now.Add(-l.window)
		for len(l.stamps) > 0 && l.stamps[0].Before(cutoff) {
			l.stamps = l.stamps[1:]
		}
		if len(l.stamps) < l.max {
			l.stamps = append(l.stamps, now)
			l.mu.Unlock()
			return nil
		}
		wait := l.stamps[0].Add(l.window).Sub(now) + waitBuffer
		l.mu.Unlock()

		metrics.RateLimitWaits.Inc()
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
