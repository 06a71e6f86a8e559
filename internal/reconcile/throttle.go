package reconcile

import (
	"context"
	"time"
)

// DefaultDelay is the pause after each mutating GitHub call.
const DefaultDelay = time.Second

// throttle pauses between mutating calls. A zero delay disables it.
type throttle struct {
	delay time.Duration
	after func(time.Duration) <-chan time.Time
}

func newThrottle(delay time.Duration) *throttle {
	return &throttle{delay: delay, after: time.After}
}

// wait blocks for the configured delay, returning early with the context
// error if ctx is cancelled.
func (t *throttle) wait(ctx context.Context) error {
	if t == nil || t.delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.after(t.delay):
		return nil
	}
}
