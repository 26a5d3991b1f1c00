package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Pacer serializes upstream calls and enforces a minimum delay between
// consecutive ones. The provider quota is provider-wide, so a single Pacer
// instance is shared by every caller that talks to the same upstream.
type Pacer struct {
	mu       sync.Mutex
	interval time.Duration
	lastCall time.Time
	now      func() time.Time
}

func NewPacer(interval time.Duration) *Pacer {
	if interval < 0 {
		interval = 0
	}
	return &Pacer{
		interval: interval,
		now:      time.Now,
	}
}

// Wait blocks until at least the configured interval has elapsed since the
// previous claimed slot, then claims the next slot. Callers holding a slot
// are strictly sequential; there is never more than one inflight upstream
// call per Pacer.
func (p *Pacer) Wait(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.lastCall.IsZero() {
		remaining := p.interval - p.now().Sub(p.lastCall)
		if remaining > 0 {
			if err := sleepContext(ctx, remaining); err != nil {
				return err
			}
		}
	}

	p.lastCall = p.now()
	return nil
}

// Cooldown imposes an extra caller-chosen delay on top of the base interval.
// Loops that hit the most expensive upstream routes call this between
// iterations; the pause also pushes the next Wait slot forward.
func (p *Pacer) Cooldown(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := sleepContext(ctx, d); err != nil {
		return err
	}
	p.lastCall = p.now()
	return nil
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
