package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestPacerWaitEnforcesMinimumDelay(t *testing.T) {
	t.Parallel()

	const interval = 30 * time.Millisecond
	pacer := NewPacer(interval)
	ctx := context.Background()

	if err := pacer.Wait(ctx); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	started := time.Now()
	if err := pacer.Wait(ctx); err != nil {
		t.Fatalf("second wait: %v", err)
	}
	if elapsed := time.Since(started); elapsed < interval-5*time.Millisecond {
		t.Fatalf("second wait returned after %v, want at least %v", elapsed, interval)
	}
}

func TestPacerFirstWaitDoesNotBlock(t *testing.T) {
	t.Parallel()

	pacer := NewPacer(time.Minute)

	started := time.Now()
	if err := pacer.Wait(context.Background()); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if elapsed := time.Since(started); elapsed > 100*time.Millisecond {
		t.Fatalf("first wait blocked for %v", elapsed)
	}
}

func TestPacerWaitHonorsContextCancellation(t *testing.T) {
	t.Parallel()

	pacer := NewPacer(time.Minute)
	if err := pacer.Wait(context.Background()); err != nil {
		t.Fatalf("first wait: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := pacer.Wait(ctx); err != context.DeadlineExceeded {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestPacerCooldownDelaysNextSlot(t *testing.T) {
	t.Parallel()

	pacer := NewPacer(10 * time.Millisecond)
	ctx := context.Background()

	if err := pacer.Cooldown(ctx, 25*time.Millisecond); err != nil {
		t.Fatalf("cooldown: %v", err)
	}

	started := time.Now()
	if err := pacer.Wait(ctx); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if elapsed := time.Since(started); elapsed < 5*time.Millisecond {
		t.Fatalf("wait after cooldown returned after %v, want the base interval", elapsed)
	}
}
