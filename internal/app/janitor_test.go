package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	sessiondomain "finance-app-go/internal/domain/session"
	"finance-app-go/pkg/logger"
)

type countingCleaner struct {
	calls atomic.Int32
	err   error
}

func (c *countingCleaner) CleanupExpired(context.Context) (sessiondomain.CleanupResult, error) {
	c.calls.Add(1)
	return sessiondomain.CleanupResult{Sessions: 1}, c.err
}

func TestJanitorSweepsUntilCancelled(t *testing.T) {
	cleaner := &countingCleaner{}
	janitor := NewJanitor(cleaner, time.Millisecond, 5*time.Millisecond, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		janitor.Run(ctx)
		close(done)
	}()

	deadline := time.After(2 * time.Second)
	for cleaner.calls.Load() < 3 {
		select {
		case <-deadline:
			t.Fatalf("expected at least 3 sweeps, got %d", cleaner.calls.Load())
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}

func TestJanitorKeepsRunningAfterErrors(t *testing.T) {
	cleaner := &countingCleaner{err: errors.New("db down")}
	janitor := NewJanitor(cleaner, 0, time.Millisecond, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	janitor.Run(ctx)

	if cleaner.calls.Load() < 2 {
		t.Fatalf("expected repeated sweeps despite errors, got %d", cleaner.calls.Load())
	}
}

func TestJanitorStopsDuringDelay(t *testing.T) {
	cleaner := &countingCleaner{}
	janitor := NewJanitor(cleaner, time.Hour, time.Hour, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	janitor.Run(ctx)

	if cleaner.calls.Load() != 0 {
		t.Fatalf("expected no sweep, got %d", cleaner.calls.Load())
	}
}
