package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestWaitForReturnsContextError(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := WaitFor(ctx, time.Hour); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWaitForElapses(t *testing.T) {
	if err := WaitFor(context.Background(), time.Millisecond); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBackoff(t *testing.T) {
	t.Parallel()

	tests := []struct {
		attempt int
		expect  time.Duration
	}{
		{attempt: 0, expect: 500 * time.Millisecond},
		{attempt: 1, expect: 500 * time.Millisecond},
		{attempt: 3, expect: 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		if got := Backoff(500*time.Millisecond, tt.attempt); got != tt.expect {
			t.Fatalf("attempt %d: expected %s, got %s", tt.attempt, tt.expect, got)
		}
	}
}
