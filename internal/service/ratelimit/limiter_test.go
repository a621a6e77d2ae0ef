package ratelimit

import (
	"context"
	"testing"
	"time"
)

func TestAllowConsumesTokens(t *testing.T) {
	l := New()

	for i := 0; i < 3; i++ {
		if !l.Allow("api", 3, 0) {
			t.Fatalf("expected token %d to be available", i)
		}
	}
	if l.Allow("api", 3, 0) {
		t.Fatal("expected bucket to be exhausted")
	}
}

func TestAllowIndependentKeys(t *testing.T) {
	l := New()

	if !l.Allow("a", 1, 0) {
		t.Fatal("expected token for key a")
	}
	if l.Allow("a", 1, 0) {
		t.Fatal("expected key a exhausted")
	}
	if !l.Allow("b", 1, 0) {
		t.Fatal("expected independent bucket for key b")
	}
}

func TestWaitCanceled(t *testing.T) {
	l := New()
	if !l.Allow("api", 1, 0) {
		t.Fatal("expected initial token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := l.Wait(ctx, "api", 1, 0); err == nil {
		t.Fatal("expected context error from Wait on empty bucket")
	}
}
