package retry

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func testPolicy(attempts int) Policy {
	return Policy{MaxAttempts: attempts, BaseDelay: time.Microsecond, Multiplier: 2}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := testPolicy(3).Do("op", func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	err := testPolicy(3).Do("op", func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do error: %v", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsAttempts(t *testing.T) {
	base := errors.New("connection refused")
	calls := 0
	err := testPolicy(3).Do("fetch", func() error {
		calls++
		return base
	})
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if err == nil || !errors.Is(err, base) {
		t.Fatalf("expected wrapped base error, got %v", err)
	}
	if !strings.Contains(err.Error(), "after 3 attempts") {
		t.Fatalf("error should report attempt count, got %v", err)
	}
}

func TestDoStopsOnPermanent(t *testing.T) {
	base := errors.New("404 not found")
	calls := 0
	err := testPolicy(5).Do("fetch", func() error {
		calls++
		return Permanent(base)
	})
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected base error, got %v", err)
	}
	if strings.Contains(err.Error(), "attempts") {
		t.Fatalf("permanent error should not be wrapped with attempts, got %v", err)
	}
}

func TestPermanentNil(t *testing.T) {
	if Permanent(nil) != nil {
		t.Fatal("Permanent(nil) must be nil")
	}
}
