package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func newTestLimiter(t *testing.T) (*RateLimiter, func()) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis.Run() error = %v", err)
	}

	client := NewFromAddr(mr.Addr())
	limiter := NewRateLimiter(client, "consensus")

	return limiter, func() {
		client.Close()
		mr.Close()
	}
}

func TestAllow_UnderLimit(t *testing.T) {
	limiter, cleanup := newTestLimiter(t)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		d, err := limiter.Allow(ctx, "analyze", 3, time.Minute)
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !d.Allowed {
			t.Errorf("request %d: allowed = false, want true", i+1)
		}
		if want := 3 - i - 1; d.Remaining != want {
			t.Errorf("request %d: remaining = %d, want %d", i+1, d.Remaining, want)
		}
	}
}

func TestAllow_OverLimit(t *testing.T) {
	limiter, cleanup := newTestLimiter(t)
	defer cleanup()

	ctx := context.Background()
	for i := 0; i < 2; i++ {
		if d, _ := limiter.Allow(ctx, "analyze", 2, time.Minute); !d.Allowed {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}

	d, err := limiter.Allow(ctx, "analyze", 2, time.Minute)
	if err != nil {
		t.Fatalf("Allow() error = %v", err)
	}
	if d.Allowed {
		t.Error("request over limit: allowed = true, want false")
	}
	if d.Remaining != 0 {
		t.Errorf("remaining = %d, want 0", d.Remaining)
	}
	if d.RetryAfter <= 0 || d.RetryAfter > time.Minute {
		t.Errorf("RetryAfter = %v, want within (0, 1m]", d.RetryAfter)
	}
}

// Bursts landing on the same millisecond must each count once.
func TestAllow_SameMillisecondBurst(t *testing.T) {
	limiter, cleanup := newTestLimiter(t)
	defer cleanup()

	ctx := context.Background()
	allowed := 0
	for i := 0; i < 10; i++ {
		d, err := limiter.Allow(ctx, "burst", 5, time.Minute)
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if d.Allowed {
			allowed++
		}
	}
	if allowed != 5 {
		t.Errorf("allowed = %d of 10, want exactly 5", allowed)
	}
}

func TestAllow_SeparateKeysIndependent(t *testing.T) {
	limiter, cleanup := newTestLimiter(t)
	defer cleanup()

	ctx := context.Background()
	if d, _ := limiter.Allow(ctx, "analyze", 1, time.Minute); !d.Allowed {
		t.Fatal("first analyze request should be allowed")
	}
	if d, _ := limiter.Allow(ctx, "analyze", 1, time.Minute); d.Allowed {
		t.Error("second analyze request should be denied")
	}
	if d, _ := limiter.Allow(ctx, "snapshot", 1, time.Minute); !d.Allowed {
		t.Error("snapshot window must not share the analyze counter")
	}
}

func TestAllow_DisabledRedisAllowsAll(t *testing.T) {
	client := &Client{enabled: false}
	limiter := NewRateLimiter(client, "consensus")

	for i := 0; i < 10; i++ {
		d, err := limiter.Allow(context.Background(), "analyze", 1, time.Second)
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if !d.Allowed {
			t.Errorf("request %d: disabled client must admit everything", i+1)
		}
	}
}
