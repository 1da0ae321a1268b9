package middleware

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, limits Limits) (*IPRateLimiter, *time.Time) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	rl := NewIPRateLimiter(ctx, limits)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }
	return rl, &now
}

func TestConnectionCap(t *testing.T) {
	rl, _ := newTestLimiter(t, Limits{MaxConnsPerIP: 2, MsgRate: 10})
	if !rl.ConnectAllowed("1.2.3.4") || !rl.ConnectAllowed("1.2.3.4") {
		t.Fatal("first two connections rejected")
	}
	if rl.ConnectAllowed("1.2.3.4") {
		t.Fatal("third connection allowed")
	}
	if !rl.ConnectAllowed("5.6.7.8") {
		t.Fatal("other IP rejected")
	}
	rl.Disconnect("1.2.3.4")
	if !rl.ConnectAllowed("1.2.3.4") {
		t.Fatal("slot not freed by disconnect")
	}
}

func TestMessageBucketRefills(t *testing.T) {
	rl, now := newTestLimiter(t, Limits{MaxConnsPerIP: 1, MsgRate: 3, MsgWindow: time.Second})
	for i := 0; i < 3; i++ {
		if !rl.MessageAllowed("ip") {
			t.Fatalf("message %d rejected", i)
		}
	}
	if rl.MessageAllowed("ip") {
		t.Fatal("bucket did not run dry")
	}

	*now = now.Add(500 * time.Millisecond)
	if rl.MessageAllowed("ip") {
		t.Fatal("refilled before the window elapsed")
	}
	*now = now.Add(600 * time.Millisecond)
	for i := 0; i < 3; i++ {
		if !rl.MessageAllowed("ip") {
			t.Fatalf("after refill, message %d rejected", i)
		}
	}

	// long idle refills to the cap, not beyond
	*now = now.Add(time.Hour)
	allowed := 0
	for i := 0; i < 10; i++ {
		if rl.MessageAllowed("ip") {
			allowed++
		}
	}
	if allowed != 3 {
		t.Fatalf("allowed %d after idle, want 3", allowed)
	}
}

func TestDropIdle(t *testing.T) {
	rl, _ := newTestLimiter(t, Limits{MaxConnsPerIP: 1, MsgRate: 1})
	rl.ConnectAllowed("busy")
	rl.MessageAllowed("idle")
	rl.dropIdle()
	if _, ok := rl.visitors["idle"]; ok {
		t.Fatal("idle visitor kept")
	}
	if _, ok := rl.visitors["busy"]; !ok {
		t.Fatal("connected visitor dropped")
	}
}

func TestRealIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/ws", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	if got := RealIP(r); got != "10.0.0.1" {
		t.Fatalf("got %q", got)
	}
	r.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	if got := RealIP(r); got != "203.0.113.9" {
		t.Fatalf("got %q", got)
	}
}
