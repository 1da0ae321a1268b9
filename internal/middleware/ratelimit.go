package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

type visitor struct {
	connections int
	tokens      int
	lastRefill  time.Time
}

// Limits configures an IPRateLimiter.
type Limits struct {
	MaxConnsPerIP int           // simultaneous WebSocket connections per IP
	MsgRate       int           // messages allowed per MsgWindow
	MsgWindow     time.Duration // refill window for MsgRate
	Sweep         time.Duration // how often idle visitors are dropped
}

// IPRateLimiter tracks per-IP connection counts and message rates.
type IPRateLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limits   Limits
	now      func() time.Time
}

// NewIPRateLimiter creates a limiter. The sweeper stops when ctx is cancelled.
func NewIPRateLimiter(ctx context.Context, limits Limits) *IPRateLimiter {
	if limits.MsgWindow <= 0 {
		limits.MsgWindow = time.Second
	}
	if limits.Sweep <= 0 {
		limits.Sweep = 5 * time.Minute
	}
	rl := &IPRateLimiter{
		visitors: make(map[string]*visitor),
		limits:   limits,
		now:      time.Now,
	}
	go rl.sweep(ctx)
	return rl
}

func (rl *IPRateLimiter) visitorFor(ip string) *visitor {
	v, ok := rl.visitors[ip]
	if !ok {
		v = &visitor{tokens: rl.limits.MsgRate, lastRefill: rl.now()}
		rl.visitors[ip] = v
	}
	return v
}

// ConnectAllowed reserves a connection slot for ip if one is free.
func (rl *IPRateLimiter) ConnectAllowed(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v := rl.visitorFor(ip)
	if v.connections >= rl.limits.MaxConnsPerIP {
		return false
	}
	v.connections++
	return true
}

// Disconnect frees a connection slot for ip.
func (rl *IPRateLimiter) Disconnect(ip string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if v, ok := rl.visitors[ip]; ok && v.connections > 0 {
		v.connections--
	}
}

// MessageAllowed spends one token from ip's bucket. Buckets refill MsgRate
// tokens per elapsed MsgWindow, capped at MsgRate.
func (rl *IPRateLimiter) MessageAllowed(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	v := rl.visitorFor(ip)
	if elapsed := rl.now().Sub(v.lastRefill); elapsed >= rl.limits.MsgWindow {
		windows := int(elapsed / rl.limits.MsgWindow)
		v.tokens = min(rl.limits.MsgRate, v.tokens+windows*rl.limits.MsgRate)
		v.lastRefill = v.lastRefill.Add(time.Duration(windows) * rl.limits.MsgWindow)
	}
	if v.tokens <= 0 {
		return false
	}
	v.tokens--
	return true
}

func (rl *IPRateLimiter) sweep(ctx context.Context) {
	ticker := time.NewTicker(rl.limits.Sweep)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.dropIdle()
		case <-ctx.Done():
			return
		}
	}
}

func (rl *IPRateLimiter) dropIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for ip, v := range rl.visitors {
		if v.connections <= 0 {
			delete(rl.visitors, ip)
		}
	}
}

// RealIP extracts the client IP, preferring the first X-Forwarded-For hop.
func RealIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
