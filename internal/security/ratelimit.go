package security

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// RateLimiter throttles requests per client IP with fixed windows. It guards
// the two routes a stranger can hammer: code entry (session start) and the
// admin login.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	limit   int
	window  time.Duration
}

// bucket tracks one client's remaining budget for its current window. The
// window starts on the first request and resets, rather than slides, when it
// expires.
type bucket struct {
	remaining int
	windowEnd time.Time
}

// NewRateLimiter allows limit requests per window for each client IP and
// starts a background sweep of expired buckets.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*bucket),
		limit:   limit,
		window:  window,
	}
	go rl.sweep()
	return rl
}

// Allow reports whether one more request from ip fits in its current window,
// consuming budget when it does.
func (rl *RateLimiter) Allow(ip string) bool {
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok || !now.Before(b.windowEnd) {
		b = &bucket{remaining: rl.limit, windowEnd: now.Add(rl.window)}
		rl.buckets[ip] = b
	}
	if b.remaining == 0 {
		return false
	}
	b.remaining--
	return true
}

// sweep periodically drops buckets whose window is long over, so one-off
// visitors do not accumulate across the server's lifetime.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-rl.window)
		rl.mu.Lock()
		for ip, b := range rl.buckets {
			if b.windowEnd.Before(cutoff) {
				delete(rl.buckets, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// ClientIP picks the address buckets are keyed by: the first hop of
// X-Forwarded-For when a proxy set it, then X-Real-IP, then the socket
// address.
func ClientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		first, _, _ := strings.Cut(fwd, ",")
		return strings.TrimSpace(first)
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}
