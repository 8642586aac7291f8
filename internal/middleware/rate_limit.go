package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/baharkarakas/blog-backend/internal/api/httpx"
)

type tokenBucket struct {
	tokens float64
	last   time.Time
}

// bucketIdleTTL is how long a client may stay silent before its bucket is
// dropped. Buckets refill within a second, so an evicted bucket was full.
const bucketIdleTTL = time.Minute

// limiter keeps one bucket per client address, each refilled at rate tokens
// per second up to rate. Idle buckets are swept at most once per bucketIdleTTL.
type limiter struct {
	mu        sync.Mutex
	rate      float64
	buckets   map[string]*tokenBucket
	now       func() time.Time
	lastSweep time.Time
}

func newLimiter(rps int, now func() time.Time) *limiter {
	return &limiter{rate: float64(rps), buckets: map[string]*tokenBucket{}, now: now, lastSweep: now()}
}

func (l *limiter) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= bucketIdleTTL {
		l.sweep(now)
	}
	b, ok := l.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: l.rate, last: now}
		l.buckets[key] = b
	}
	if elapsed := now.Sub(b.last).Seconds(); elapsed > 0 {
		b.tokens = min(l.rate, b.tokens+elapsed*l.rate)
		b.last = now
	}
	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

func (l *limiter) sweep(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.last) >= bucketIdleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}

// RateLimit throttles each client to rps requests per second. rps <= 0
// disables limiting.
func RateLimit(rps int) func(http.Handler) http.Handler {
	return rateLimit(rps, time.Now)
}

func rateLimit(rps int, now func() time.Time) func(http.Handler) http.Handler {
	if rps <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	l := newLimiter(rps, now)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(clientKey(r)) {
				w.Header().Set("Retry-After", "1")
				httpx.WriteError(w, http.StatusTooManyRequests, "rate_limited", "Too many requests", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
