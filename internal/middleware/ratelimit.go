package middleware

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig bounds how fast a single caller may hit the ACM API.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained refill rate per caller.
	RequestsPerSecond float64
	// Burst is how far a caller may run ahead of the sustained rate.
	Burst int
}

const (
	staleSweepEvery = 5 * time.Minute
	staleAfter      = 10 * time.Minute
)

// callerBuckets holds one token bucket per caller address. Cloud controllers
// talk to the ACM from a small, stable set of addresses, so the map stays
// tiny; a periodic sweep drops callers that went quiet.
type callerBuckets struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	buckets map[string]*callerBucket
}

type callerBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func (b *callerBuckets) get(addr string) *rate.Limiter {
	b.mu.Lock()
	defer b.mu.Unlock()
	if cb, ok := b.buckets[addr]; ok {
		cb.lastSeen = time.Now()
		return cb.limiter
	}
	cb := &callerBucket{
		limiter:  rate.NewLimiter(rate.Limit(b.cfg.RequestsPerSecond), b.cfg.Burst),
		lastSeen: time.Now(),
	}
	b.buckets[addr] = cb
	return cb.limiter
}

func (b *callerBuckets) sweep() {
	for {
		time.Sleep(staleSweepEvery)
		b.mu.Lock()
		for addr, cb := range b.buckets {
			if time.Since(cb.lastSeen) > staleAfter {
				delete(b.buckets, addr)
			}
		}
		b.mu.Unlock()
	}
}

// RateLimiter returns middleware enforcing a per-caller token bucket. An
// over-limit caller gets 429 with a Retry-After hint and an ACM-style error
// body.
func RateLimiter(cfg RateLimitConfig) func(http.Handler) http.Handler {
	buckets := &callerBuckets{cfg: cfg, buckets: map[string]*callerBucket{}}
	go buckets.sweep()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			limiter := buckets.get(callerAddr(r))

			reservation := limiter.Reserve()
			if !reservation.OK() {
				writeRateLimited(w, 0)
				return
			}
			if delay := reservation.Delay(); delay > 0 {
				reservation.Cancel()
				writeRateLimited(w, int(delay.Seconds())+1)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(int(limiter.Tokens())))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(time.Now().Add(time.Second).Unix(), 10))

			next.ServeHTTP(w, r)
		})
	}
}

// callerAddr keys the bucket by RemoteAddr without the port. X-Forwarded-For
// is ignored: a spoofed header must not buy a caller a fresh bucket.
func callerAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func writeRateLimited(w http.ResponseWriter, retryAfter int) {
	if retryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	}
	w.Header().Set("Content-Type", "application/json;charset=utf-8, schema=urn:acm:schemas:1.0")
	w.WriteHeader(http.StatusTooManyRequests)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":        http.StatusTooManyRequests,
		"description": "rate limit exceeded",
		"schema":      "urn:acm:schemas:1.0",
	})
}
