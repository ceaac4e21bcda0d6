package mw

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/MrSnakeDoc/bookmarks/internal/httpserver/respond"
	"github.com/MrSnakeDoc/bookmarks/internal/utils"
)

// RateLimitConfig sizes one token bucket per client IP.
type RateLimitConfig struct {
	Burst             int // bucket capacity, <= 0 disables limiting
	RefillPerIPPerMin int
	MaxEntries        int // tracked IPs before an early sweep
	SweepInterval     time.Duration
	IdleTTL           time.Duration
	TrustProxy        bool // resolve IP from proxy headers when true
}

// Enabled reports whether requests are limited at all.
func (c RateLimitConfig) Enabled() bool { return c.Burst > 0 }

func (c RateLimitConfig) withDefaults() RateLimitConfig {
	if c.SweepInterval <= 0 {
		c.SweepInterval = time.Minute
	}
	if c.IdleTTL <= 0 {
		c.IdleTTL = 15 * time.Minute
	}
	c.Burst = max(c.Burst, 1)
	c.RefillPerIPPerMin = max(c.RefillPerIPPerMin, 1)
	return c
}

// bucket holds the tokens of one client.
type bucket struct {
	mu       sync.Mutex
	tokens   float64
	refilled time.Time
	seen     time.Time
}

// take refills the bucket up to now and spends one token when it can.
// On refusal it returns the whole seconds until the next token.
func (b *bucket) take(now time.Time, perSec, capacity float64) (ok bool, left int, wait int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if dt := now.Sub(b.refilled).Seconds(); dt > 0 {
		b.tokens = math.Min(capacity, b.tokens+dt*perSec)
		b.refilled = now
	}
	if b.tokens < 1 {
		return false, 0, max(int(math.Ceil((1-b.tokens)/perSec)), 1)
	}
	b.tokens--
	b.seen = now
	return true, int(b.tokens), 0
}

type limiter struct {
	cfg      RateLimitConfig
	perSec   float64
	capacity float64

	mu        sync.Mutex
	clients   map[string]*bucket
	lastSweep time.Time
}

func newLimiter(cfg RateLimitConfig) *limiter {
	cfg = cfg.withDefaults()
	return &limiter{
		cfg:       cfg,
		perSec:    float64(cfg.RefillPerIPPerMin) / 60,
		capacity:  float64(cfg.Burst),
		clients:   make(map[string]*bucket),
		lastSweep: time.Now(),
	}
}

// allow spends a token from key's bucket.
func (l *limiter) allow(key string, now time.Time) (bool, int, int) {
	return l.bucketFor(key, now).take(now, l.perSec, l.capacity)
}

func (l *limiter) bucketFor(key string, now time.Time) *bucket {
	l.mu.Lock()
	defer l.mu.Unlock()

	full := l.cfg.MaxEntries > 0 && len(l.clients) >= l.cfg.MaxEntries
	if full || now.Sub(l.lastSweep) >= l.cfg.SweepInterval {
		l.evictIdle(now)
	}

	b, ok := l.clients[key]
	if !ok {
		b = &bucket{tokens: l.capacity, refilled: now, seen: now}
		l.clients[key] = b
	}
	return b
}

// evictIdle drops clients unseen for IdleTTL. Caller holds l.mu.
func (l *limiter) evictIdle(now time.Time) {
	for key, b := range l.clients {
		b.mu.Lock()
		idle := now.Sub(b.seen) > l.cfg.IdleTTL
		b.mu.Unlock()
		if idle {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// RateLimit rejects clients that exhausted their bucket with 429 and a Retry-After header.
func RateLimit(cfg RateLimitConfig) func(http.Handler) http.Handler {
	if !cfg.Enabled() {
		return func(next http.Handler) http.Handler { return next }
	}
	l := newLimiter(cfg)
	limit := strconv.Itoa(cfg.Burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, left, wait := l.allow(utils.ClientIP(r, l.cfg.TrustProxy), time.Now())

			// set before next writes its status line
			h := w.Header()
			h.Set("X-RateLimit-Limit", limit)
			h.Set("X-RateLimit-Remaining", strconv.Itoa(left))
			if !ok {
				h.Set("Retry-After", strconv.Itoa(wait))
				respond.Error(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
