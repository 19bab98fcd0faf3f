package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/obidyhasan/Job-Portal-Server-with-JWT/internal/model"
)

// RateLimiter keeps one token bucket per client
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	rate     rate.Limit
	burst    int
	idle     time.Duration
	clock    clockwork.Clock
	stopChan chan struct{}
	stopOnce sync.Once
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimitConfig holds rate limiter configuration
type RateLimitConfig struct {
	RPS     float64         // Sustained requests per second (default 10)
	Burst   int             // Max burst (default 20)
	Idle    time.Duration   // Buckets unused this long are dropped (default 10 minutes)
	Cleanup time.Duration   // Cleanup interval (default 5 minutes)
	Clock   clockwork.Clock // defaults to the real clock
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.RPS <= 0 {
		cfg.RPS = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	if cfg.Idle == 0 {
		cfg.Idle = 10 * time.Minute
	}
	if cfg.Cleanup == 0 {
		cfg.Cleanup = 5 * time.Minute
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}

	rl := &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		rate:     rate.Limit(cfg.RPS),
		burst:    cfg.Burst,
		idle:     cfg.Idle,
		clock:    cfg.Clock,
		stopChan: make(chan struct{}),
	}

	go rl.cleanupLoop(cfg.Cleanup)

	return rl
}

// Stop stops the cleanup goroutine
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stopChan) })
}

func (rl *RateLimiter) cleanupLoop(interval time.Duration) {
	ticker := rl.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.Chan():
			rl.cleanupIdle()
		case <-rl.stopChan:
			return
		}
	}
}

func (rl *RateLimiter) cleanupIdle() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := rl.clock.Now().Add(-rl.idle)
	for key, entry := range rl.limiters {
		if entry.lastSeen.Before(cutoff) {
			delete(rl.limiters, key)
		}
	}
}

// Allow takes one token from key's bucket. When the bucket is empty it
// reports how long until the next token is available.
func (rl *RateLimiter) Allow(key string) (allowed bool, remaining int, retryAfter time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.clock.Now()
	entry, exists := rl.limiters[key]
	if !exists {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.rate, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = now

	if entry.limiter.AllowN(now, 1) {
		return true, int(entry.limiter.TokensAt(now)), 0
	}

	missing := 1 - entry.limiter.TokensAt(now)
	wait := time.Duration(missing / float64(rl.rate) * float64(time.Second))
	return false, 0, wait
}

// Len returns the number of tracked clients
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

// RateLimit returns a middleware that limits requests per client address
func RateLimit(limiter *RateLimiter) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, retryAfter := limiter.Allow(clientKey(r))

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.burst))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				seconds := int(math.Ceil(retryAfter.Seconds()))
				if seconds < 1 {
					seconds = 1
				}
				w.Header().Set("Retry-After", strconv.Itoa(seconds))

				model.NewRateLimitError(seconds).WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientKey identifies the caller by host address without the port
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
