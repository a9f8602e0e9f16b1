package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/neboloop/mindsort/internal/httputil"
)

// sweepInterval is how often idle buckets are dropped.
const sweepInterval = time.Minute

// RateLimiter keeps one token bucket per client IP. Buckets that have
// refilled to full burst carry no state and are dropped on the next sweep.
type RateLimiter struct {
	mu        sync.Mutex
	limiters  map[string]*rate.Limiter
	limit     rate.Limit
	burst     int
	lastSweep time.Time
}

// NewRateLimiter allows requests per interval with the given burst.
func NewRateLimiter(requests int, interval time.Duration, burst int) *RateLimiter {
	if requests <= 0 {
		requests = 1
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if burst <= 0 {
		burst = requests
	}
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:     rate.Limit(float64(requests) / interval.Seconds()),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

func (rl *RateLimiter) limiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if now := time.Now(); now.Sub(rl.lastSweep) >= sweepInterval {
		rl.sweep(now)
	}
	l, ok := rl.limiters[key]
	if !ok {
		l = rate.NewLimiter(rl.limit, rl.burst)
		rl.limiters[key] = l
	}
	return l
}

// sweep drops buckets that are full at now. Callers hold rl.mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for key, l := range rl.limiters {
		if l.TokensAt(now) >= float64(rl.burst) {
			delete(rl.limiters, key)
		}
	}
	rl.lastSweep = now
}

// Middleware rejects requests over the limit with 429 and Retry-After.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := rl.limiter(clientIP(r)).Reserve()
		if delay := res.Delay(); delay > 0 {
			res.Cancel()
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			httputil.ErrorWithCode(w, http.StatusTooManyRequests, "too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
