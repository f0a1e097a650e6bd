package http

import (
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const maxTrackedClients = 10000

// rateLimiter applies a per-client token bucket to the credential endpoints.
// A nil limiter allows everything.
type rateLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(perSecond float64, burst int) *rateLimiter {
	if perSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &rateLimiter{
		limit:   rate.Limit(perSecond),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}
}

func (rl *rateLimiter) allow(key string) bool {
	if rl == nil {
		return true
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	client, ok := rl.clients[key]
	if !ok {
		if len(rl.clients) >= maxTrackedClients {
			rl.prune()
		}
		client = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.clients[key] = client
	}
	client.lastSeen = time.Now()
	return client.limiter.Allow()
}

// prune drops clients idle long enough to have refilled their bucket.
// Caller holds the lock.
func (rl *rateLimiter) prune() {
	cutoff := time.Now().Add(-10 * time.Minute)
	for key, client := range rl.clients {
		if client.lastSeen.Before(cutoff) {
			delete(rl.clients, key)
		}
	}
}

func (rl *rateLimiter) middleware(next http.Handler) http.Handler {
	if rl == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientIP(r)
		if key == "" {
			key = r.RemoteAddr
		}
		if !rl.allow(key) {
			writeError(w, http.StatusTooManyRequests, "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}
