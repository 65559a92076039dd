package http

import (
	"net/http"
	"sync"
	"time"

	"budget/internal/cache"
	"budget/internal/log"
)

const (
	maxTrackedClients = 10000
	cleanupInterval   = 5 * time.Minute
)

// rateLimiter is a fixed-window limiter keyed by client IP. Idle clients
// expire from the table after ten windows.
type rateLimiter struct {
	mu       sync.Mutex
	clients  *cache.LRU[string, *clientWindow]
	limit    int
	window   time.Duration
	now      func() time.Time
	done     chan struct{}
	stopOnce sync.Once
}

type clientWindow struct {
	start    time.Time
	requests int
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	rl := &rateLimiter{
		clients: cache.NewLRU[string, *clientWindow](maxTrackedClients, 10*window),
		limit:   limit,
		window:  window,
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

func (rl *rateLimiter) setClock(now func() time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.now = now
	rl.clients.SetClock(now)
}

func (rl *rateLimiter) sweep() {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			rl.clients.CleanExpired()
		case <-rl.done:
			return
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.stopOnce.Do(func() { close(rl.done) })
}

// allow reports whether another request from clientIP fits in its window.
func (rl *rateLimiter) allow(clientIP string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, ok := rl.clients.Get(clientIP)
	if !ok || now.Sub(w.start) > rl.window {
		rl.clients.Set(clientIP, &clientWindow{start: now, requests: 1})
		return true
	}
	w.requests++
	return w.requests <= rl.limit
}

// limitMutations rejects POST and DELETE requests over the limit. Reads are
// never limited.
func (rl *rateLimiter) limitMutations(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost && r.Method != http.MethodDelete {
			next.ServeHTTP(w, r)
			return
		}
		clientIP := extractClientIP(r)
		if !rl.allow(clientIP) {
			log.FromContext(r.Context()).WarnContext(r.Context(), "Rate limit exceeded",
				"client_ip", clientIP, log.FieldMethod, r.Method, log.FieldPath, r.URL.Path)
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
			return
		}
		next.ServeHTTP(w, r)
	})
}
