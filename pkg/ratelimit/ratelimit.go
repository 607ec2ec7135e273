package ratelimit

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/easycustoms360/backend/pkg/utils"
)

// Limiter is a fixed-window in-memory rate limiter keyed by caller identity.
type Limiter struct {
	limit  int
	window time.Duration
	mu     sync.Mutex
	items  map[string]*entry
}

type entry struct {
	windowStart time.Time
	count       int
}

func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		limit:  limit,
		window: window,
		items:  make(map[string]*entry),
	}
}

func (l *Limiter) Allow(key string) bool {
	if key == "" {
		return false
	}

	now := time.Now().UTC()
	l.mu.Lock()
	defer l.mu.Unlock()

	e := l.items[key]
	if e == nil || now.Sub(e.windowStart) > l.window {
		e = &entry{windowStart: now}
		l.items[key] = e
	}

	if e.count >= l.limit {
		return false
	}

	e.count++
	return true
}

// Middleware limits requests per client IP. chi's RealIP middleware should run
// before it so RemoteAddr reflects the forwarded address.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			key = host
		}
		if !l.Allow(key) {
			utils.RespondWithError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}
