// Package ratelimit implements a per-client sliding-minute request
// limiter for the API surface.
package ratelimit

import (
	"net/http"
	"sync"
	"time"
)

type client struct {
	lastSeen time.Time
	requests int
}

// Limiter tracks request counts per remote address. Counters reset a
// minute after a client's last burst started; stale clients are evicted
// by a background sweep.
type Limiter struct {
	mu      sync.Mutex
	clients map[string]*client

	perMinute int
	stop      chan struct{}
	stopOnce  sync.Once
}

// Config holds rate limiter configuration.
type Config struct {
	RequestsPerMinute int
	SweepInterval     time.Duration
}

// DefaultConfig returns sensible defaults for a single-user ledger API.
func DefaultConfig() Config {
	return Config{
		RequestsPerMinute: 120,
		SweepInterval:     5 * time.Minute,
	}
}

// New creates a limiter and starts its sweep goroutine. Call Stop when
// the limiter is no longer needed.
func New(cfg Config) *Limiter {
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = DefaultConfig().RequestsPerMinute
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = DefaultConfig().SweepInterval
	}
	l := &Limiter{
		clients:   make(map[string]*client),
		perMinute: cfg.RequestsPerMinute,
		stop:      make(chan struct{}),
	}
	go l.sweep(cfg.SweepInterval)
	return l
}

// Allow reports whether another request from the given client fits
// within the limit.
func (l *Limiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	c, ok := l.clients[clientID]
	if !ok || now.Sub(c.lastSeen) > time.Minute {
		l.clients[clientID] = &client{lastSeen: now, requests: 1}
		return true
	}
	c.requests++
	c.lastSeen = now
	return c.requests <= l.perMinute
}

// ActiveClients returns the number of currently tracked clients.
func (l *Limiter) ActiveClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// Stop terminates the sweep goroutine.
func (l *Limiter) Stop() {
	l.stopOnce.Do(func() { close(l.stop) })
}

func (l *Limiter) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			l.evictStale()
		case <-l.stop:
			return
		}
	}
}

func (l *Limiter) evictStale() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := time.Now().Add(-10 * time.Minute)
	for id, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, id)
		}
	}
}

// Middleware returns HTTP middleware that rejects over-limit requests
// with 429. extractID maps a request to its client identity, typically
// the RemoteAddr after RealIP resolution.
func (l *Limiter) Middleware(extractID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.Allow(extractID(r)) {
				w.Header().Set("Retry-After", "60")
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
