// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
	"sync"
	"time"
)

// visitor holds the recent hit times for one client address.
type visitor struct {
	mu   sync.Mutex
	hits []time.Time
}

// RateLimiter throttles requests per client IP over a sliding window.
// The router mounts it on the login POST only; authenticated traffic is
// never limited.
type RateLimiter struct {
	mu       sync.RWMutex
	visitors map[string]*visitor
	limit    int
	window   time.Duration
	done     chan struct{}
}

// NewRateLimiter allows limit requests per window for each client and
// sweeps idle clients in the background until Stop is called.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    limit,
		window:   window,
		done:     make(chan struct{}),
	}

	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rl.sweep()
			case <-rl.done:
				return
			}
		}
	}()

	return rl
}

// Stop ends the background sweep goroutine.
func (rl *RateLimiter) Stop() {
	close(rl.done)
}

// allow records a hit for key and reports whether it stays under the limit.
func (rl *RateLimiter) allow(key string) bool {
	rl.mu.RLock()
	v := rl.visitors[key]
	rl.mu.RUnlock()

	if v == nil {
		rl.mu.Lock()
		if v = rl.visitors[key]; v == nil {
			v = &visitor{}
			rl.visitors[key] = v
		}
		rl.mu.Unlock()
	}

	now := time.Now()
	cutoff := now.Add(-rl.window)

	v.mu.Lock()
	defer v.mu.Unlock()

	kept := v.hits[:0]
	for _, h := range v.hits {
		if h.After(cutoff) {
			kept = append(kept, h)
		}
	}
	v.hits = kept

	if len(v.hits) >= rl.limit {
		return false
	}
	v.hits = append(v.hits, now)
	return true
}

// sweep drops clients whose hits have all aged out of the window.
func (rl *RateLimiter) sweep() {
	cutoff := time.Now().Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, v := range rl.visitors {
		v.mu.Lock()
		active := false
		for _, h := range v.hits {
			if h.After(cutoff) {
				active = true
				break
			}
		}
		v.mu.Unlock()

		if !active {
			delete(rl.visitors, key)
		}
	}
}

// Middleware rejects over-limit clients with 429 before the handler runs.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(clientIP(r)) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// clientIP resolves the originating address, preferring proxy headers.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// The first hop is the original client.
		if i := strings.IndexByte(xff, ','); i != -1 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i != -1 {
		return addr[:i]
	}
	return addr
}
