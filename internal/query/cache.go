// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package query provides the read-side cache between the services and
// the backend client. It de-duplicates concurrent identical requests,
// serves stale data while refetching in the background, and supports
// prefix invalidation after mutations. Mutations themselves never go
// through this cache.
package query

import (
	"context"
	"log/slog"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"dashpress/internal/backend"
	"dashpress/internal/metrics"
)

const (
	// DefaultFreshTTL is how long a cached result is served without
	// refetching.
	DefaultFreshTTL = 30 * time.Second

	// DefaultStaleTTL is how long past freshness a result may still be
	// served while a background refresh runs. Beyond it the fetch is
	// synchronous again.
	DefaultStaleTTL = 5 * time.Minute
)

// FetchFunc loads the value for a key from the backend.
type FetchFunc func(ctx context.Context) (any, error)

// entry is one cached result with its fetch timestamp.
type entry struct {
	value     any
	fetchedAt time.Time
}

// Cache implements stale-while-revalidate caching with request
// de-duplication. Keys are canonical strings built by the services
// (entity prefix + encoded query).
type Cache struct {
	store    *gocache.Cache
	group    singleflight.Group
	freshTTL time.Duration
	staleTTL time.Duration
}

// New creates a cache with the given freshness windows. Zero durations
// fall back to the defaults.
func New(freshTTL, staleTTL time.Duration) *Cache {
	if freshTTL == 0 {
		freshTTL = DefaultFreshTTL
	}
	if staleTTL == 0 {
		staleTTL = DefaultStaleTTL
	}
	return &Cache{
		store:    gocache.New(freshTTL+staleTTL, 10*time.Minute),
		freshTTL: freshTTL,
		staleTTL: staleTTL,
	}
}

// Fetch returns the value for key. A fresh hit is returned immediately.
// A stale hit is returned immediately while one background refresh runs.
// A miss fetches synchronously; concurrent misses for the same key
// collapse into a single backend call.
func (c *Cache) Fetch(ctx context.Context, key string, fn FetchFunc) (any, error) {
	if raw, ok := c.store.Get(key); ok {
		ent := raw.(entry)
		age := time.Since(ent.fetchedAt)
		if age <= c.freshTTL {
			metrics.CacheEvents.WithLabelValues("hit").Inc()
			return ent.value, nil
		}
		// Stale: serve immediately, refresh in the background. The
		// refresh uses a detached context so navigating away does not
		// cancel it mid-flight, but it still needs the caller's bearer
		// token or the refetch comes back 401.
		metrics.CacheEvents.WithLabelValues("stale").Inc()
		go c.refresh(key, backend.TokenFromContext(ctx), fn)
		return ent.value, nil
	}

	metrics.CacheEvents.WithLabelValues("miss").Inc()
	val, err, _ := c.group.Do(key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			return nil, err
		}
		c.store.Set(key, entry{value: value, fetchedAt: time.Now()}, c.freshTTL+c.staleTTL)
		return value, nil
	})
	return val, err
}

// refresh refetches a stale key in the background, keeping the stale
// value on failure. singleflight guarantees one refresh per key.
func (c *Cache) refresh(key, token string, fn FetchFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if token != "" {
		ctx = backend.ContextWithToken(ctx, token)
	}

	_, _, _ = c.group.Do(key, func() (any, error) {
		value, err := fn(ctx)
		if err != nil {
			slog.Debug("background refresh failed", "key", key, "error", err)
			return nil, err
		}
		c.store.Set(key, entry{value: value, fetchedAt: time.Now()}, c.freshTTL+c.staleTTL)
		return value, nil
	})
}

// Invalidate removes every key starting with any of the given prefixes.
// Called by services after a successful mutation.
func (c *Cache) Invalidate(prefixes ...string) {
	for key := range c.store.Items() {
		for _, p := range prefixes {
			if strings.HasPrefix(key, p) {
				c.store.Delete(key)
				break
			}
		}
	}
}

// Clear wipes the entire cache synchronously. Called on logout before
// the redirect so no tenant data survives into the next session.
func (c *Cache) Clear() {
	c.store.Flush()
}

// Key builds a canonical cache key from an entity prefix and the
// encoded query parameters.
func Key(prefix string, parts ...string) string {
	if len(parts) == 0 {
		return prefix
	}
	return prefix + ":" + strings.Join(parts, ":")
}
