// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"dashpress/internal/backend"
)

func TestFetch_MissThenFreshHit(t *testing.T) {
	c := New(time.Minute, time.Hour)
	var calls atomic.Int32

	fn := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "v1", nil
	}

	for i := 0; i < 3; i++ {
		got, err := c.Fetch(context.Background(), "blogs:list", fn)
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		if got != "v1" {
			t.Fatalf("Fetch = %v, want v1", got)
		}
	}
	if n := calls.Load(); n != 1 {
		t.Errorf("backend called %d times, want 1", n)
	}
}

func TestFetch_ConcurrentMissesCollapse(t *testing.T) {
	c := New(time.Minute, time.Hour)
	var calls atomic.Int32

	fn := func(ctx context.Context) (any, error) {
		calls.Add(1)
		time.Sleep(50 * time.Millisecond)
		return "v", nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := c.Fetch(context.Background(), "k", fn); err != nil {
				t.Errorf("Fetch: %v", err)
			}
		}()
	}
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Errorf("backend called %d times for identical in-flight requests, want 1", n)
	}
}

func TestFetch_StaleServedWhileRevalidating(t *testing.T) {
	c := New(10*time.Millisecond, time.Hour)
	var calls atomic.Int32

	fn := func(ctx context.Context) (any, error) {
		n := calls.Add(1)
		if n == 1 {
			return "old", nil
		}
		return "new", nil
	}

	if _, err := c.Fetch(context.Background(), "k", fn); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	time.Sleep(30 * time.Millisecond) // let the entry go stale

	// The stale value comes back immediately; the refresh runs behind it.
	got, err := c.Fetch(context.Background(), "k", fn)
	if err != nil {
		t.Fatalf("Fetch stale: %v", err)
	}
	if got != "old" {
		t.Errorf("stale fetch = %v, want old value served immediately", got)
	}

	// Eventually the refreshed value is visible.
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		got, _ = c.Fetch(context.Background(), "k", fn)
		if got == "new" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("refreshed value never appeared, last = %v", got)
}

func TestFetch_BackgroundRefreshKeepsToken(t *testing.T) {
	c := New(10*time.Millisecond, time.Hour)

	var mu sync.Mutex
	var tokens []string
	fn := func(ctx context.Context) (any, error) {
		mu.Lock()
		tokens = append(tokens, backend.TokenFromContext(ctx))
		mu.Unlock()
		return "v", nil
	}

	ctx := backend.ContextWithToken(context.Background(), "session-token")
	if _, err := c.Fetch(ctx, "k", fn); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	time.Sleep(30 * time.Millisecond) // let the entry go stale

	if _, err := c.Fetch(ctx, "k", fn); err != nil {
		t.Fatalf("Fetch stale: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(tokens)
		mu.Unlock()
		if n >= 2 {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(tokens) < 2 {
		t.Fatal("background refresh never ran")
	}
	for i, tok := range tokens {
		if tok != "session-token" {
			t.Errorf("fetch %d saw token %q, want the session's bearer token", i, tok)
		}
	}
}

func TestFetch_ErrorNotCached(t *testing.T) {
	c := New(time.Minute, time.Hour)
	var calls atomic.Int32

	fn := func(ctx context.Context) (any, error) {
		if calls.Add(1) == 1 {
			return nil, errors.New("boom")
		}
		return "ok", nil
	}

	if _, err := c.Fetch(context.Background(), "k", fn); err == nil {
		t.Fatal("expected error from first fetch")
	}
	got, err := c.Fetch(context.Background(), "k", fn)
	if err != nil || got != "ok" {
		t.Errorf("retry after error = %v, %v; want ok", got, err)
	}
}

func TestInvalidate_ByPrefix(t *testing.T) {
	c := New(time.Minute, time.Hour)
	var calls atomic.Int32

	fn := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "v", nil
	}

	c.Fetch(context.Background(), "blogs:list:p1", fn)
	c.Fetch(context.Background(), "blogs:item:7", fn)
	c.Fetch(context.Background(), "events:list:p1", fn)

	c.Invalidate("blogs:")

	c.Fetch(context.Background(), "blogs:list:p1", fn)
	c.Fetch(context.Background(), "events:list:p1", fn)

	// 3 initial + 1 refetch of the invalidated blogs key.
	if n := calls.Load(); n != 4 {
		t.Errorf("backend called %d times, want 4", n)
	}
}

func TestClear_WipesEverything(t *testing.T) {
	c := New(time.Minute, time.Hour)
	var calls atomic.Int32

	fn := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "v", nil
	}

	c.Fetch(context.Background(), "a", fn)
	c.Fetch(context.Background(), "b", fn)
	c.Clear()
	c.Fetch(context.Background(), "a", fn)
	c.Fetch(context.Background(), "b", fn)

	if n := calls.Load(); n != 4 {
		t.Errorf("backend called %d times, want 4 after Clear", n)
	}
}

func TestKey(t *testing.T) {
	if got := Key("blogs"); got != "blogs" {
		t.Errorf("Key = %q", got)
	}
	if got := Key("blogs", "t1", "page=2"); got != "blogs:t1:page=2" {
		t.Errorf("Key = %q", got)
	}
}
