package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoginThrottleBlocksRepeatedAttempts(t *testing.T) {
	rl := NewRateLimiter(5, time.Minute)
	defer rl.Stop()

	for i := 0; i < 5; i++ {
		if !rl.allow("203.0.113.9") {
			t.Fatalf("login attempt %d should pass", i+1)
		}
	}
	if rl.allow("203.0.113.9") {
		t.Error("sixth attempt inside the window should be throttled")
	}
	if !rl.allow("203.0.113.10") {
		t.Error("a different client must not share the throttle")
	}
}

func TestLoginThrottleResetsAfterWindow(t *testing.T) {
	rl := NewRateLimiter(2, 80*time.Millisecond)
	defer rl.Stop()

	rl.allow("203.0.113.9")
	rl.allow("203.0.113.9")
	if rl.allow("203.0.113.9") {
		t.Fatal("third attempt should be throttled")
	}

	time.Sleep(120 * time.Millisecond)

	if !rl.allow("203.0.113.9") {
		t.Error("attempts should pass again once the window slides past")
	}
}

func TestRateLimiterMiddlewareReturns429(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	defer rl.Stop()

	var logins int
	handler := rl.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logins++
	}))

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "198.51.100.4:39812"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := post(); code != http.StatusOK {
		t.Fatalf("first login post = %d, want 200", code)
	}
	if code := post(); code != http.StatusOK {
		t.Fatalf("second login post = %d, want 200", code)
	}
	if code := post(); code != http.StatusTooManyRequests {
		t.Errorf("throttled login post = %d, want 429", code)
	}
	if logins != 2 {
		t.Errorf("handler ran %d times, throttled request must not reach it", logins)
	}
}

func TestClientIPPrefersProxyHeaders(t *testing.T) {
	tests := []struct {
		name       string
		xff        string
		xri        string
		remoteAddr string
		want       string
	}{
		{"direct", "", "", "198.51.100.4:39812", "198.51.100.4"},
		{"direct without port", "", "", "198.51.100.4", "198.51.100.4"},
		{"behind one proxy", "203.0.113.9", "", "10.0.0.2:443", "203.0.113.9"},
		{"behind proxy chain", "203.0.113.9, 10.0.0.2, 10.0.0.3", "", "10.0.0.3:443", "203.0.113.9"},
		{"real-ip header", "", "203.0.113.20", "10.0.0.2:443", "203.0.113.20"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/login", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if tt.xri != "" {
				req.Header.Set("X-Real-IP", tt.xri)
			}
			if got := clientIP(req); got != tt.want {
				t.Errorf("clientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSweepDropsIdleClients(t *testing.T) {
	rl := NewRateLimiter(5, 60*time.Millisecond)
	defer rl.Stop()

	rl.allow("203.0.113.9")
	rl.allow("203.0.113.10")

	time.Sleep(90 * time.Millisecond)
	rl.allow("203.0.113.10") // still active

	rl.sweep()

	rl.mu.RLock()
	_, idle := rl.visitors["203.0.113.9"]
	_, active := rl.visitors["203.0.113.10"]
	rl.mu.RUnlock()

	if idle {
		t.Error("idle client should be swept")
	}
	if !active {
		t.Error("active client should survive the sweep")
	}
}
