// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"dashpress/internal/backend"
	"dashpress/internal/session"

	"github.com/go-redis/redismock/v9"
)

// newTestSession creates a session.Data value suitable for testing.
func newTestSession() *session.Data {
	return &session.Data{
		UserID:      5,
		Email:       "ana@example.com",
		DisplayName: "Ana",
		TenantID:    "acme",
		Token:       "tok-123",
	}
}

// ctxWithSession returns a context carrying the given session data using
// the same context key the middleware uses.
func ctxWithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := newTestSession()
		ctx := ctxWithSession(context.Background(), sess)

		got := SessionFromCtx(ctx)
		if got == nil {
			t.Fatal("expected non-nil session, got nil")
		}
		if got.Email != sess.Email {
			t.Errorf("Email: got %q, want %q", got.Email, sess.Email)
		}
		if got.TenantID != sess.TenantID {
			t.Errorf("TenantID: got %q, want %q", got.TenantID, sess.TenantID)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

func TestLoadSession(t *testing.T) {
	t.Run("no cookie proceeds unauthenticated", func(t *testing.T) {
		client, _ := redismock.NewClientMock()
		store := session.NewStore(client, false)

		var gotSession *session.Data
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSession = SessionFromCtx(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		rr := httptest.NewRecorder()
		LoadSession(store)(inner).ServeHTTP(rr, req)

		if gotSession != nil {
			t.Errorf("expected no session, got %+v", gotSession)
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusOK)
		}
	})

	t.Run("valid session lands in context with backend token", func(t *testing.T) {
		client, mock := redismock.NewClientMock()
		store := session.NewStore(client, false)
		mock.ExpectGet("session:abc").SetVal(`{"user_id":5,"email":"ana@example.com","tenant_id":"acme","token":"tok-123"}`)

		var gotSession *session.Data
		var gotToken string
		inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSession = SessionFromCtx(r.Context())
			gotToken = backend.TokenFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: "abc"})
		rr := httptest.NewRecorder()
		LoadSession(store)(inner).ServeHTTP(rr, req)

		if gotSession == nil {
			t.Fatal("expected session in context")
		}
		if gotSession.TenantID != "acme" {
			t.Errorf("TenantID: got %q, want %q", gotSession.TenantID, "acme")
		}
		if gotToken != "tok-123" {
			t.Errorf("backend token: got %q, want %q", gotToken, "tok-123")
		}
	})
}

func TestRequireAuth(t *testing.T) {
	t.Run("redirects anonymous users to login", func(t *testing.T) {
		inner, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		rr := httptest.NewRecorder()

		RequireAuth(inner).ServeHTTP(rr, req)

		if *called {
			t.Error("next handler should not run for anonymous users")
		}
		if rr.Code != http.StatusSeeOther {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusSeeOther)
		}
		if loc := rr.Header().Get("Location"); loc != "/login" {
			t.Errorf("Location: got %q, want %q", loc, "/login")
		}
	})

	t.Run("passes authenticated users through", func(t *testing.T) {
		inner, called := okHandler()
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req = req.WithContext(ctxWithSession(req.Context(), newTestSession()))
		rr := httptest.NewRecorder()

		RequireAuth(inner).ServeHTTP(rr, req)

		if !*called {
			t.Error("next handler should have been called")
		}
		if rr.Code != http.StatusOK {
			t.Errorf("status: got %d, want %d", rr.Code, http.StatusOK)
		}
	})
}
