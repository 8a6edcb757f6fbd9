package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-redis/redismock/v9"
)

func TestDismiss(t *testing.T) {
	d := &Data{}
	d.Dismiss("pay-1")
	d.Dismiss("pay-1") // idempotent
	d.Dismiss("pay-2")

	if len(d.Dismissed) != 2 {
		t.Fatalf("Dismissed = %v, want 2 unique entries", d.Dismissed)
	}
	if !d.HasDismissed("pay-1") || !d.HasDismissed("pay-2") {
		t.Error("HasDismissed must report recorded dismissals")
	}
	if d.HasDismissed("pay-3") {
		t.Error("HasDismissed reported a never-dismissed payment")
	}
}

func TestCreate_SetsCookieAndStoresPayload(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, true)

	data := &Data{UserID: 5, Email: "x@y.z", TenantID: "t1", Token: "tok"}

	// The session id is random; match on any key/value for the Set.
	mock.Regexp().ExpectSet(`session:[0-9a-f]{64}`, `.*"tenant_id":"t1".*`, DefaultTTL).SetVal("OK")

	rec := httptest.NewRecorder()
	id, err := store.Create(context.Background(), rec, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(id) != 64 {
		t.Errorf("session id length = %d, want 64 hex chars", len(id))
	}

	cookies := rec.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != CookieName {
		t.Fatalf("cookies = %v, want one %s cookie", cookies, CookieName)
	}
	if !cookies[0].HttpOnly || !cookies[0].Secure {
		t.Error("session cookie must be HttpOnly and Secure")
	}
}

func TestGet_NoCookieMeansNoSession(t *testing.T) {
	client, _ := redismock.NewClientMock()
	store := NewStore(client, false)

	req := httptest.NewRequest("GET", "/", nil)
	data, err := store.Get(context.Background(), req)
	if err != nil || data != nil {
		t.Errorf("Get without cookie = (%v, %v), want (nil, nil)", data, err)
	}
}

func TestGet_RoundTripsPayload(t *testing.T) {
	client, mock := redismock.NewClientMock()
	store := NewStore(client, false)

	want := Data{UserID: 7, Email: "a@b.c", TenantID: "t9", Token: "jwt"}
	payload, _ := json.Marshal(want)
	mock.ExpectGet("session:abc").SetVal(string(payload))

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: "abc"})

	got, err := store.Get(context.Background(), req)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got == nil || got.TenantID != "t9" || got.Token != "jwt" {
		t.Errorf("Get = %+v, want %+v", got, want)
	}
}
