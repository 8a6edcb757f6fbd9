// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package render

import (
	"net/http/httptest"
	"strings"
	"testing"

	"dashpress/internal/session"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := New(true)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	return r
}

func TestNewParsesAllPages(t *testing.T) {
	r := newTestRenderer(t)

	want := []string{
		"login", "register", "home",
		"blogs", "blog_form",
		"events", "event_form",
		"categories",
		"formats", "format_form", "entries", "entry_form",
		"media", "media_form",
		"notifications", "settings",
	}
	have := map[string]bool{}
	for _, n := range r.TemplateNames() {
		have[n] = true
	}
	for _, n := range want {
		if !have[n] {
			t.Errorf("template %q not parsed", n)
		}
	}
}

func TestPageFullRender(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest("GET", "/dashboard/notifications", nil)
	w := httptest.NewRecorder()
	r.Page(w, req, "notifications", &PageData{
		Title:   "Notifications",
		Section: "home",
		Session: &session.Data{UserID: 1, Email: "ana@acme.test", TenantID: "acme"},
	})

	body := w.Body.String()
	if !strings.Contains(body, "<html") {
		t.Error("full render should include the base layout")
	}
	if !strings.Contains(body, "Notifications") {
		t.Error("page content missing from render")
	}
}

func TestPageHTMXRendersContentOnly(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest("GET", "/dashboard/notifications", nil)
	req.Header.Set("HX-Request", "true")
	w := httptest.NewRecorder()
	r.Page(w, req, "notifications", &PageData{Title: "Notifications"})

	body := w.Body.String()
	if strings.Contains(body, "<html") {
		t.Error("HTMX render should skip the base layout")
	}
	if !strings.Contains(body, "caught up") {
		t.Errorf("HTMX render missing content block, got: %.200s", body)
	}
}

func TestStandaloneLoginSkipsLayout(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest("GET", "/login", nil)
	w := httptest.NewRecorder()
	r.Page(w, req, "login", &PageData{Title: "Sign in"})

	body := w.Body.String()
	if !strings.Contains(body, "<html") {
		t.Error("login should render as a full standalone page")
	}
	if strings.Contains(body, "<aside") {
		t.Error("login must not include the dashboard chrome")
	}
}

func TestPageUnknownTemplate(t *testing.T) {
	r := newTestRenderer(t)

	req := httptest.NewRequest("GET", "/x", nil)
	w := httptest.NewRecorder()
	r.Page(w, req, "nope", &PageData{})

	if w.Code != 500 {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
