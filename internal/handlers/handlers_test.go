// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redismock/v9"

	"dashpress/internal/backend"
	"dashpress/internal/middleware"
	"dashpress/internal/models"
	"dashpress/internal/prefs"
	"dashpress/internal/query"
	"dashpress/internal/render"
	"dashpress/internal/services"
	"dashpress/internal/session"
)

// newTestDashboard wires a Dashboard handler group against a fake
// backend. Prefs run on a Valkey mock with no expectations — the store
// degrades to defaults on errors, which is the behavior list handlers
// rely on. Activity and storage stay nil.
func newTestDashboard(t *testing.T, backendHandler http.Handler) *Dashboard {
	t.Helper()
	srv := httptest.NewServer(backendHandler)
	t.Cleanup(srv.Close)

	renderer, err := render.New(true)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	valkey, _ := redismock.NewClientMock()
	client := backend.New(srv.URL, "")
	cache := query.New(time.Minute, 5*time.Minute)
	svc := services.New(client, cache)

	return NewDashboard(renderer, session.NewStore(valkey, false), prefs.NewStore(valkey), svc, nil, nil)
}

func withSession(r *http.Request) *http.Request {
	data := &session.Data{UserID: 5, Email: "ana@example.com", DisplayName: "Ana", TenantID: "acme", Token: "tok"}
	return r.WithContext(context.WithValue(r.Context(), middleware.SessionKey, data))
}

func writeListEnvelope(w http.ResponseWriter, items any, total int) {
	json.NewEncoder(w).Encode(map[string]any{
		"data": items,
		"meta": map[string]any{
			"pagination": map[string]any{"page": 1, "pageSize": 25, "pageCount": 1, "total": total},
		},
	})
}

func writeDataEnvelope(w http.ResponseWriter, v any) {
	json.NewEncoder(w).Encode(map[string]any{"data": v})
}

func TestBlogsListShowsPosts(t *testing.T) {
	h := newTestDashboard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/blogs":
			writeListEnvelope(w, []models.Blog{
				{ID: 1, Title: "Spring opening hours", TenantID: "acme"},
				{ID: 2, Title: "New menu announced", TenantID: "acme"},
			}, 2)
		default:
			writeListEnvelope(w, []any{}, 0)
		}
	}))

	req := withSession(httptest.NewRequest(http.MethodGet, "/dashboard/blog", nil))
	rr := httptest.NewRecorder()
	h.BlogsList(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, title := range []string{"Spring opening hours", "New menu announced"} {
		if !strings.Contains(body, title) {
			t.Errorf("body missing post title %q", title)
		}
	}
}

func TestBlogsListResetsPageWhenFilterChanges(t *testing.T) {
	var gotPage string
	h := newTestDashboard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/blogs" {
			gotPage = r.URL.Query().Get("pagination[page]")
		}
		writeListEnvelope(w, []any{}, 0)
	}))

	// The previous view was page 4 with no search; this request carries
	// a new search term, so the page must snap back to 1.
	q := url.Values{}
	q.Set("page", "4")
	q.Set("search", "menu")
	q.Set("prev", url.Values{"page": {"4"}}.Encode())
	req := withSession(httptest.NewRequest(http.MethodGet, "/dashboard/blog?"+q.Encode(), nil))
	h.BlogsList(httptest.NewRecorder(), req)

	if gotPage != "1" {
		t.Errorf("backend page = %q, want 1 after filter change", gotPage)
	}
}

func TestBlogsListKeepsPageWhenFiltersUnchanged(t *testing.T) {
	var gotPage string
	h := newTestDashboard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/blogs" {
			gotPage = r.URL.Query().Get("pagination[page]")
		}
		writeListEnvelope(w, []any{}, 0)
	}))

	q := url.Values{}
	q.Set("page", "4")
	q.Set("search", "menu")
	q.Set("prev", url.Values{"page": {"3"}, "search": {"menu"}}.Encode())
	req := withSession(httptest.NewRequest(http.MethodGet, "/dashboard/blog?"+q.Encode(), nil))
	h.BlogsList(httptest.NewRecorder(), req)

	if gotPage != "4" {
		t.Errorf("backend page = %q, want 4 when only the page moved", gotPage)
	}
}

func TestBlogDeleteStepsBackWhenPageEmptied(t *testing.T) {
	h := newTestDashboard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodDelete:
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Path == "/blogs/9":
			writeDataEnvelope(w, models.Blog{ID: 9, Title: "Old post", TenantID: "acme"})
		default:
			writeListEnvelope(w, []any{}, 0)
		}
	}))

	router := chi.NewRouter()
	router.Post("/dashboard/blog/{id}/delete", h.BlogDelete)

	form := url.Values{"page": {"3"}, "items_on_page": {"1"}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/blog/9/delete", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, withSession(req))

	if rr.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/dashboard/blog?page=2" {
		t.Errorf("Location = %q, want /dashboard/blog?page=2", loc)
	}
}

func TestBlogCreateRejectsMissingTitle(t *testing.T) {
	backendCalls := 0
	h := newTestDashboard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			backendCalls++
		}
		writeListEnvelope(w, []any{}, 0)
	}))

	form := url.Values{"title": {""}, "content": {"body"}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/blog", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.BlogCreate(rr, withSession(req))

	if backendCalls != 0 {
		t.Error("invalid form must not reach the backend")
	}
	if !strings.Contains(rr.Body.String(), "Title is required") {
		t.Error("body missing the title validation message")
	}
}

func TestBlogCreateNormalizesTags(t *testing.T) {
	var sentTags string
	h := newTestDashboard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			var envelope struct {
				Data models.Blog `json:"data"`
			}
			json.NewDecoder(r.Body).Decode(&envelope)
			sentTags = envelope.Data.Tags
			writeDataEnvelope(w, envelope.Data)
			return
		}
		writeListEnvelope(w, []any{}, 0)
	}))

	form := url.Values{
		"title":   {"Go tips"},
		"content": {"body"},
		"tags":    {" go,  web , go ,, tips"},
	}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/blog", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.BlogCreate(rr, withSession(req))

	if sentTags != "go, web, tips" {
		t.Errorf("tags = %q, want trimmed and de-duplicated %q", sentTags, "go, web, tips")
	}
}

func TestEventFormNormalizesSpeakerLists(t *testing.T) {
	form := url.Values{
		"title":           {"Meetup"},
		"speakers":        {"Ana, Ana ,  Bogdan "},
		"target_audience": {"devs,, devs , ops"},
	}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/event", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	e := eventFromForm(req)
	if e.Speakers != "Ana, Bogdan" {
		t.Errorf("speakers = %q, want %q", e.Speakers, "Ana, Bogdan")
	}
	if e.TargetAudience != "devs, ops" {
		t.Errorf("target audience = %q, want %q", e.TargetAudience, "devs, ops")
	}
}

func TestEntryCreateShowsDuplicateHandleError(t *testing.T) {
	h := newTestDashboard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/meta-formats/3":
			writeDataEnvelope(w, models.MetaFormat{ID: 3, Name: "Opening hours", Placement: models.PlacementPage, TenantID: "acme"})
		case r.URL.Path == "/meta-datas" && r.Method == http.MethodPost:
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"status": 400, "name": "ValidationError", "message": "This attribute must be unique"},
			})
		default:
			writeListEnvelope(w, []any{}, 0)
		}
	}))

	form := url.Values{"format": {"3"}, "handle": {"front-door"}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/extra-content/entries", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.EntryCreate(rr, withSession(req))

	body := rr.Body.String()
	if !strings.Contains(body, "This attribute must be unique") {
		t.Error("backend duplicate-handle message must appear verbatim")
	}
	if !strings.Contains(body, `value="front-door"`) {
		t.Error("submitted handle must be preserved in the re-rendered form")
	}
}

func TestPreviewRendersMarkdown(t *testing.T) {
	h := newTestDashboard(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeListEnvelope(w, []any{}, 0)
	}))

	form := url.Values{"content": {"# Opening soon\n\nStay *tuned*."}}
	req := httptest.NewRequest(http.MethodPost, "/dashboard/preview", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.Preview(rr, withSession(req))

	body := rr.Body.String()
	if !strings.Contains(body, "<h1") || !strings.Contains(body, "<em>tuned</em>") {
		t.Errorf("preview output missing rendered markdown: %q", body)
	}
}
