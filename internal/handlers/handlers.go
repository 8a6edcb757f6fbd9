// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the dashboard.
// Handlers are grouped by concern (auth, dashboard) and receive their
// dependencies through the handler struct. All content data comes from
// the backend through the service layer; the dashboard itself only
// persists the activity log.
package handlers

import (
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"dashpress/internal/listing"
	"dashpress/internal/markdown"
	"dashpress/internal/middleware"
	"dashpress/internal/prefs"
	"dashpress/internal/render"
	"dashpress/internal/services"
	"dashpress/internal/session"
	"dashpress/internal/storage"
	"dashpress/internal/store"
)

// pageSizeChoices feed the per-page selector on every list page.
var pageSizeChoices = []int{10, 25, 50, 100}

// Dashboard groups all authenticated dashboard handlers and their
// dependencies. storageClient may be nil when direct S3 upload is not
// configured; activity may be nil in tests that don't exercise the log.
type Dashboard struct {
	renderer *render.Renderer
	sessions *session.Store
	prefs    *prefs.Store
	svc      *services.Services
	activity *store.ActivityStore
	storage  *storage.Client
}

// NewDashboard creates a new Dashboard handler group.
func NewDashboard(renderer *render.Renderer, sessions *session.Store, prefStore *prefs.Store, svc *services.Services, activity *store.ActivityStore, storageClient *storage.Client) *Dashboard {
	return &Dashboard{
		renderer: renderer,
		sessions: sessions,
		prefs:    prefStore,
		svc:      svc,
		activity: activity,
		storage:  storageClient,
	}
}

// page renders a dashboard page with the notification badge filled in.
// A badge fetch failure only costs the counter, never the page.
func (h *Dashboard) page(w http.ResponseWriter, r *http.Request, name string, pd *render.PageData) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && pd.UnreadCount == 0 {
		n, err := h.svc.Notifications.UnreadCount(r.Context(), sess.TenantID)
		if err != nil {
			slog.Debug("unread count failed", "error", err)
		} else {
			pd.UnreadCount = n
		}
	}
	h.renderer.Page(w, r, name, pd)
}

// listParams resolves the view state for one list page: URL query over
// the user's saved defaults, with the page reset to 1 whenever a filter
// changed relative to the previous view (carried in the "prev" param).
// The resulting state is saved back as the user's default for the list.
func (h *Dashboard) listParams(r *http.Request, list string) listing.Params {
	sess := middleware.SessionFromCtx(r.Context())
	d := h.prefs.Get(r.Context(), sess.UserID, list)
	p := listing.Parse(r.URL.Query(), d)

	if raw := r.URL.Query().Get("prev"); raw != "" {
		if pv, err := url.ParseQuery(raw); err == nil {
			p = p.ResetPageIfChanged(listing.Parse(pv, d))
		}
	}

	if err := h.prefs.Save(r.Context(), sess.UserID, list, p); err != nil {
		slog.Debug("save list prefs failed", "list", list, "error", err)
	}
	return p
}

// record writes one activity entry, logging and swallowing failures so
// an audit miss never fails the mutation it describes.
func (h *Dashboard) record(r *http.Request, action, entity string, entityID int, entityName string) {
	if h.activity == nil {
		return
	}
	sess := middleware.SessionFromCtx(r.Context())
	err := h.activity.Record(r.Context(), store.Activity{
		TenantID:   sess.TenantID,
		UserID:     sess.UserID,
		UserEmail:  sess.Email,
		Action:     action,
		Entity:     entity,
		EntityID:   entityID,
		EntityName: entityName,
	})
	if err != nil {
		slog.Error("record activity failed", "entity", entity, "error", err)
	}
}

// initialPreview renders the stored markdown for the editor's preview
// pane so an edit form opens with the preview already filled.
func initialPreview(source string) template.HTML {
	if source == "" {
		return ""
	}
	out, err := markdown.Preview(source)
	if err != nil {
		slog.Debug("initial preview failed", "error", err)
		return ""
	}
	return out
}

// idParam parses the numeric {id} route parameter.
func idParam(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	return id, err == nil && id > 0
}

// stepBackQuery builds the redirect query after a delete, stepping back
// a page when the delete emptied the current one. The deleting form
// posts the page it was on and how many items it showed.
func stepBackQuery(r *http.Request) string {
	page, _ := strconv.Atoi(r.FormValue("page"))
	items, _ := strconv.Atoi(r.FormValue("items_on_page"))
	if page < 1 {
		page = 1
	}
	return "page=" + strconv.Itoa(listing.StepBack(page, items-1))
}
