// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"dashpress/internal/middleware"
	"dashpress/internal/models"
	"dashpress/internal/render"
)

// NotificationsList renders the tenant's notification feed.
func (h *Dashboard) NotificationsList(w http.ResponseWriter, r *http.Request) {
	h.notificationsList(w, r, nil)
}

func (h *Dashboard) notificationsList(w http.ResponseWriter, r *http.Request, flashes []render.Flash) {
	sess := middleware.SessionFromCtx(r.Context())

	var items []models.Notification
	page, err := h.svc.Notifications.List(r.Context(), sess.TenantID, h.listParams(r, "notifications"))
	if err != nil {
		slog.Error("list notifications failed", "error", err)
		flashes = append(flashes, render.Flash{Type: "error", Message: "Could not load notifications."})
	} else {
		items = page.Items
	}

	h.page(w, r, "notifications", &render.PageData{
		Title:   "Notifications",
		Section: "home",
		Flashes: flashes,
		Data:    map[string]any{"notifications": items},
	})
}

// NotificationsBell serves the header dropdown fragment with the most
// recent notifications.
func (h *Dashboard) NotificationsBell(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	items, err := h.svc.Notifications.Recent(r.Context(), sess.TenantID, 5)
	if err != nil {
		slog.Error("load recent notifications failed", "error", err)
	}
	h.renderer.Fragment(w, "notifications", "bell", map[string]any{"Items": items})
}

// NotificationRead marks one notification as read, then follows the
// notification's action link when it points inside the dashboard.
func (h *Dashboard) NotificationRead(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	if err := h.svc.Notifications.MarkRead(r.Context(), sess.TenantID, id); err != nil {
		slog.Error("mark notification read failed", "id", id, "error", err)
	}

	// Only local paths are followed; anything else stays on the feed.
	target := r.FormValue("action_url")
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		target = "/dashboard/notifications"
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// NotificationsReadAll marks every unread notification as read. The
// sweep continues past individual failures, so a partial outage clears
// what it can.
func (h *Dashboard) NotificationsReadAll(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if err := h.svc.Notifications.MarkAllRead(r.Context(), sess.TenantID); err != nil {
		slog.Error("mark all read incomplete", "error", err)
		h.notificationsList(w, r, []render.Flash{{
			Type:    "error",
			Message: "Some notifications could not be marked as read.",
		}})
		return
	}
	http.Redirect(w, r, "/dashboard/notifications", http.StatusSeeOther)
}
