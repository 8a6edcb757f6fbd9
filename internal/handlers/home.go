// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"dashpress/internal/listing"
	"dashpress/internal/middleware"
	"dashpress/internal/render"
	"dashpress/internal/store"
)

// Home renders the dashboard landing page: content counters plus the
// recent activity feed. Counter fetches that fail render as zero; the
// page itself never errors on them.
func (h *Dashboard) Home(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	one := listing.Params{Page: 1, PageSize: 10, Sort: "createdAt", Order: "desc"}

	var blogCount, eventCount, mediaCount int
	if page, err := h.svc.Blogs.List(r.Context(), sess.TenantID, one); err != nil {
		slog.Warn("blog count failed", "error", err)
	} else {
		blogCount = page.Meta.Total
	}
	if page, err := h.svc.Events.List(r.Context(), sess.TenantID, one); err != nil {
		slog.Warn("event count failed", "error", err)
	} else {
		eventCount = page.Meta.Total
	}
	if page, err := h.svc.Media.List(r.Context(), sess.TenantID, one); err != nil {
		slog.Warn("media count failed", "error", err)
	} else {
		mediaCount = page.Meta.Total
	}

	var activity []store.Activity
	if h.activity != nil {
		var err error
		activity, err = h.activity.Recent(r.Context(), sess.TenantID, 10)
		if err != nil {
			slog.Error("load activity failed", "error", err)
		}
	}

	h.page(w, r, "home", &render.PageData{
		Title:   "Dashboard",
		Section: "home",
		Data: map[string]any{
			"blogCount":  blogCount,
			"eventCount": eventCount,
			"mediaCount": mediaCount,
			"activity":   activity,
		},
	})
}
