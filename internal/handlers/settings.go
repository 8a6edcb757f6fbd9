// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"dashpress/internal/listing"
	"dashpress/internal/middleware"
	"dashpress/internal/models"
	"dashpress/internal/render"
)

// prefsListKey is the preference bucket the settings page edits; the
// saved defaults seed every list the user has not customized yet.
const prefsListKey = "default"

// SettingsPage renders billing history, list preferences, and account
// info. It stays reachable while the billing gate is locked.
func (h *Dashboard) SettingsPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	var payments []models.Payment
	history, err := h.svc.Payments.History(r.Context(), sess.TenantID)
	if err != nil {
		slog.Error("load billing history failed", "error", err)
	} else {
		payments = history
	}

	h.page(w, r, "settings", &render.PageData{
		Title:   "Settings",
		Section: "settings",
		Data: map[string]any{
			"payments":  payments,
			"defaults":  h.prefs.Get(r.Context(), sess.UserID, prefsListKey),
			"pageSizes": pageSizeChoices,
		},
	})
}

// PrefsSave persists the user's default list preferences.
func (h *Dashboard) PrefsSave(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	pageSize, _ := strconv.Atoi(r.FormValue("page_size"))
	p := listing.Parse(nil, listing.Defaults{
		PageSize: pageSize,
		Sort:     r.FormValue("sort"),
		View:     r.FormValue("view"),
	})

	if err := h.prefs.Save(r.Context(), sess.UserID, prefsListKey, p); err != nil {
		slog.Error("save prefs failed", "error", err)
	}
	http.Redirect(w, r, "/dashboard/settings", http.StatusSeeOther)
}

// DismissWarning records a dismissed billing banner in the session; the
// dismissal lives only as long as the session does.
func (h *Dashboard) DismissWarning(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	paymentID := r.FormValue("payment_id")
	if paymentID != "" {
		sess.Dismiss(paymentID)
		if err := h.sessions.Update(r.Context(), r, sess); err != nil {
			slog.Error("persist dismissal failed", "error", err)
		}
	}

	back := r.Header.Get("Referer")
	if back == "" {
		back = "/dashboard"
	}
	http.Redirect(w, r, back, http.StatusSeeOther)
}
