// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"dashpress/internal/metaform"
	"dashpress/internal/middleware"
	"dashpress/internal/models"
	"dashpress/internal/render"
	"dashpress/internal/store"
)

// EventsList renders the events list.
func (h *Dashboard) EventsList(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	p := h.listParams(r, "events")

	page, err := h.svc.Events.List(r.Context(), sess.TenantID, p)
	if err != nil {
		slog.Error("list events failed", "error", err)
		h.page(w, r, "events", &render.PageData{
			Title:   "Events",
			Section: "events",
			Flashes: []render.Flash{{Type: "error", Message: "Could not load events."}},
			Data:    map[string]any{"params": p, "pageSizes": pageSizeChoices},
		})
		return
	}

	h.page(w, r, "events", &render.PageData{
		Title:   "Events",
		Section: "events",
		Data: map[string]any{
			"events":    page.Items,
			"meta":      page.Meta,
			"params":    p,
			"pageSizes": pageSizeChoices,
		},
	})
}

// EventNew renders the new event form.
func (h *Dashboard) EventNew(w http.ResponseWriter, r *http.Request) {
	h.eventForm(w, r, &models.Event{Status: models.EventStatusDraft}, "/dashboard/event", nil)
}

// EventCreate handles the new event form submission.
func (h *Dashboard) EventCreate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	e := eventFromForm(r)

	if errs := validateEvent(e.Title, e.StartsAt); len(errs) > 0 {
		h.eventForm(w, r, e, "/dashboard/event", errs)
		return
	}

	created, err := h.svc.Events.Create(r.Context(), sess.TenantID, e)
	if err != nil {
		slog.Error("create event failed", "error", err)
		h.eventForm(w, r, e, "/dashboard/event", map[string]string{"title": "Failed to create the event."})
		return
	}

	h.record(r, actionFor(created.Status == models.EventStatusPublished), "event", created.ID, created.Title)
	http.Redirect(w, r, "/dashboard/event", http.StatusSeeOther)
}

// EventEdit renders the edit form for an event.
func (h *Dashboard) EventEdit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	e, err := h.svc.Events.Get(r.Context(), sess.TenantID, id)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	h.eventForm(w, r, e, fmt.Sprintf("/dashboard/event/%d", id), nil)
}

// EventUpdate handles the edit form submission.
func (h *Dashboard) EventUpdate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	existing, err := h.svc.Events.Get(r.Context(), sess.TenantID, id)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	e := eventFromForm(r)
	e.ID = id
	action := fmt.Sprintf("/dashboard/event/%d", id)

	if errs := validateEvent(e.Title, e.StartsAt); len(errs) > 0 {
		h.eventForm(w, r, e, action, errs)
		return
	}

	updated, err := h.svc.Events.Update(r.Context(), sess.TenantID, id, e)
	if err != nil {
		slog.Error("update event failed", "id", id, "error", err)
		h.eventForm(w, r, e, action, map[string]string{"title": "Failed to save changes."})
		return
	}

	wasPublished := existing.Status == models.EventStatusPublished
	h.record(r, updateAction(wasPublished, updated.Status == models.EventStatusPublished), "event", id, updated.Title)
	http.Redirect(w, r, "/dashboard/event", http.StatusSeeOther)
}

// EventDelete handles event deletion.
func (h *Dashboard) EventDelete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	e, _ := h.svc.Events.Get(r.Context(), sess.TenantID, id)
	if err := h.svc.Events.Delete(r.Context(), sess.TenantID, id); err != nil {
		slog.Error("delete event failed", "id", id, "error", err)
	} else if e != nil {
		h.record(r, store.ActionDeleted, "event", id, e.Title)
	}

	http.Redirect(w, r, "/dashboard/event?"+stepBackQuery(r), http.StatusSeeOther)
}

// eventForm renders the event form. The event date renders as separate
// calendar and clock inputs, pre-split from the stored timestamp.
func (h *Dashboard) eventForm(w http.ResponseWriter, r *http.Request, e *models.Event, action string, errs map[string]string) {
	title := "New event"
	if e.ID != 0 {
		title = "Edit event"
	}
	if errs == nil {
		errs = map[string]string{}
	}

	var eventDate, eventTime string
	if !e.StartsAt.IsZero() {
		eventDate = e.StartsAt.Format("2006-01-02")
		eventTime = e.StartsAt.Format("15:04")
	}

	h.page(w, r, "event_form", &render.PageData{
		Title:   title,
		Section: "events",
		Data: map[string]any{
			"event":     e,
			"action":    action,
			"eventDate": eventDate,
			"eventTime": eventTime,
			"errors":    errs,
			"preview":   initialPreview(e.Description),
		},
	})
}

// eventFromForm binds the event form fields onto a model, merging the
// split date and time inputs back into one timestamp.
func eventFromForm(r *http.Request) *models.Event {
	e := &models.Event{
		Title:            strings.TrimSpace(r.FormValue("title")),
		Description:      r.FormValue("description"),
		Location:         strings.TrimSpace(r.FormValue("location")),
		MapURL:           strings.TrimSpace(r.FormValue("map_url")),
		Organizer:        strings.TrimSpace(r.FormValue("organizer")),
		TargetAudience:   metaform.ParseTags(r.FormValue("target_audience"), 0).String(),
		Speakers:         metaform.ParseTags(r.FormValue("speakers"), 0).String(),
		RegistrationLink: strings.TrimSpace(r.FormValue("registration_link")),
		Status:           models.EventStatus(r.FormValue("event_status")),
	}
	if e.Status != models.EventStatusPublished {
		e.Status = models.EventStatusDraft
	}

	date := r.FormValue("event_date__date")
	clock := r.FormValue("event_date__time")
	if clock == "" {
		clock = "00:00"
	}
	if t, err := time.Parse("2006-01-02 15:04", date+" "+clock); err == nil {
		e.StartsAt = t
	}
	return e
}
