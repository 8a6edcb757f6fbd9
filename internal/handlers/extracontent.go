// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"dashpress/internal/backend"
	"dashpress/internal/metaform"
	"dashpress/internal/middleware"
	"dashpress/internal/models"
	"dashpress/internal/render"
	"dashpress/internal/services"
	"dashpress/internal/store"
)

// builderKinds maps the format builder's type selector to the backend's
// component discriminators.
var builderKinds = map[string]string{
	"text":    "form.text-field",
	"number":  "form.number-field",
	"enum":    "form.enum-field",
	"date":    "form.date-field",
	"boolean": "form.boolean-field",
	"media":   "form.media-field",
}

// --- Formats ---

// FormatsList renders the format definitions list.
func (h *Dashboard) FormatsList(w http.ResponseWriter, r *http.Request) {
	h.formatsList(w, r, nil)
}

func (h *Dashboard) formatsList(w http.ResponseWriter, r *http.Request, flashes []render.Flash) {
	sess := middleware.SessionFromCtx(r.Context())
	p := h.listParams(r, "formats")

	page, err := h.svc.MetaFormats.List(r.Context(), sess.TenantID, p)
	if err != nil {
		slog.Error("list formats failed", "error", err)
		flashes = append(flashes, render.Flash{Type: "error", Message: "Could not load formats."})
	}

	data := map[string]any{"params": p, "pageSizes": pageSizeChoices}
	if page != nil {
		data["formats"] = page.Items
		data["meta"] = page.Meta
	}

	h.page(w, r, "formats", &render.PageData{
		Title:   "Extra Content",
		Section: "extra",
		Flashes: flashes,
		Data:    data,
	})
}

// FormatNew renders the format builder for a new format.
func (h *Dashboard) FormatNew(w http.ResponseWriter, r *http.Request) {
	h.formatForm(w, r, &models.MetaFormat{Placement: models.PlacementSidebar}, "/dashboard/extra-content", nil)
}

// FormatCreate handles the format builder submission.
func (h *Dashboard) FormatCreate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	f := formatFromForm(r)

	if errs := validateFormat(f); len(errs) > 0 {
		h.formatForm(w, r, f, "/dashboard/extra-content", errs)
		return
	}

	created, err := h.svc.MetaFormats.Create(r.Context(), sess.TenantID, f)
	if err != nil {
		slog.Error("create format failed", "error", err)
		h.formatForm(w, r, f, "/dashboard/extra-content", map[string]string{"name": "Failed to create the format."})
		return
	}

	h.record(r, store.ActionCreated, "meta_format", created.ID, created.Name)
	http.Redirect(w, r, "/dashboard/extra-content", http.StatusSeeOther)
}

// FormatEdit renders the builder pre-filled with an existing format.
func (h *Dashboard) FormatEdit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	f, err := h.svc.MetaFormats.Get(r.Context(), sess.TenantID, id)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	h.formatForm(w, r, f, fmt.Sprintf("/dashboard/extra-content/%d", id), nil)
}

// FormatUpdate handles the builder submission for an existing format.
// Entries already created against the format keep their stored payload;
// their form simply reflects the new field list on next edit.
func (h *Dashboard) FormatUpdate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	f := formatFromForm(r)
	action := fmt.Sprintf("/dashboard/extra-content/%d", id)

	if errs := validateFormat(f); len(errs) > 0 {
		h.formatForm(w, r, f, action, errs)
		return
	}

	updated, err := h.svc.MetaFormats.Update(r.Context(), sess.TenantID, id, f)
	if err != nil {
		slog.Error("update format failed", "id", id, "error", err)
		h.formatForm(w, r, f, action, map[string]string{"name": "Failed to save changes."})
		return
	}

	h.record(r, store.ActionUpdated, "meta_format", id, updated.Name)
	http.Redirect(w, r, "/dashboard/extra-content", http.StatusSeeOther)
}

// FormatDelete deletes a format. Formats with surviving entries are
// protected; the list re-renders with an explanatory message.
func (h *Dashboard) FormatDelete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	f, _ := h.svc.MetaFormats.Get(r.Context(), sess.TenantID, id)
	err := h.svc.MetaFormats.Delete(r.Context(), sess.TenantID, id)
	if errors.Is(err, services.ErrFormatInUse) {
		h.formatsList(w, r, []render.Flash{{
			Type:    "error",
			Message: "This format still has entries. Delete them first.",
		}})
		return
	}
	if err != nil {
		slog.Error("delete format failed", "id", id, "error", err)
	} else if f != nil {
		h.record(r, store.ActionDeleted, "meta_format", id, f.Name)
	}

	http.Redirect(w, r, "/dashboard/extra-content?"+stepBackQuery(r), http.StatusSeeOther)
}

// FieldRow serves one empty builder row for the HTMX add-field button.
func (h *Dashboard) FieldRow(w http.ResponseWriter, r *http.Request) {
	index, _ := strconv.Atoi(r.URL.Query().Get("index"))
	h.renderer.Fragment(w, "format_form", "field_row", fieldRow(index, metaform.Field{}))
}

// formatForm renders the format builder.
func (h *Dashboard) formatForm(w http.ResponseWriter, r *http.Request, f *models.MetaFormat, action string, errs map[string]string) {
	title := "New format"
	if f.ID != 0 {
		title = "Edit format"
	}
	if errs == nil {
		errs = map[string]string{}
	}

	rows := make([]map[string]any, len(f.Fields))
	for i, fd := range f.Fields {
		rows[i] = fieldRow(i, fd)
	}

	h.page(w, r, "format_form", &render.PageData{
		Title:   title,
		Section: "extra",
		Data: map[string]any{
			"format":    f,
			"action":    action,
			"fieldRows": rows,
			"errors":    errs,
		},
	})
}

// fieldRow builds the view model for one builder row.
func fieldRow(index int, fd metaform.Field) map[string]any {
	var options string
	if fd.Enum != nil {
		options = strings.Join(fd.Enum.Options, ", ")
	}
	return map[string]any{
		"Index":   index,
		"Field":   fd,
		"Options": options,
	}
}

// formatFromForm binds the builder submission onto a model. Row indices
// may be sparse after client-side removals, so keys are scanned rather
// than counted.
func formatFromForm(r *http.Request) *models.MetaFormat {
	if r.Form == nil {
		r.ParseForm()
	}

	f := &models.MetaFormat{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Description: strings.TrimSpace(r.FormValue("description")),
		Placement:   models.Placement(r.FormValue("placement")),
	}
	if f.Placement != models.PlacementPage && f.Placement != models.PlacementBoth {
		f.Placement = models.PlacementSidebar
	}

	var indices []int
	for key := range r.Form {
		var i int
		if _, err := fmt.Sscanf(key, "fields.%d.label", &i); err == nil {
			indices = append(indices, i)
		}
	}
	sort.Ints(indices)

	for _, i := range indices {
		prefix := fmt.Sprintf("fields.%d.", i)
		label := strings.TrimSpace(r.FormValue(prefix + "label"))
		if label == "" {
			continue
		}
		kind := r.FormValue(prefix + "kind")
		rawKind, known := builderKinds[kind]
		if !known {
			continue
		}

		fd := metaform.Field{
			Kind:       metaform.Kind(kind),
			RawKind:    rawKind,
			Label:      label,
			Required:   r.FormValue(prefix+"required") == "true",
			Repeatable: r.FormValue(prefix+"repeatable") == "true",
		}
		switch fd.Kind {
		case metaform.KindText:
			fd.Text = &metaform.TextAttrs{Input: metaform.TextPlain}
		case metaform.KindNumber:
			fd.Number = &metaform.NumberAttrs{}
		case metaform.KindEnum:
			fd.Enum = &metaform.EnumAttrs{Options: splitOptions(r.FormValue(prefix + "options"))}
		case metaform.KindDate:
			fd.Date = &metaform.DateAttrs{}
		}
		f.Fields = append(f.Fields, fd)
	}
	return f
}

func splitOptions(raw string) []string {
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateFormat checks the builder submission: a name, at least one
// field, no duplicate field slugs, and options on every choice field.
func validateFormat(f *models.MetaFormat) map[string]string {
	errs := validateName(f.Name)
	if len(f.Fields) == 0 {
		errs["fields"] = "A format needs at least one field."
		return errs
	}

	seen := map[string]bool{}
	for i := range f.Fields {
		fd := &f.Fields[i]
		s := fd.Slug()
		if seen[s] {
			errs["fields"] = fmt.Sprintf("Two fields share the name %q.", fd.Label)
		}
		seen[s] = true
		if fd.Kind == metaform.KindEnum && (fd.Enum == nil || len(fd.Enum.Options) == 0) {
			errs["fields"] = fmt.Sprintf("Choice field %q needs options.", fd.Label)
		}
	}
	return errs
}

// --- Entries ---

// EntriesList renders the entries list, optionally filtered to one
// format via ?format=<id>.
func (h *Dashboard) EntriesList(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	p := h.listParams(r, "entries")

	formats, err := h.svc.MetaFormats.All(r.Context(), sess.TenantID)
	if err != nil {
		slog.Warn("load formats failed", "error", err)
	}
	formatNames := make(map[int]string, len(formats))
	for _, f := range formats {
		formatNames[f.ID] = f.Name
	}

	formatID, _ := strconv.Atoi(r.URL.Query().Get("format"))
	var current *models.MetaFormat
	for i := range formats {
		if formats[i].ID == formatID {
			current = &formats[i]
		}
	}

	page, err := h.svc.MetaDatas.List(r.Context(), sess.TenantID, formatID, p)
	if err != nil {
		slog.Error("list entries failed", "error", err)
	}

	data := map[string]any{
		"params":      p,
		"formats":     formats,
		"formatNames": formatNames,
		"format":      current,
		"pageSizes":   pageSizeChoices,
	}
	if page != nil {
		data["entries"] = page.Items
		data["meta"] = page.Meta
	}

	h.page(w, r, "entries", &render.PageData{
		Title:   "Entries",
		Section: "extra",
		Data:    data,
	})
}

// EntryNew renders the dynamic entry form for the format named in
// ?format=<id>.
func (h *Dashboard) EntryNew(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	formatID, _ := strconv.Atoi(r.URL.Query().Get("format"))
	if formatID <= 0 {
		http.Redirect(w, r, "/dashboard/extra-content/entries", http.StatusSeeOther)
		return
	}

	format, err := h.svc.MetaFormats.Get(r.Context(), sess.TenantID, formatID)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	form := metaform.NewForm(format.Fields)
	h.entryForm(w, r, format, "/dashboard/extra-content/entries", "", form, nil, nil)
}

// EntryCreate handles a new entry submission. A duplicate handle is a
// backend validation error whose message is shown verbatim at the
// handle field.
func (h *Dashboard) EntryCreate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	r.ParseForm()

	formatID, _ := strconv.Atoi(r.FormValue("format"))
	format, err := h.svc.MetaFormats.Get(r.Context(), sess.TenantID, formatID)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	action := "/dashboard/extra-content/entries"
	handle := strings.TrimSpace(r.FormValue("handle"))
	form := metaform.ParseRequest(format.Fields, r.Form)

	payload, fieldErrs := form.Payload()
	handleErrs := validateHandle(handle)
	if !fieldErrs.Ok() || len(handleErrs) > 0 {
		h.entryForm(w, r, format, action, handle, form, fieldErrs, handleErrs)
		return
	}

	created, err := h.svc.MetaDatas.Create(r.Context(), sess.TenantID, &models.MetaData{
		Handle:   handle,
		FormatID: format.ID,
		Payload:  payload,
	})
	if err != nil {
		if ve := backend.AsValidation(err); ve != nil {
			h.entryForm(w, r, format, action, handle, form, nil, map[string]string{"handle": ve.Message})
			return
		}
		slog.Error("create entry failed", "error", err)
		h.entryForm(w, r, format, action, handle, form, nil, map[string]string{"handle": "Failed to create the entry."})
		return
	}

	h.record(r, store.ActionCreated, "meta_data", created.ID, created.Handle)
	http.Redirect(w, r, fmt.Sprintf("/dashboard/extra-content/entries?format=%d", format.ID), http.StatusSeeOther)
}

// EntryEdit renders the entry form bound to a stored entry's payload.
func (h *Dashboard) EntryEdit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	entry, err := h.svc.MetaDatas.Get(r.Context(), sess.TenantID, id)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	format, err := h.svc.MetaFormats.Get(r.Context(), sess.TenantID, entry.FormatID)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	form := metaform.BindPayload(format.Fields, entry.Payload)
	h.entryForm(w, r, format, fmt.Sprintf("/dashboard/extra-content/entries/%d", id), entry.Handle, form, nil, nil)
}

// EntryUpdate handles the entry edit submission.
func (h *Dashboard) EntryUpdate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	r.ParseForm()

	entry, err := h.svc.MetaDatas.Get(r.Context(), sess.TenantID, id)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	format, err := h.svc.MetaFormats.Get(r.Context(), sess.TenantID, entry.FormatID)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	action := fmt.Sprintf("/dashboard/extra-content/entries/%d", id)
	handle := strings.TrimSpace(r.FormValue("handle"))
	form := metaform.ParseRequest(format.Fields, r.Form)

	payload, fieldErrs := form.Payload()
	handleErrs := validateHandle(handle)
	if !fieldErrs.Ok() || len(handleErrs) > 0 {
		h.entryForm(w, r, format, action, handle, form, fieldErrs, handleErrs)
		return
	}

	updated, err := h.svc.MetaDatas.Update(r.Context(), sess.TenantID, id, &models.MetaData{
		Handle:   handle,
		FormatID: format.ID,
		Payload:  payload,
	})
	if err != nil {
		if ve := backend.AsValidation(err); ve != nil {
			h.entryForm(w, r, format, action, handle, form, nil, map[string]string{"handle": ve.Message})
			return
		}
		slog.Error("update entry failed", "id", id, "error", err)
		h.entryForm(w, r, format, action, handle, form, nil, map[string]string{"handle": "Failed to save changes."})
		return
	}

	h.record(r, store.ActionUpdated, "meta_data", id, updated.Handle)
	http.Redirect(w, r, fmt.Sprintf("/dashboard/extra-content/entries?format=%d", format.ID), http.StatusSeeOther)
}

// EntryDelete handles entry deletion.
func (h *Dashboard) EntryDelete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	entry, _ := h.svc.MetaDatas.Get(r.Context(), sess.TenantID, id)
	if err := h.svc.MetaDatas.Delete(r.Context(), sess.TenantID, id); err != nil {
		slog.Error("delete entry failed", "id", id, "error", err)
	} else if entry != nil {
		h.record(r, store.ActionDeleted, "meta_data", id, entry.Handle)
	}

	http.Redirect(w, r, "/dashboard/extra-content/entries?"+stepBackQuery(r), http.StatusSeeOther)
}

// EntryFormMutate serves the HTMX add/remove/move buttons on repeatable
// fields: it rebuilds the in-flight form from the posted values, applies
// the mutation, and re-renders the form fragment without persisting
// anything.
func (h *Dashboard) EntryFormMutate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	r.ParseForm()

	formatID, _ := strconv.Atoi(r.FormValue("format"))
	format, err := h.svc.MetaFormats.Get(r.Context(), sess.TenantID, formatID)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	form := metaform.ParseRequest(format.Fields, r.Form)

	switch {
	case r.Form.Get("__append") != "":
		if _, err := form.Append(r.Form.Get("__append")); err != nil {
			slog.Warn("append item failed", "error", err)
		}
	case r.Form.Get("__remove") != "":
		s, i, _, ok := parseItemRef(r.Form.Get("__remove"))
		if ok {
			if err := form.Remove(s, i); err != nil {
				slog.Warn("remove item failed", "error", err)
			}
		}
	case r.Form.Get("__move") != "":
		s, i, dir, ok := parseItemRef(r.Form.Get("__move"))
		if ok {
			to := i - 1
			if dir == "down" {
				to = i + 1
			}
			if err := form.Move(s, i, to); err != nil {
				slog.Warn("move item failed", "error", err)
			}
		}
	}

	action := r.FormValue("__action")
	if action == "" {
		action = "/dashboard/extra-content/entries"
	}
	h.renderer.Fragment(w, "entry_form", "entry_fields", &render.PageData{
		CSRFToken: middleware.GetCSRFToken(r),
		Data: map[string]any{
			"format":  format,
			"action":  action,
			"handle":  r.FormValue("handle"),
			"widgets": form.Widgets(nil),
			"errors":  map[string]string{},
		},
	})
}

// entryForm renders the dynamic entry form.
func (h *Dashboard) entryForm(w http.ResponseWriter, r *http.Request, format *models.MetaFormat, action, handle string, form *metaform.Form, fieldErrs metaform.FieldErrors, errs map[string]string) {
	title := "New entry"
	if !strings.HasSuffix(action, "/entries") {
		title = "Edit entry"
	}
	if errs == nil {
		errs = map[string]string{}
	}

	h.page(w, r, "entry_form", &render.PageData{
		Title:   title,
		Section: "extra",
		Data: map[string]any{
			"format":  format,
			"action":  action,
			"handle":  handle,
			"widgets": form.Widgets(fieldErrs),
			"errors":  errs,
		},
	})
}

// validateHandle checks the required entry handle.
func validateHandle(handle string) map[string]string {
	if handle == "" {
		return map[string]string{"handle": "Handle is required."}
	}
	if len(handle) > maxNameLen {
		return map[string]string{"handle": "Handle is too long."}
	}
	return nil
}

// parseItemRef splits a "slug:index" or "slug:index:direction" button
// value posted by the repeatable-item controls.
func parseItemRef(raw string) (slug string, index int, dir string, ok bool) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return "", 0, "", false
	}
	i, err := strconv.Atoi(parts[1])
	if err != nil || i < 0 {
		return "", 0, "", false
	}
	if len(parts) > 2 {
		dir = parts[2]
	}
	return parts[0], i, dir, true
}
