// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"dashpress/internal/imaging"
	"dashpress/internal/listing"
	"dashpress/internal/middleware"
	"dashpress/internal/models"
	"dashpress/internal/render"
	"dashpress/internal/store"
)

// maxUploadBytes caps media uploads at 50 MB.
const maxUploadBytes = 50 << 20

// MediaList renders the media library grid.
func (h *Dashboard) MediaList(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	p := h.listParams(r, "media")

	page, err := h.svc.Media.List(r.Context(), sess.TenantID, p)
	if err != nil {
		slog.Error("list media failed", "error", err)
		h.page(w, r, "media", &render.PageData{
			Title:   "Media library",
			Section: "media",
			Flashes: []render.Flash{{Type: "error", Message: "Could not load the media library."}},
			Data:    map[string]any{"params": p, "pageSizes": pageSizeChoices},
		})
		return
	}

	h.page(w, r, "media", &render.PageData{
		Title:   "Media library",
		Section: "media",
		Data: map[string]any{
			"media":      page.Items,
			"meta":       page.Meta,
			"params":     p,
			"pageSizes":  pageSizeChoices,
			"categories": mediaCategories(page.Items),
		},
	})
}

// MediaNew renders the upload form.
func (h *Dashboard) MediaNew(w http.ResponseWriter, r *http.Request) {
	h.mediaForm(w, r, &models.WebMedia{}, "/dashboard/web-media", nil)
}

// MediaCreate handles an upload: the file goes to the backend's media
// endpoint, falling back to direct S3 storage when the backend rejects
// it, then a tenant-scoped metadata record is created around it.
func (h *Dashboard) MediaCreate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		h.mediaForm(w, r, webMediaFromForm(r), "/dashboard/web-media", map[string]string{"file": "The file is too large."})
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		h.mediaForm(w, r, webMediaFromForm(r), "/dashboard/web-media", map[string]string{"file": "Choose a file to upload."})
		return
	}
	defer file.Close()

	m := webMediaFromForm(r)
	if m.Name == "" {
		m.Name = header.Filename
	}
	if errs := validateName(m.Name); len(errs) > 0 {
		h.mediaForm(w, r, m, "/dashboard/web-media", errs)
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		slog.Error("read upload failed", "error", err)
		h.mediaForm(w, r, m, "/dashboard/web-media", map[string]string{"file": "Upload failed. Please try again."})
		return
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	uploaded, err := h.svc.Media.UploadFile(r.Context(), header.Filename, contentType, bytes.NewReader(data))
	if err != nil {
		slog.Warn("backend upload failed, trying direct storage", "error", err)
		url, s3Err := h.directUpload(r, data, contentType)
		if s3Err != nil {
			slog.Error("direct upload failed", "error", s3Err)
			h.mediaForm(w, r, m, "/dashboard/web-media", map[string]string{"file": "Upload failed. Please try again."})
			return
		}
		m.ExternalURL = url
	} else {
		m.FileID = &uploaded.ID
	}

	created, err := h.svc.Media.Create(r.Context(), sess.TenantID, m)
	if err != nil {
		slog.Error("create media record failed", "error", err)
		h.mediaForm(w, r, m, "/dashboard/web-media", map[string]string{"name": "The file was stored but its record could not be saved."})
		return
	}

	h.record(r, store.ActionCreated, "media", created.ID, created.Name)
	http.Redirect(w, r, "/dashboard/web-media", http.StatusSeeOther)
}

// MediaEdit renders the metadata edit form for one media item.
func (h *Dashboard) MediaEdit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	m, err := h.svc.Media.Get(r.Context(), sess.TenantID, id)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	h.mediaForm(w, r, m, fmt.Sprintf("/dashboard/web-media/%d", id), nil)
}

// MediaUpdate handles the metadata edit submission. The stored file is
// immutable; only the wrapper record changes.
func (h *Dashboard) MediaUpdate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	existing, err := h.svc.Media.Get(r.Context(), sess.TenantID, id)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	m := webMediaFromForm(r)
	m.ID = id
	m.FileID = existing.FileID
	m.ExternalURL = existing.ExternalURL
	action := fmt.Sprintf("/dashboard/web-media/%d", id)

	if errs := validateName(m.Name); len(errs) > 0 {
		m.File = existing.File
		h.mediaForm(w, r, m, action, errs)
		return
	}

	updated, err := h.svc.Media.Update(r.Context(), sess.TenantID, id, m)
	if err != nil {
		slog.Error("update media failed", "id", id, "error", err)
		m.File = existing.File
		h.mediaForm(w, r, m, action, map[string]string{"name": "Failed to save changes."})
		return
	}

	h.record(r, store.ActionUpdated, "media", id, updated.Name)
	http.Redirect(w, r, "/dashboard/web-media", http.StatusSeeOther)
}

// MediaDelete removes the metadata record, and the stored object too
// when the file lives in this dashboard's own bucket.
func (h *Dashboard) MediaDelete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	m, _ := h.svc.Media.Get(r.Context(), sess.TenantID, id)
	if err := h.svc.Media.Delete(r.Context(), sess.TenantID, id); err != nil {
		slog.Error("delete media failed", "id", id, "error", err)
	} else if m != nil {
		h.record(r, store.ActionDeleted, "media", id, m.Name)
		if h.storage != nil && m.ExternalURL != "" {
			if key, ok := h.storage.ExtractKey(m.ExternalURL); ok {
				if err := h.storage.Delete(r.Context(), key); err != nil {
					slog.Warn("delete stored object failed", "key", key, "error", err)
				}
			}
		}
	}

	http.Redirect(w, r, "/dashboard/web-media?"+stepBackQuery(r), http.StatusSeeOther)
}

// MediaPicker serves the media chooser fragment used by media fields on
// dynamic entry forms. "target" names the input the picked id fills.
func (h *Dashboard) MediaPicker(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())

	p := listing.Params{Page: 1, PageSize: 12, Sort: "createdAt", Order: "desc", Search: strings.TrimSpace(r.URL.Query().Get("search"))}
	page, err := h.svc.Media.List(r.Context(), sess.TenantID, p)
	if err != nil {
		slog.Error("media picker failed", "error", err)
		http.Error(w, "Media unavailable", http.StatusBadGateway)
		return
	}

	h.renderer.Fragment(w, "media", "picker", map[string]any{
		"Items":  page.Items,
		"Target": r.URL.Query().Get("target"),
	})
}

// directUpload stores the file in the dashboard's own bucket, with a
// scaled thumbnail alongside image uploads.
func (h *Dashboard) directUpload(r *http.Request, data []byte, contentType string) (string, error) {
	if h.storage == nil {
		return "", fmt.Errorf("no storage configured")
	}
	sess := middleware.SessionFromCtx(r.Context())

	ext := imaging.ExtensionForType(contentType)
	base := fmt.Sprintf("media/%s/%s/%s", sess.TenantID, time.Now().Format("2006/01"), uuid.NewString())
	url, err := h.storage.Upload(r.Context(), base+ext, contentType, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", err
	}

	if strings.HasPrefix(contentType, "image/") {
		thumb, thumbErr := imaging.Thumbnail(bytes.NewReader(data))
		if thumbErr != nil {
			slog.Warn("thumbnail generation failed", "error", thumbErr)
		} else if thumb != nil {
			if _, err := h.storage.Upload(r.Context(), base+"_thumb.jpg", "image/jpeg", bytes.NewReader(thumb), int64(len(thumb))); err != nil {
				slog.Warn("thumbnail upload failed", "error", err)
			}
		}
	}
	return url, nil
}

// mediaForm renders the upload or metadata form.
func (h *Dashboard) mediaForm(w http.ResponseWriter, r *http.Request, m *models.WebMedia, action string, errs map[string]string) {
	title := "Upload media"
	if m.ID != 0 {
		title = "Edit media"
	}
	if errs == nil {
		errs = map[string]string{}
	}

	h.page(w, r, "media_form", &render.PageData{
		Title:   title,
		Section: "media",
		Data: map[string]any{
			"item":       m,
			"action":     action,
			"errors":     errs,
			"categories": []string{},
		},
	})
}

func webMediaFromForm(r *http.Request) *models.WebMedia {
	return &models.WebMedia{
		Name:     strings.TrimSpace(r.FormValue("name")),
		AltText:  strings.TrimSpace(r.FormValue("alt_text")),
		Tags:     strings.TrimSpace(r.FormValue("tags")),
		Category: strings.TrimSpace(r.FormValue("category")),
	}
}

// mediaCategories collects the distinct categories present on the page,
// feeding the filter selector.
func mediaCategories(items []models.WebMedia) []string {
	seen := map[string]bool{}
	var out []string
	for _, m := range items {
		if m.Category != "" && !seen[m.Category] {
			seen[m.Category] = true
			out = append(out, m.Category)
		}
	}
	return out
}
