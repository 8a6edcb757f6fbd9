// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"dashpress/internal/middleware"
	"dashpress/internal/models"
	"dashpress/internal/render"
	"dashpress/internal/store"
)

// CategoriesPage renders the categories list with the side panel form.
// An ?edit=<id> query switches the panel into edit mode for that row.
func (h *Dashboard) CategoriesPage(w http.ResponseWriter, r *http.Request) {
	h.categoriesPage(w, r, nil)
}

func (h *Dashboard) categoriesPage(w http.ResponseWriter, r *http.Request, errs map[string]string) {
	sess := middleware.SessionFromCtx(r.Context())
	p := h.listParams(r, "categories")

	page, err := h.svc.Categories.List(r.Context(), sess.TenantID, p)
	if err != nil {
		slog.Error("list categories failed", "error", err)
	}

	var editing *models.Category
	if idStr := r.URL.Query().Get("edit"); idStr != "" {
		if id, convErr := strconv.Atoi(idStr); convErr == nil {
			editing, _ = h.svc.Categories.Get(r.Context(), sess.TenantID, id)
		}
	}

	data := map[string]any{
		"params":  p,
		"editing": editing,
		"errors":  errs,
	}
	if page != nil {
		data["categories"] = page.Items
		data["meta"] = page.Meta
	}
	if errs == nil {
		data["errors"] = map[string]string{}
	}

	h.page(w, r, "categories", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data:    data,
	})
}

// CategoryCreate handles the side panel create submission. The slug is
// generated from the name when left blank.
func (h *Dashboard) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	c := categoryFromForm(r)

	if errs := validateName(c.Name); len(errs) > 0 {
		h.categoriesPage(w, r, errs)
		return
	}

	created, err := h.svc.Categories.Create(r.Context(), sess.TenantID, c)
	if err != nil {
		slog.Error("create category failed", "error", err)
		h.categoriesPage(w, r, map[string]string{"name": "Failed to create the category. The slug may already exist."})
		return
	}

	h.record(r, store.ActionCreated, "category", created.ID, created.Name)
	http.Redirect(w, r, "/dashboard/categories", http.StatusSeeOther)
}

// CategoryUpdate handles the side panel edit submission.
func (h *Dashboard) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	c := categoryFromForm(r)
	if errs := validateName(c.Name); len(errs) > 0 {
		h.categoriesPage(w, r, errs)
		return
	}

	updated, err := h.svc.Categories.Update(r.Context(), sess.TenantID, id, c)
	if err != nil {
		slog.Error("update category failed", "id", id, "error", err)
		h.categoriesPage(w, r, map[string]string{"name": "Failed to save changes."})
		return
	}

	h.record(r, store.ActionUpdated, "category", id, updated.Name)
	http.Redirect(w, r, "/dashboard/categories", http.StatusSeeOther)
}

// CategoryDelete handles category deletion.
func (h *Dashboard) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	c, _ := h.svc.Categories.Get(r.Context(), sess.TenantID, id)
	if err := h.svc.Categories.Delete(r.Context(), sess.TenantID, id); err != nil {
		slog.Error("delete category failed", "id", id, "error", err)
	} else if c != nil {
		h.record(r, store.ActionDeleted, "category", id, c.Name)
	}

	http.Redirect(w, r, "/dashboard/categories?"+stepBackQuery(r), http.StatusSeeOther)
}

func categoryFromForm(r *http.Request) *models.Category {
	return &models.Category{
		Name:        strings.TrimSpace(r.FormValue("name")),
		Slug:        strings.TrimSpace(r.FormValue("slug")),
		Description: strings.TrimSpace(r.FormValue("description")),
	}
}
