// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"dashpress/internal/markdown"
	"dashpress/internal/metaform"
	"dashpress/internal/middleware"
	"dashpress/internal/models"
	"dashpress/internal/render"
	"dashpress/internal/slug"
	"dashpress/internal/store"
)

// BlogsList renders the blog posts list with search, status filter,
// sorting, and pagination.
func (h *Dashboard) BlogsList(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	p := h.listParams(r, "blogs")

	page, err := h.svc.Blogs.List(r.Context(), sess.TenantID, p)
	if err != nil {
		slog.Error("list blogs failed", "error", err)
		h.page(w, r, "blogs", &render.PageData{
			Title:   "Blog",
			Section: "blog",
			Flashes: []render.Flash{{Type: "error", Message: "Could not load blog posts."}},
			Data:    map[string]any{"params": p, "pageSizes": pageSizeChoices},
		})
		return
	}

	h.page(w, r, "blogs", &render.PageData{
		Title:   "Blog",
		Section: "blog",
		Data: map[string]any{
			"blogs":     page.Items,
			"meta":      page.Meta,
			"params":    p,
			"pageSizes": pageSizeChoices,
		},
	})
}

// BlogNew renders the new blog post form.
func (h *Dashboard) BlogNew(w http.ResponseWriter, r *http.Request) {
	h.blogForm(w, r, &models.Blog{Status: models.BlogStatusDraft}, "/dashboard/blog", nil)
}

// BlogCreate handles the new blog post form submission.
func (h *Dashboard) BlogCreate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	b := blogFromForm(r)

	if errs := mergeErrs(validateBlog(b.Title, b.Content), validateSEO(seoTitle(b), seoDescription(b))); len(errs) > 0 {
		h.blogForm(w, r, b, "/dashboard/blog", errs)
		return
	}

	created, err := h.svc.Blogs.Create(r.Context(), sess.TenantID, b)
	if err != nil {
		slog.Error("create blog failed", "error", err)
		h.blogForm(w, r, b, "/dashboard/blog", map[string]string{
			"title": "Failed to create the post. The slug may already exist.",
		})
		return
	}

	h.record(r, actionFor(created.Status == models.BlogStatusPublished), "blog", created.ID, created.Title)
	http.Redirect(w, r, "/dashboard/blog", http.StatusSeeOther)
}

// BlogEdit renders the edit form for a blog post.
func (h *Dashboard) BlogEdit(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	b, err := h.svc.Blogs.Get(r.Context(), sess.TenantID, id)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	h.blogForm(w, r, b, fmt.Sprintf("/dashboard/blog/%d", id), nil)
}

// BlogUpdate handles the edit form submission.
func (h *Dashboard) BlogUpdate(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	existing, err := h.svc.Blogs.Get(r.Context(), sess.TenantID, id)
	if err != nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	b := blogFromForm(r)
	b.ID = id
	b.Slug = existing.Slug
	action := fmt.Sprintf("/dashboard/blog/%d", id)

	if errs := mergeErrs(validateBlog(b.Title, b.Content), validateSEO(seoTitle(b), seoDescription(b))); len(errs) > 0 {
		h.blogForm(w, r, b, action, errs)
		return
	}

	updated, err := h.svc.Blogs.Update(r.Context(), sess.TenantID, id, b)
	if err != nil {
		slog.Error("update blog failed", "id", id, "error", err)
		h.blogForm(w, r, b, action, map[string]string{"title": "Failed to save changes."})
		return
	}

	wasPublished := existing.Status == models.BlogStatusPublished
	h.record(r, updateAction(wasPublished, updated.Status == models.BlogStatusPublished), "blog", id, updated.Title)
	http.Redirect(w, r, "/dashboard/blog", http.StatusSeeOther)
}

// BlogDelete handles post deletion, stepping the list back a page when
// the delete emptied the current one.
func (h *Dashboard) BlogDelete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	id, ok := idParam(r)
	if !ok {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	b, _ := h.svc.Blogs.Get(r.Context(), sess.TenantID, id)
	if err := h.svc.Blogs.Delete(r.Context(), sess.TenantID, id); err != nil {
		slog.Error("delete blog failed", "id", id, "error", err)
	} else if b != nil {
		h.record(r, store.ActionDeleted, "blog", id, b.Title)
	}

	http.Redirect(w, r, "/dashboard/blog?"+stepBackQuery(r), http.StatusSeeOther)
}

// Preview renders a markdown fragment for the live preview pane. The
// result is sanitized; raw HTML in the source is escaped.
func (h *Dashboard) Preview(w http.ResponseWriter, r *http.Request) {
	out, err := markdown.Preview(r.FormValue("content"))
	if err != nil {
		slog.Warn("markdown preview failed", "error", err)
		http.Error(w, "Preview unavailable", http.StatusUnprocessableEntity)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, out)
}

// blogForm renders the blog form with the categories selector loaded.
func (h *Dashboard) blogForm(w http.ResponseWriter, r *http.Request, b *models.Blog, action string, errs map[string]string) {
	sess := middleware.SessionFromCtx(r.Context())
	cats, err := h.svc.Categories.All(r.Context(), sess.TenantID)
	if err != nil {
		slog.Warn("load categories failed", "error", err)
	}

	title := "New post"
	if b.ID != 0 {
		title = "Edit post"
	}
	if errs == nil {
		errs = map[string]string{}
	}

	h.page(w, r, "blog_form", &render.PageData{
		Title:   title,
		Section: "blog",
		Data: map[string]any{
			"blog":       b,
			"action":     action,
			"categories": cats,
			"errors":     errs,
			"preview":    initialPreview(b.Content),
		},
	})
}

// blogFromForm binds the blog form fields onto a model. The slug is
// derived from the title for new posts and preserved on updates.
func blogFromForm(r *http.Request) *models.Blog {
	b := &models.Blog{
		Title:   strings.TrimSpace(r.FormValue("title")),
		Content: r.FormValue("content"),
		Author:  strings.TrimSpace(r.FormValue("author")),
		Status:  models.BlogStatus(r.FormValue("blog_status")),
		Tags:    metaform.ParseTags(r.FormValue("tags"), 0).String(),
	}
	if b.Status != models.BlogStatusPublished && b.Status != models.BlogStatusArchived {
		b.Status = models.BlogStatusDraft
	}
	b.Slug = slug.Generate(b.Title)

	if r.Form == nil {
		r.ParseForm()
	}
	for _, raw := range r.Form["categories"] {
		if id, err := strconv.Atoi(raw); err == nil && id > 0 {
			b.CategoryIDs = append(b.CategoryIDs, id)
		}
	}

	seoT := strings.TrimSpace(r.FormValue("seo_title"))
	seoD := strings.TrimSpace(r.FormValue("seo_description"))
	if seoT != "" || seoD != "" {
		b.SEO = &models.SEO{MetaTitle: seoT, MetaDescription: seoD}
	}
	return b
}

func seoTitle(b *models.Blog) string {
	if b.SEO == nil {
		return ""
	}
	return b.SEO.MetaTitle
}

func seoDescription(b *models.Blog) string {
	if b.SEO == nil {
		return ""
	}
	return b.SEO.MetaDescription
}

// actionFor maps a publish flag to the activity action for a create.
func actionFor(published bool) string {
	if published {
		return store.ActionPublished
	}
	return store.ActionCreated
}

// updateAction records a publish only on the draft-to-published
// transition; everything else is a plain update.
func updateAction(wasPublished, isPublished bool) string {
	if !wasPublished && isPublished {
		return store.ActionPublished
	}
	return store.ActionUpdated
}
