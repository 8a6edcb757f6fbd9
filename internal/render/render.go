// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the dashboard.
// It supports full-page and HTMX partial rendering, automatically
// detecting the request type via the HX-Request header.
package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"
	"time"

	"dashpress/internal/billing"
	"dashpress/internal/middleware"
	"dashpress/internal/session"
)

//go:embed templates/dashboard/*.html
var dashboardFS embed.FS

// PageData holds all data passed to dashboard templates.
type PageData struct {
	Title       string
	Section     string // active sidebar section, e.g. "blog", "events"
	Session     *session.Data
	CSRFToken   string
	Billing     *billing.Status // nil outside authenticated pages
	UnreadCount int             // notification bell badge
	Data        map[string]any  // page-specific data
	Flashes     []Flash
}

// Flash represents a one-time notification message displayed to the user.
type Flash struct {
	Type    string // "success", "error", "warning", "info"
	Message string
}

// Renderer handles template parsing and execution for dashboard pages.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
}

// standaloneTemplates render as full HTML pages without the base layout.
var standaloneTemplates = map[string]bool{
	"login":    true,
	"register": true,
}

// New creates a Renderer by parsing all dashboard templates from the
// embedded filesystem. Each page template is paired with the base
// layout. When devMode is true, templates use CDN-hosted assets;
// when false, they reference the embedded static files.
func New(devMode bool) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "bg-gray-900 text-white"
				}
				return "text-gray-300 hover:bg-gray-700 hover:text-white"
			},
			"isDev": func() bool {
				return devMode
			},
			// deref safely dereferences a string pointer for templates.
			"deref": func(s *string) string {
				if s == nil {
					return ""
				}
				return *s
			},
			"date": func(t time.Time) string {
				if t.IsZero() {
					return ""
				}
				return t.Format("Jan 2, 2006")
			},
			"datetime": func(t time.Time) string {
				if t.IsZero() {
					return ""
				}
				return t.Format("Jan 2, 2006 15:04")
			},
			// tags splits a comma-joined token list for chip rendering.
			"tags": func(s string) []string {
				if s == "" {
					return nil
				}
				parts := strings.Split(s, ", ")
				out := parts[:0]
				for _, p := range parts {
					if p = strings.TrimSpace(p); p != "" {
						out = append(out, p)
					}
				}
				return out
			},
			"containsInt": func(s []int, v int) bool {
				for _, x := range s {
					if x == v {
						return true
					}
				}
				return false
			},
			"money": func(v float64) string {
				return fmt.Sprintf("%.2f", v)
			},
			"seq": func(n int) []int {
				s := make([]int, n)
				for i := range s {
					s[i] = i + 1
				}
				return s
			},
		},
	}

	entries, err := dashboardFS.ReadDir("templates/dashboard")
	if err != nil {
		return nil, fmt.Errorf("read embedded templates: %w", err)
	}

	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == "base.html" || !strings.HasSuffix(name, ".html") {
			continue
		}
		tmplName := strings.TrimSuffix(name, ".html")

		var tmpl *template.Template
		var parseErr error
		if standaloneTemplates[tmplName] {
			tmpl, parseErr = template.New(name).Funcs(r.funcMap).ParseFS(
				dashboardFS, "templates/dashboard/"+name,
			)
		} else {
			tmpl, parseErr = template.New("base.html").Funcs(r.funcMap).ParseFS(
				dashboardFS, "templates/dashboard/base.html", "templates/dashboard/"+name,
			)
		}
		if parseErr != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, parseErr)
		}

		r.templates[tmplName] = tmpl
	}

	return r, nil
}

// Page renders a full dashboard page or an HTMX partial, depending on
// the request headers. For HTMX requests only the "content" block is
// sent; full page loads get the entire base layout.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, name string, data *PageData) {
	tmpl, ok := rn.templates[name]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", name), http.StatusInternalServerError)
		return
	}

	data.CSRFToken = middleware.GetCSRFToken(r)
	if data.Session == nil {
		data.Session = middleware.SessionFromCtx(r.Context())
	}
	if data.Billing == nil {
		if st, ok := middleware.BillingFromCtx(r.Context()); ok {
			data.Billing = &st
		}
	}
	if data.Data == nil {
		data.Data = map[string]any{}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if isHTMX(r) {
		if err := executeTemplate(w, tmpl, "content", data); err != nil {
			http.Error(w, "template error", http.StatusInternalServerError)
		}
		return
	}

	execName := "base.html"
	if standaloneTemplates[name] {
		execName = name + ".html"
	}
	if err := executeTemplate(w, tmpl, execName, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

// Fragment renders one named block of a page template, used by the
// HTMX endpoints that swap a single widget (repeatable field rows, the
// markdown preview pane).
func (rn *Renderer) Fragment(w http.ResponseWriter, page, block string, data any) {
	tmpl, ok := rn.templates[page]
	if !ok {
		http.Error(w, fmt.Sprintf("template %q not found", page), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := executeTemplate(w, tmpl, block, data); err != nil {
		http.Error(w, "template error", http.StatusInternalServerError)
	}
}

func executeTemplate(w io.Writer, tmpl *template.Template, name string, data any) error {
	return tmpl.ExecuteTemplate(w, name, data)
}

// isHTMX returns true if the request was made by HTMX.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// TemplateNames returns the parsed page names, used by tests.
func (rn *Renderer) TemplateNames() []string {
	names := make([]string, 0, len(rn.templates))
	for n := range rn.templates {
		names = append(names, n)
	}
	return names
}
