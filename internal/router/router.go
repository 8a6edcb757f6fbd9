// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// dashboard. Public routes cover authentication and operational
// endpoints; everything under /dashboard requires a session and passes
// the billing gate.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dashpress/internal/handlers"
	"dashpress/internal/middleware"
	"dashpress/internal/session"
	"dashpress/web"
)

// New creates the configured chi router with all middleware and route
// groups wired up.
func New(sessionStore *session.Store, auth *handlers.Auth, dash *handlers.Dashboard, billingStatus middleware.BillingStatusFunc, loginLimiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.SecureHeaders)
	r.Use(middleware.LoadSession(sessionStore))

	// Operational endpoints — no auth, no CSRF.
	r.Get("/health", healthHandler)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Embedded static assets.
	staticFS, _ := fs.Sub(web.StaticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	// Auth pages. Credential posts are rate limited per client IP.
	r.Group(func(r chi.Router) {
		r.Use(middleware.CSRF)

		r.Get("/login", auth.LoginPage)
		r.Get("/register", auth.RegisterPage)
		r.Post("/logout", auth.Logout)

		r.Group(func(r chi.Router) {
			if loginLimiter != nil {
				r.Use(loginLimiter.Middleware)
			}
			r.Post("/login", auth.LoginSubmit)
			r.Post("/register", auth.RegisterSubmit)
		})
	})

	// Authenticated dashboard.
	r.Route("/dashboard", func(r chi.Router) {
		r.Use(middleware.CSRF)
		r.Use(middleware.RequireAuth)
		r.Use(middleware.BillingGate(billingStatus))

		r.Get("/", dash.Home)
		r.Post("/preview", dash.Preview)

		r.Route("/blog", func(r chi.Router) {
			r.Get("/", dash.BlogsList)
			r.Get("/new", dash.BlogNew)
			r.Post("/", dash.BlogCreate)
			r.Get("/{id}", dash.BlogEdit)
			r.Post("/{id}", dash.BlogUpdate)
			r.Post("/{id}/delete", dash.BlogDelete)
		})

		r.Route("/event", func(r chi.Router) {
			r.Get("/", dash.EventsList)
			r.Get("/new", dash.EventNew)
			r.Post("/", dash.EventCreate)
			r.Get("/{id}", dash.EventEdit)
			r.Post("/{id}", dash.EventUpdate)
			r.Post("/{id}/delete", dash.EventDelete)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", dash.CategoriesPage)
			r.Post("/", dash.CategoryCreate)
			r.Post("/{id}", dash.CategoryUpdate)
			r.Post("/{id}/delete", dash.CategoryDelete)
		})

		r.Route("/extra-content", func(r chi.Router) {
			r.Get("/", dash.FormatsList)
			r.Get("/new", dash.FormatNew)
			r.Post("/", dash.FormatCreate)
			r.Get("/field-row", dash.FieldRow)

			r.Route("/entries", func(r chi.Router) {
				r.Get("/", dash.EntriesList)
				r.Get("/new", dash.EntryNew)
				r.Post("/", dash.EntryCreate)
				r.Post("/form/append", dash.EntryFormMutate)
				r.Post("/form/remove", dash.EntryFormMutate)
				r.Post("/form/move", dash.EntryFormMutate)
				r.Get("/{id}", dash.EntryEdit)
				r.Post("/{id}", dash.EntryUpdate)
				r.Post("/{id}/delete", dash.EntryDelete)
			})

			r.Get("/{id}", dash.FormatEdit)
			r.Post("/{id}", dash.FormatUpdate)
			r.Post("/{id}/delete", dash.FormatDelete)
		})

		r.Route("/web-media", func(r chi.Router) {
			r.Get("/", dash.MediaList)
			r.Get("/new", dash.MediaNew)
			r.Get("/picker", dash.MediaPicker)
			r.Post("/", dash.MediaCreate)
			r.Get("/{id}/edit", dash.MediaEdit)
			r.Post("/{id}", dash.MediaUpdate)
			r.Post("/{id}/delete", dash.MediaDelete)
		})

		r.Route("/notifications", func(r chi.Router) {
			r.Get("/", dash.NotificationsList)
			r.Get("/bell", dash.NotificationsBell)
			r.Post("/{id}/read", dash.NotificationRead)
			r.Post("/read-all", dash.NotificationsReadAll)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", dash.SettingsPage)
			r.Post("/prefs", dash.PrefsSave)
			r.Post("/dismiss", dash.DismissWarning)
		})
	})

	// Signed-out landing redirects to the login page.
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
