// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"dashpress/internal/backend"
	"dashpress/internal/middleware"
	"dashpress/internal/query"
	"dashpress/internal/render"
	"dashpress/internal/services"
	"dashpress/internal/session"
)

// Auth groups the login, registration, and logout handlers. The backend
// owns the credentials; this layer only exchanges them for a bearer
// token and parks it in the session.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	svc      *services.Services
	cache    *query.Cache
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, svc *services.Services, cache *query.Cache) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		svc:      svc,
		cache:    cache,
	}
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	a.renderer.Page(w, r, "login", &render.PageData{Title: "Sign in"})
}

// LoginSubmit exchanges the submitted credentials for a backend token
// and creates the session.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	identifier := strings.TrimSpace(r.FormValue("identifier"))
	password := r.FormValue("password")

	token, user, err := a.svc.Auth.Login(r.Context(), services.Credentials{
		Identifier: identifier,
		Password:   password,
	})
	if err != nil {
		msg := "Invalid email or password."
		if !errors.Is(err, backend.ErrUnauthorized) && backend.AsValidation(err) == nil {
			slog.Error("login failed", "error", err)
			msg = "Sign in is temporarily unavailable. Please try again."
		}
		a.renderer.Page(w, r, "login", &render.PageData{
			Title:   "Sign in",
			Flashes: []render.Flash{{Type: "error", Message: msg}},
			Data:    map[string]any{"identifier": identifier},
		})
		return
	}

	if user.Blocked {
		a.renderer.Page(w, r, "login", &render.PageData{
			Title:   "Sign in",
			Flashes: []render.Flash{{Type: "error", Message: "This account has been blocked."}},
			Data:    map[string]any{"identifier": identifier},
		})
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: displayName(user.DisplayName, user.Username),
		TenantID:    user.TenantID,
		Token:       token,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("user signed in", "user", user.Email, "tenant", user.TenantID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// RegisterPage renders the registration form.
func (a *Auth) RegisterPage(w http.ResponseWriter, r *http.Request) {
	if middleware.SessionFromCtx(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}
	a.renderer.Page(w, r, "register", &render.PageData{Title: "Create account"})
}

// RegisterSubmit creates a backend account and signs the user straight in.
func (a *Auth) RegisterSubmit(w http.ResponseWriter, r *http.Request) {
	username := strings.TrimSpace(r.FormValue("username"))
	email := strings.TrimSpace(r.FormValue("email"))
	password := r.FormValue("password")

	keep := map[string]any{"username": username, "email": email}

	if username == "" || email == "" {
		a.renderer.Page(w, r, "register", &render.PageData{
			Title:   "Create account",
			Flashes: []render.Flash{{Type: "error", Message: "Username and email are required."}},
			Data:    keep,
		})
		return
	}
	if len(password) < 8 {
		a.renderer.Page(w, r, "register", &render.PageData{
			Title:   "Create account",
			Flashes: []render.Flash{{Type: "error", Message: "Password must be at least 8 characters."}},
			Data:    keep,
		})
		return
	}

	token, user, err := a.svc.Auth.Register(r.Context(), services.Registration{
		Username: username,
		Email:    email,
		Password: password,
	})
	if err != nil {
		msg := "Registration failed. Please try again."
		if ve := backend.AsValidation(err); ve != nil {
			msg = ve.Message
		} else {
			slog.Error("register failed", "error", err)
		}
		a.renderer.Page(w, r, "register", &render.PageData{
			Title:   "Create account",
			Flashes: []render.Flash{{Type: "error", Message: msg}},
			Data:    keep,
		})
		return
	}

	if _, err := a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: displayName(user.DisplayName, user.Username),
		TenantID:    user.TenantID,
		Token:       token,
	}); err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	slog.Info("user registered", "user", user.Email, "tenant", user.TenantID)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout destroys the session and clears the query cache before
// redirecting, so nothing fetched under the old token survives into the
// next sign-in.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		slog.Warn("session destroy failed", "error", err)
	}
	a.cache.Clear()
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func displayName(display, username string) string {
	if display != "" {
		return display
	}
	return username
}
