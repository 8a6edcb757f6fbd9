// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package services

import (
	"context"
	"fmt"

	"dashpress/internal/backend"
	"dashpress/internal/models"
)

// AuthService authenticates dashboard users against the backend. The
// dashboard holds no credentials of its own; it exchanges the login
// form for a bearer token and carries that token in the session.
type AuthService struct {
	client *backend.Client
}

// Credentials is the login form payload. The backend accepts either
// email or username as the identifier.
type Credentials struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// Registration is the sign-up form payload.
type Registration struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	JWT  string      `json:"jwt"`
	User models.User `json:"user"`
}

// Login exchanges credentials for a bearer token and the user record.
func (s *AuthService) Login(ctx context.Context, creds Credentials) (string, *models.User, error) {
	var resp authResponse
	if err := s.client.Post(ctx, "/auth/local", creds, &resp); err != nil {
		return "", nil, fmt.Errorf("login: %w", err)
	}
	return resp.JWT, &resp.User, nil
}

// Register creates a new account and returns its token and user record.
func (s *AuthService) Register(ctx context.Context, reg Registration) (string, *models.User, error) {
	var resp authResponse
	if err := s.client.Post(ctx, "/auth/local/register", reg, &resp); err != nil {
		return "", nil, fmt.Errorf("register: %w", err)
	}
	return resp.JWT, &resp.User, nil
}

// Me fetches the user record for the token in ctx, used to validate a
// session on sensitive pages.
func (s *AuthService) Me(ctx context.Context) (*models.User, error) {
	var user models.User
	if err := s.client.GetJSON(ctx, "/users/me", &user); err != nil {
		return nil, fmt.Errorf("fetch current user: %w", err)
	}
	return &user, nil
}
