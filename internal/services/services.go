// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package services wraps the backend client with per-entity services.
// Every service scopes reads and writes to the caller's tenant: list
// queries filter on the tenant id and detail fetches are post-checked,
// converting any cross-tenant access into a not-found. Reads go through
// the query cache; successful mutations invalidate their entity's keys.
package services

import (
	"context"
	"errors"
	"fmt"

	"dashpress/internal/backend"
	"dashpress/internal/listing"
	"dashpress/internal/query"
)

// tenantField is the backend attribute carrying the tenant id. The
// upstream schema historically mixed "key" and "tenent_id" across
// content types; the backend now exposes tenant_id uniformly and this
// constant is the single place to change if that ever shifts.
const tenantField = "tenant_id"

// ErrTenantMismatch is wrapped into backend.ErrNotFound before leaving
// the service layer; it exists so tests can assert the cause.
var ErrTenantMismatch = fmt.Errorf("%w: record belongs to another tenant", backend.ErrNotFound)

// ErrFormatInUse rejects deleting a format while entries still reference it.
var ErrFormatInUse = errors.New("format has entries and cannot be deleted")

// Services bundles every entity service behind one constructor.
type Services struct {
	Blogs         *BlogService
	Events        *EventService
	Categories    *CategoryService
	MetaFormats   *MetaFormatService
	MetaDatas     *MetaDataService
	Payments      *PaymentService
	Notifications *NotificationService
	Media         *MediaService
	Auth          *AuthService
}

// New wires all services onto a shared client and cache.
func New(client *backend.Client, cache *query.Cache) *Services {
	return &Services{
		Blogs:         &BlogService{client: client, cache: cache},
		Events:        &EventService{client: client, cache: cache},
		Categories:    &CategoryService{client: client, cache: cache},
		MetaFormats:   &MetaFormatService{client: client, cache: cache},
		MetaDatas:     &MetaDataService{client: client, cache: cache},
		Payments:      &PaymentService{client: client, cache: cache},
		Notifications: &NotificationService{client: client},
		Media:         &MediaService{client: client, cache: cache},
		Auth:          &AuthService{client: client},
	}
}

// Cache returns the shared query cache, exposed so logout can clear it
// synchronously before redirecting.
func (s *Services) Cache() *query.Cache {
	// All caching services share one cache instance.
	return s.Blogs.cache
}

// listQuery builds the canonical backend query for a tenant-scoped,
// paginated, sorted list with an optional search on searchField.
func listQuery(tenant string, p listing.Params, searchField string) *backend.Query {
	q := backend.NewQuery().
		FilterEq(tenantField, tenant).
		Sort(p.Sort, p.Order).
		Paginate(p.Page, p.PageSize)
	if p.Search != "" && searchField != "" {
		q.FilterContains(searchField, p.Search)
	}
	return q
}

// cachedList runs a list fetch through the cache under a canonical key.
func cachedList[T any](ctx context.Context, c *query.Cache, key string, fn func(context.Context) (*T, error)) (*T, error) {
	val, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return fn(ctx)
	})
	if err != nil {
		return nil, err
	}
	out, ok := val.(*T)
	if !ok {
		return nil, errors.New("services: cache holds unexpected type")
	}
	return out, nil
}
