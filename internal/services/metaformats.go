// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package services

import (
	"context"
	"fmt"

	"dashpress/internal/backend"
	"dashpress/internal/listing"
	"dashpress/internal/models"
	"dashpress/internal/query"
)

const metaFormatsPath = "/meta-formats"

// MetaFormatService handles the user-defined form schemas.
type MetaFormatService struct {
	client *backend.Client
	cache  *query.Cache
}

// MetaFormatPage is one page of formats with its pagination metadata.
type MetaFormatPage struct {
	Items []models.MetaFormat
	Meta  backend.Pagination
}

// List fetches a page of the tenant's formats.
func (s *MetaFormatService) List(ctx context.Context, tenant string, p listing.Params) (*MetaFormatPage, error) {
	q := listQuery(tenant, p, "name")
	key := query.Key("metaformats", tenant, q.Encode())

	return cachedList(ctx, s.cache, key, func(ctx context.Context) (*MetaFormatPage, error) {
		items, meta, err := backend.List[models.MetaFormat](ctx, s.client, metaFormatsPath, q)
		if err != nil {
			return nil, fmt.Errorf("list meta formats: %w", err)
		}
		return &MetaFormatPage{Items: items, Meta: meta}, nil
	})
}

// All fetches every format the tenant has, for the entry-creation picker.
func (s *MetaFormatService) All(ctx context.Context, tenant string) ([]models.MetaFormat, error) {
	q := backend.NewQuery().
		FilterEq(tenantField, tenant).
		Sort("name", "asc").
		Paginate(1, 100)
	key := query.Key("metaformats", tenant, "all")

	page, err := cachedList(ctx, s.cache, key, func(ctx context.Context) (*MetaFormatPage, error) {
		items, meta, err := backend.List[models.MetaFormat](ctx, s.client, metaFormatsPath, q)
		if err != nil {
			return nil, fmt.Errorf("list all meta formats: %w", err)
		}
		return &MetaFormatPage{Items: items, Meta: meta}, nil
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Get fetches one format, returning not-found for another tenant's record.
func (s *MetaFormatService) Get(ctx context.Context, tenant string, id int) (*models.MetaFormat, error) {
	f, err := backend.Get[models.MetaFormat](ctx, s.client, fmt.Sprintf("%s/%d", metaFormatsPath, id), nil)
	if err != nil {
		return nil, fmt.Errorf("get meta format %d: %w", id, err)
	}
	if f.TenantID != tenant {
		return nil, ErrTenantMismatch
	}
	return f, nil
}

// Create stores a new format for the tenant.
func (s *MetaFormatService) Create(ctx context.Context, tenant string, f *models.MetaFormat) (*models.MetaFormat, error) {
	f.TenantID = tenant
	created, err := backend.Create[models.MetaFormat](ctx, s.client, metaFormatsPath, f)
	if err != nil {
		return nil, fmt.Errorf("create meta format: %w", err)
	}
	s.cache.Invalidate(query.Key("metaformats", tenant))
	return created, nil
}

// Update modifies a format after verifying tenant ownership. Entries
// created against the old field list keep their payload keys; the
// dashboard re-binds them against the new schema on next edit.
func (s *MetaFormatService) Update(ctx context.Context, tenant string, id int, f *models.MetaFormat) (*models.MetaFormat, error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}
	f.TenantID = tenant
	updated, err := backend.Update[models.MetaFormat](ctx, s.client, fmt.Sprintf("%s/%d", metaFormatsPath, id), f)
	if err != nil {
		return nil, fmt.Errorf("update meta format %d: %w", id, err)
	}
	s.cache.Invalidate(query.Key("metaformats", tenant))
	return updated, nil
}

// Delete removes a format after verifying tenant ownership and that no
// entries still reference it.
func (s *MetaFormatService) Delete(ctx context.Context, tenant string, id int) error {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return err
	}
	q := backend.NewQuery().
		FilterEq(tenantField, tenant).
		FilterEq("meta_format", fmt.Sprintf("%d", id)).
		Paginate(1, 1)
	entries, meta, err := backend.List[models.MetaData](ctx, s.client, metaDatasPath, q)
	if err != nil {
		return fmt.Errorf("check meta format %d usage: %w", id, err)
	}
	if meta.Total > 0 || len(entries) > 0 {
		return fmt.Errorf("meta format %d: %w", id, ErrFormatInUse)
	}
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", metaFormatsPath, id)); err != nil {
		return fmt.Errorf("delete meta format %d: %w", id, err)
	}
	s.cache.Invalidate(query.Key("metaformats", tenant))
	return nil
}
