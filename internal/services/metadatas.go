// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package services

import (
	"context"
	"fmt"
	"strconv"

	"dashpress/internal/backend"
	"dashpress/internal/listing"
	"dashpress/internal/models"
	"dashpress/internal/query"
)

const metaDatasPath = "/meta-datas"

// MetaDataService handles entries submitted against meta formats.
type MetaDataService struct {
	client *backend.Client
	cache  *query.Cache
}

// MetaDataPage is one page of entries with its pagination metadata.
type MetaDataPage struct {
	Items []models.MetaData
	Meta  backend.Pagination
}

// List fetches a page of the tenant's entries, optionally narrowed to
// one format.
func (s *MetaDataService) List(ctx context.Context, tenant string, formatID int, p listing.Params) (*MetaDataPage, error) {
	q := listQuery(tenant, p, "handle")
	if formatID > 0 {
		q.FilterEq("meta_format", strconv.Itoa(formatID))
	}
	key := query.Key("metadatas", tenant, q.Encode())

	return cachedList(ctx, s.cache, key, func(ctx context.Context) (*MetaDataPage, error) {
		items, meta, err := backend.List[models.MetaData](ctx, s.client, metaDatasPath, q)
		if err != nil {
			return nil, fmt.Errorf("list meta datas: %w", err)
		}
		return &MetaDataPage{Items: items, Meta: meta}, nil
	})
}

// Get fetches one entry, returning not-found for another tenant's record.
func (s *MetaDataService) Get(ctx context.Context, tenant string, id int) (*models.MetaData, error) {
	d, err := backend.Get[models.MetaData](ctx, s.client, fmt.Sprintf("%s/%d", metaDatasPath, id), backend.NewQuery().Populate("meta_format"))
	if err != nil {
		return nil, fmt.Errorf("get meta data %d: %w", id, err)
	}
	if d.TenantID != tenant {
		return nil, ErrTenantMismatch
	}
	return d, nil
}

// Create stores a new entry. Duplicate-handle validation errors from
// the backend pass through verbatim for the form to display.
func (s *MetaDataService) Create(ctx context.Context, tenant string, d *models.MetaData) (*models.MetaData, error) {
	d.TenantID = tenant
	created, err := backend.Create[models.MetaData](ctx, s.client, metaDatasPath, d)
	if err != nil {
		return nil, fmt.Errorf("create meta data: %w", err)
	}
	s.cache.Invalidate(query.Key("metadatas", tenant))
	return created, nil
}

// Update modifies an entry after verifying tenant ownership.
func (s *MetaDataService) Update(ctx context.Context, tenant string, id int, d *models.MetaData) (*models.MetaData, error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}
	d.TenantID = tenant
	updated, err := backend.Update[models.MetaData](ctx, s.client, fmt.Sprintf("%s/%d", metaDatasPath, id), d)
	if err != nil {
		return nil, fmt.Errorf("update meta data %d: %w", id, err)
	}
	s.cache.Invalidate(query.Key("metadatas", tenant))
	return updated, nil
}

// Delete removes an entry after verifying tenant ownership.
func (s *MetaDataService) Delete(ctx context.Context, tenant string, id int) error {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return err
	}
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", metaDatasPath, id)); err != nil {
		return fmt.Errorf("delete meta data %d: %w", id, err)
	}
	s.cache.Invalidate(query.Key("metadatas", tenant))
	return nil
}
