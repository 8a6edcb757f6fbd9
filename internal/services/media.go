// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"dashpress/internal/backend"
	"dashpress/internal/listing"
	"dashpress/internal/models"
	"dashpress/internal/query"
)

const (
	webMediasPath = "/web-medias"
	uploadPath    = "/upload"
)

// MediaService manages the tenant's media library: the tenant-scoped
// WebMedia wrappers plus the file uploads behind them.
type MediaService struct {
	client *backend.Client
	cache  *query.Cache
}

// MediaPage is one page of media records with its pagination metadata.
type MediaPage struct {
	Items []models.WebMedia
	Meta  backend.Pagination
}

// List fetches a page of the tenant's media records with files populated.
func (s *MediaService) List(ctx context.Context, tenant string, p listing.Params) (*MediaPage, error) {
	q := listQuery(tenant, p, "name").Populate("media")
	if p.Status != "" {
		// The media list reuses the status slot as a category filter.
		q.FilterEq("category", p.Status)
	}
	key := query.Key("media", tenant, q.Encode())

	return cachedList(ctx, s.cache, key, func(ctx context.Context) (*MediaPage, error) {
		items, meta, err := backend.List[models.WebMedia](ctx, s.client, webMediasPath, q)
		if err != nil {
			return nil, fmt.Errorf("list media: %w", err)
		}
		return &MediaPage{Items: items, Meta: meta}, nil
	})
}

// Get fetches one media record, returning not-found for another tenant's.
func (s *MediaService) Get(ctx context.Context, tenant string, id int) (*models.WebMedia, error) {
	m, err := backend.Get[models.WebMedia](ctx, s.client, fmt.Sprintf("%s/%d", webMediasPath, id), backend.NewQuery().Populate("media"))
	if err != nil {
		return nil, fmt.Errorf("get media %d: %w", id, err)
	}
	if m.TenantID != tenant {
		return nil, ErrTenantMismatch
	}
	return m, nil
}

// UploadFile streams a file to the backend's upload endpoint and returns
// the created file record.
func (s *MediaService) UploadFile(ctx context.Context, filename, contentType string, file io.Reader) (*models.Media, error) {
	body, err := s.client.Upload(ctx, uploadPath, filename, contentType, file)
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", filename, err)
	}
	// The upload endpoint answers with a bare array, not a data envelope.
	var files []models.Media
	if err := json.Unmarshal(body, &files); err != nil {
		return nil, fmt.Errorf("decode upload response: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("upload returned no file record")
	}
	return &files[0], nil
}

// Create stores a new media record for the tenant.
func (s *MediaService) Create(ctx context.Context, tenant string, m *models.WebMedia) (*models.WebMedia, error) {
	m.TenantID = tenant
	created, err := backend.Create[models.WebMedia](ctx, s.client, webMediasPath, m)
	if err != nil {
		return nil, fmt.Errorf("create media: %w", err)
	}
	s.cache.Invalidate(query.Key("media", tenant))
	return created, nil
}

// Update modifies a media record after verifying tenant ownership.
func (s *MediaService) Update(ctx context.Context, tenant string, id int, m *models.WebMedia) (*models.WebMedia, error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}
	m.TenantID = tenant
	updated, err := backend.Update[models.WebMedia](ctx, s.client, fmt.Sprintf("%s/%d", webMediasPath, id), m)
	if err != nil {
		return nil, fmt.Errorf("update media %d: %w", id, err)
	}
	s.cache.Invalidate(query.Key("media", tenant))
	return updated, nil
}

// Delete removes a media record after verifying tenant ownership. The
// underlying file stays in the library; the backend garbage-collects
// orphans on its own schedule.
func (s *MediaService) Delete(ctx context.Context, tenant string, id int) error {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return err
	}
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", webMediasPath, id)); err != nil {
		return fmt.Errorf("delete media %d: %w", id, err)
	}
	s.cache.Invalidate(query.Key("media", tenant))
	return nil
}
