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
	"dashpress/internal/slug"
)

const categoriesPath = "/categories"

// CategoryService handles category reads and writes.
type CategoryService struct {
	client *backend.Client
	cache  *query.Cache
}

// CategoryPage is one page of categories with its pagination metadata.
type CategoryPage struct {
	Items []models.Category
	Meta  backend.Pagination
}

// List fetches a page of the tenant's categories.
func (s *CategoryService) List(ctx context.Context, tenant string, p listing.Params) (*CategoryPage, error) {
	q := listQuery(tenant, p, "name")
	key := query.Key("categories", tenant, q.Encode())

	return cachedList(ctx, s.cache, key, func(ctx context.Context) (*CategoryPage, error) {
		items, meta, err := backend.List[models.Category](ctx, s.client, categoriesPath, q)
		if err != nil {
			return nil, fmt.Errorf("list categories: %w", err)
		}
		return &CategoryPage{Items: items, Meta: meta}, nil
	})
}

// All fetches every category the tenant has, for select dropdowns.
func (s *CategoryService) All(ctx context.Context, tenant string) ([]models.Category, error) {
	q := backend.NewQuery().
		FilterEq(tenantField, tenant).
		Sort("name", "asc").
		Paginate(1, 100)
	key := query.Key("categories", tenant, "all")

	page, err := cachedList(ctx, s.cache, key, func(ctx context.Context) (*CategoryPage, error) {
		items, meta, err := backend.List[models.Category](ctx, s.client, categoriesPath, q)
		if err != nil {
			return nil, fmt.Errorf("list all categories: %w", err)
		}
		return &CategoryPage{Items: items, Meta: meta}, nil
	})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// Get fetches one category, returning not-found for another tenant's record.
func (s *CategoryService) Get(ctx context.Context, tenant string, id int) (*models.Category, error) {
	c, err := backend.Get[models.Category](ctx, s.client, fmt.Sprintf("%s/%d", categoriesPath, id), nil)
	if err != nil {
		return nil, fmt.Errorf("get category %d: %w", id, err)
	}
	if c.TenantID != tenant {
		return nil, ErrTenantMismatch
	}
	return c, nil
}

// Create stores a new category, deriving the slug from its name when
// the caller left it blank.
func (s *CategoryService) Create(ctx context.Context, tenant string, c *models.Category) (*models.Category, error) {
	c.TenantID = tenant
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
	}
	created, err := backend.Create[models.Category](ctx, s.client, categoriesPath, c)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	s.cache.Invalidate(query.Key("categories", tenant))
	return created, nil
}

// Update modifies an existing category after verifying tenant ownership.
func (s *CategoryService) Update(ctx context.Context, tenant string, id int, c *models.Category) (*models.Category, error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}
	c.TenantID = tenant
	if c.Slug == "" {
		c.Slug = slug.Generate(c.Name)
	}
	updated, err := backend.Update[models.Category](ctx, s.client, fmt.Sprintf("%s/%d", categoriesPath, id), c)
	if err != nil {
		return nil, fmt.Errorf("update category %d: %w", id, err)
	}
	s.cache.Invalidate(query.Key("categories", tenant))
	return updated, nil
}

// Delete removes a category after verifying tenant ownership.
func (s *CategoryService) Delete(ctx context.Context, tenant string, id int) error {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return err
	}
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", categoriesPath, id)); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	s.cache.Invalidate(query.Key("categories", tenant))
	return nil
}
