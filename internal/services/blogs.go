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

const blogsPath = "/blogs"

// BlogService handles blog post reads and writes.
type BlogService struct {
	client *backend.Client
	cache  *query.Cache
}

// BlogPage is one page of blog posts with its pagination metadata.
type BlogPage struct {
	Items []models.Blog
	Meta  backend.Pagination
}

// List fetches a page of the tenant's blog posts.
func (s *BlogService) List(ctx context.Context, tenant string, p listing.Params) (*BlogPage, error) {
	q := listQuery(tenant, p, "title")
	if p.Status != "" {
		q.FilterEq("blog_status", p.Status)
	}
	key := query.Key("blogs", tenant, q.Encode())

	return cachedList(ctx, s.cache, key, func(ctx context.Context) (*BlogPage, error) {
		items, meta, err := backend.List[models.Blog](ctx, s.client, blogsPath, q)
		if err != nil {
			return nil, fmt.Errorf("list blogs: %w", err)
		}
		return &BlogPage{Items: items, Meta: meta}, nil
	})
}

// Get fetches one blog post, returning not-found for any record that
// belongs to a different tenant.
func (s *BlogService) Get(ctx context.Context, tenant string, id int) (*models.Blog, error) {
	key := query.Key("blogs", tenant, "item", strconv.Itoa(id))
	blog, err := cachedList(ctx, s.cache, key, func(ctx context.Context) (*models.Blog, error) {
		b, err := backend.Get[models.Blog](ctx, s.client, fmt.Sprintf("%s/%d", blogsPath, id), backend.NewQuery().Populate("image", "categories", "seo"))
		if err != nil {
			return nil, fmt.Errorf("get blog %d: %w", id, err)
		}
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	if blog.TenantID != tenant {
		return nil, ErrTenantMismatch
	}
	return blog, nil
}

// Create stores a new blog post for the tenant and invalidates the
// tenant's blog cache.
func (s *BlogService) Create(ctx context.Context, tenant string, b *models.Blog) (*models.Blog, error) {
	b.TenantID = tenant
	created, err := backend.Create[models.Blog](ctx, s.client, blogsPath, b)
	if err != nil {
		return nil, fmt.Errorf("create blog: %w", err)
	}
	s.cache.Invalidate(query.Key("blogs", tenant))
	return created, nil
}

// Update modifies an existing blog post after verifying tenant ownership.
func (s *BlogService) Update(ctx context.Context, tenant string, id int, b *models.Blog) (*models.Blog, error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}
	b.TenantID = tenant
	updated, err := backend.Update[models.Blog](ctx, s.client, fmt.Sprintf("%s/%d", blogsPath, id), b)
	if err != nil {
		return nil, fmt.Errorf("update blog %d: %w", id, err)
	}
	s.cache.Invalidate(query.Key("blogs", tenant))
	return updated, nil
}

// Delete removes a blog post after verifying tenant ownership.
func (s *BlogService) Delete(ctx context.Context, tenant string, id int) error {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return err
	}
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", blogsPath, id)); err != nil {
		return fmt.Errorf("delete blog %d: %w", id, err)
	}
	s.cache.Invalidate(query.Key("blogs", tenant))
	return nil
}
