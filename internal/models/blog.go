// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the entity records mirrored from the headless
// CMS backend. Every tenant-scoped record carries a TenantID; the
// service layer guarantees no record from another tenant ever reaches
// the presentation layer.
package models

import (
	"time"
)

// BlogStatus represents the publishing state of a blog post.
type BlogStatus string

const (
	BlogStatusDraft     BlogStatus = "draft"
	BlogStatusPublished BlogStatus = "published"
	BlogStatusArchived  BlogStatus = "archived"
)

// SEO holds the search/open-graph metadata sub-object shared by content
// entities.
type SEO struct {
	MetaTitle       string `json:"meta_title,omitempty"`
	MetaDescription string `json:"meta_description,omitempty"`
	MetaImageID     *int   `json:"meta_image,omitempty"`
	OGTitle         string `json:"og_title,omitempty"`
	OGDescription   string `json:"og_description,omitempty"`
}

// Blog represents one blog post record.
type Blog struct {
	ID          int        `json:"id"`
	DocumentID  string     `json:"documentId,omitempty"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Content     string     `json:"content"`
	Status      BlogStatus `json:"blog_status"`
	Author      string     `json:"author"`
	ImageID     *int       `json:"image,omitempty"`
	CategoryIDs []int      `json:"categories,omitempty"`
	Tags        string     `json:"tags,omitempty"` // comma-joined token list
	SEO         *SEO       `json:"seo,omitempty"`
	TenantID    string     `json:"tenant_id"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// IsPublished returns true if the post is in published status.
func (b *Blog) IsPublished() bool {
	return b.Status == BlogStatusPublished
}
