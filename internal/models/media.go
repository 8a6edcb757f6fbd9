// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"fmt"
	"strings"
	"time"
)

// MediaFormat is one pre-scaled variant of an uploaded file.
type MediaFormat struct {
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
	Size   int64  `json:"size"`
}

// Media represents an uploaded file record in the backend's media library.
type Media struct {
	ID        int                    `json:"id"`
	Name      string                 `json:"name"`
	URL       string                 `json:"url"`
	Mime      string                 `json:"mime"`
	Width     int                    `json:"width"`
	Height    int                    `json:"height"`
	SizeBytes int64                  `json:"size"`
	Formats   map[string]MediaFormat `json:"formats,omitempty"` // keyed "thumbnail", "small", "medium", "large"
	CreatedAt time.Time              `json:"createdAt"`
}

// IsImage returns true if the media item is an image type.
func (m *Media) IsImage() bool {
	return strings.HasPrefix(m.Mime, "image/")
}

// ThumbURL returns the thumbnail variant URL, falling back to the
// original when no thumbnail was generated.
func (m *Media) ThumbURL() string {
	if f, ok := m.Formats["thumbnail"]; ok {
		return f.URL
	}
	return m.URL
}

// HumanSize returns a human-readable file size string.
func (m *Media) HumanSize() string {
	const (
		kb = 1024
		mb = 1024 * kb
	)
	switch {
	case m.SizeBytes >= mb:
		return fmt.Sprintf("%.1f MB", float64(m.SizeBytes)/float64(mb))
	case m.SizeBytes >= kb:
		return fmt.Sprintf("%.0f KB", float64(m.SizeBytes)/float64(kb))
	default:
		return fmt.Sprintf("%d B", m.SizeBytes)
	}
}

// WebMedia is the tenant-scoped metadata wrapper around an uploaded file.
// The file record itself is tenant-neutral; WebMedia carries the name,
// alt text, and organization the dashboard shows.
type WebMedia struct {
	ID          int       `json:"id"`
	DocumentID  string    `json:"documentId,omitempty"`
	Name        string    `json:"name"`
	AltText     string    `json:"alt_text,omitempty"`
	Tags        string    `json:"tags,omitempty"` // comma-joined token list
	Category    string    `json:"category,omitempty"`
	FileID      *int      `json:"media,omitempty"`
	File        *Media    `json:"media_file,omitempty"`    // populated on request
	ExternalURL string    `json:"external_url,omitempty"` // set when the file went straight to S3
	TenantID    string    `json:"tenant_id"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
