// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"dashpress/internal/metaform"
)

// Placement controls where MetaData entries for a format are rendered
// on the public site.
type Placement string

const (
	PlacementSidebar Placement = "sidebar"
	PlacementPage    Placement = "page"
	PlacementBoth    Placement = "both"
)

// MetaFormat is a user-defined form schema: an ordered list of typed
// field-definition components authored in the dashboard's format builder.
type MetaFormat struct {
	ID          int              `json:"id"`
	DocumentID  string           `json:"documentId,omitempty"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Placement   Placement        `json:"placement"`
	Fields      []metaform.Field `json:"from_formate"`
	TenantID    string           `json:"tenant_id"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// MetaData is one entry submitted against a MetaFormat. Handle is
// unique per (tenant, format) — the backend enforces uniqueness and the
// dashboard surfaces its duplicate-handle error verbatim. The payload's
// keys match the format's field slugs at creation time.
type MetaData struct {
	ID         int            `json:"id"`
	DocumentID string         `json:"documentId,omitempty"`
	Handle     string         `json:"handle"`
	FormatID   int            `json:"meta_format"`
	Payload    map[string]any `json:"payload"`
	TenantID   string         `json:"tenant_id"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}
