// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// EventStatus represents the publishing state of an event.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "Draft"
	EventStatusPublished EventStatus = "Published"
)

// Event represents one event record.
type Event struct {
	ID               int         `json:"id"`
	DocumentID       string      `json:"documentId,omitempty"`
	Title            string      `json:"title"`
	Description      string      `json:"description"` // rich text
	StartsAt         time.Time   `json:"event_date"`
	CategoryID       *int        `json:"category,omitempty"`
	Location         string      `json:"location"`
	MapURL           string      `json:"map_url,omitempty"`
	Organizer        string      `json:"organizer"`
	PosterID         *int        `json:"poster,omitempty"`
	TargetAudience   string      `json:"target_audience,omitempty"` // comma-joined token list
	Speakers         string      `json:"speakers,omitempty"`        // comma-joined token list
	RegistrationLink string      `json:"registration_link,omitempty"`
	Status           EventStatus `json:"event_status"`
	PublishDate      *time.Time  `json:"publish_date,omitempty"`
	TenantID         string      `json:"tenant_id"`
	CreatedAt        time.Time   `json:"createdAt"`
	UpdatedAt        time.Time   `json:"updatedAt"`
}

// IsPublished returns true if the event is in published status.
func (e *Event) IsPublished() bool {
	return e.Status == EventStatusPublished
}

// IsUpcoming returns true if the event starts after the given time.
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartsAt.After(now)
}
