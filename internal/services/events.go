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

const eventsPath = "/events"

// EventService handles event reads and writes.
type EventService struct {
	client *backend.Client
	cache  *query.Cache
}

// EventPage is one page of events with its pagination metadata.
type EventPage struct {
	Items []models.Event
	Meta  backend.Pagination
}

// List fetches a page of the tenant's events.
func (s *EventService) List(ctx context.Context, tenant string, p listing.Params) (*EventPage, error) {
	q := listQuery(tenant, p, "title")
	if p.Status != "" {
		q.FilterEq("event_status", p.Status)
	}
	key := query.Key("events", tenant, q.Encode())

	return cachedList(ctx, s.cache, key, func(ctx context.Context) (*EventPage, error) {
		items, meta, err := backend.List[models.Event](ctx, s.client, eventsPath, q)
		if err != nil {
			return nil, fmt.Errorf("list events: %w", err)
		}
		return &EventPage{Items: items, Meta: meta}, nil
	})
}

// Get fetches one event, returning not-found for another tenant's record.
func (s *EventService) Get(ctx context.Context, tenant string, id int) (*models.Event, error) {
	key := query.Key("events", tenant, "item", strconv.Itoa(id))
	ev, err := cachedList(ctx, s.cache, key, func(ctx context.Context) (*models.Event, error) {
		e, err := backend.Get[models.Event](ctx, s.client, fmt.Sprintf("%s/%d", eventsPath, id), backend.NewQuery().Populate("poster", "category"))
		if err != nil {
			return nil, fmt.Errorf("get event %d: %w", id, err)
		}
		return e, nil
	})
	if err != nil {
		return nil, err
	}
	if ev.TenantID != tenant {
		return nil, ErrTenantMismatch
	}
	return ev, nil
}

// Create stores a new event for the tenant.
func (s *EventService) Create(ctx context.Context, tenant string, e *models.Event) (*models.Event, error) {
	e.TenantID = tenant
	created, err := backend.Create[models.Event](ctx, s.client, eventsPath, e)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.cache.Invalidate(query.Key("events", tenant))
	return created, nil
}

// Update modifies an existing event after verifying tenant ownership.
func (s *EventService) Update(ctx context.Context, tenant string, id int, e *models.Event) (*models.Event, error) {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return nil, err
	}
	e.TenantID = tenant
	updated, err := backend.Update[models.Event](ctx, s.client, fmt.Sprintf("%s/%d", eventsPath, id), e)
	if err != nil {
		return nil, fmt.Errorf("update event %d: %w", id, err)
	}
	s.cache.Invalidate(query.Key("events", tenant))
	return updated, nil
}

// Delete removes an event after verifying tenant ownership.
func (s *EventService) Delete(ctx context.Context, tenant string, id int) error {
	if _, err := s.Get(ctx, tenant, id); err != nil {
		return err
	}
	if err := s.client.Delete(ctx, fmt.Sprintf("%s/%d", eventsPath, id)); err != nil {
		return fmt.Errorf("delete event %d: %w", id, err)
	}
	s.cache.Invalidate(query.Key("events", tenant))
	return nil
}
