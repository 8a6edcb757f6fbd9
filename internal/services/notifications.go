// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package services

import (
	"context"
	"errors"
	"fmt"

	"dashpress/internal/backend"
	"dashpress/internal/listing"
	"dashpress/internal/models"
)

const notificationsPath = "/notifications"

// NotificationService reads and marks tenant notifications. It skips
// the query cache so the bell count never goes stale.
type NotificationService struct {
	client *backend.Client
}

// NotificationPage is one page of notifications with its pagination metadata.
type NotificationPage struct {
	Items []models.Notification
	Meta  backend.Pagination
}

// List fetches a page of the tenant's notifications newest-first.
func (s *NotificationService) List(ctx context.Context, tenant string, p listing.Params) (*NotificationPage, error) {
	q := backend.NewQuery().
		FilterEq(tenantField, tenant).
		Sort("createdAt", "desc").
		Paginate(p.Page, p.PageSize)
	items, meta, err := backend.List[models.Notification](ctx, s.client, notificationsPath, q)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return &NotificationPage{Items: items, Meta: meta}, nil
}

// Recent fetches the newest n notifications for the bell dropdown.
func (s *NotificationService) Recent(ctx context.Context, tenant string, n int) ([]models.Notification, error) {
	page, err := s.List(ctx, tenant, listing.Params{Page: 1, PageSize: n})
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

// UnreadCount returns how many notifications the tenant has not read.
func (s *NotificationService) UnreadCount(ctx context.Context, tenant string) (int, error) {
	q := backend.NewQuery().
		FilterEq(tenantField, tenant).
		FilterEq("read", "false").
		Paginate(1, 1)
	_, meta, err := backend.List[models.Notification](ctx, s.client, notificationsPath, q)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications: %w", err)
	}
	return meta.Total, nil
}

// MarkRead flags one notification as read after verifying tenant ownership.
func (s *NotificationService) MarkRead(ctx context.Context, tenant string, id int) error {
	n, err := backend.Get[models.Notification](ctx, s.client, fmt.Sprintf("%s/%d", notificationsPath, id), nil)
	if err != nil {
		return fmt.Errorf("get notification %d: %w", id, err)
	}
	if n.TenantID != tenant {
		return ErrTenantMismatch
	}
	patch := map[string]any{"read": true}
	if _, err := backend.Update[models.Notification](ctx, s.client, fmt.Sprintf("%s/%d", notificationsPath, id), patch); err != nil {
		return fmt.Errorf("mark notification %d read: %w", id, err)
	}
	return nil
}

// MarkAllRead flags every unread notification as read. The unread set
// is snapshotted across all pages before any record is touched, so
// marking cannot shift items out of later pages mid-sweep. Failures on
// individual records do not stop the sweep; the joined error reports
// each one that could not be updated while the rest stay marked.
func (s *NotificationService) MarkAllRead(ctx context.Context, tenant string) error {
	var unread []models.Notification
	for page := 1; ; page++ {
		q := backend.NewQuery().
			FilterEq(tenantField, tenant).
			FilterEq("read", "false").
			Paginate(page, 100)
		items, meta, err := backend.List[models.Notification](ctx, s.client, notificationsPath, q)
		if err != nil {
			return fmt.Errorf("list unread notifications: %w", err)
		}
		unread = append(unread, items...)
		if len(items) == 0 || page >= meta.PageCount {
			break
		}
	}

	var errs []error
	patch := map[string]any{"read": true}
	for _, n := range unread {
		if _, err := backend.Update[models.Notification](ctx, s.client, fmt.Sprintf("%s/%d", notificationsPath, n.ID), patch); err != nil {
			errs = append(errs, fmt.Errorf("notification %d: %w", n.ID, err))
		}
	}
	return errors.Join(errs...)
}
