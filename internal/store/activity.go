// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists the dashboard's own operational data in
// PostgreSQL. Content records live in the backend; this package only
// keeps what the backend does not track, currently the activity log
// shown on the dashboard home page.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Activity actions recorded against content entities.
const (
	ActionCreated   = "created"
	ActionUpdated   = "updated"
	ActionDeleted   = "deleted"
	ActionPublished = "published"
)

// Activity is one audit entry: who did what to which record.
type Activity struct {
	ID         int64
	TenantID   string
	UserID     int
	UserEmail  string
	Action     string
	Entity     string // "blog", "event", "category", "meta_format", "meta_data", "media"
	EntityID   int
	EntityName string
	OccurredAt time.Time
}

// ActivityStore manages the activity log table.
type ActivityStore struct {
	db *sql.DB
}

// NewActivityStore returns a new ActivityStore.
func NewActivityStore(db *sql.DB) *ActivityStore {
	return &ActivityStore{db: db}
}

// Record inserts one activity entry. Failures are the caller's to log
// and swallow; an audit miss must never fail the mutation it describes.
func (s *ActivityStore) Record(ctx context.Context, a Activity) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity_log (tenant_id, user_id, user_email, action, entity, entity_id, entity_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, a.TenantID, a.UserID, a.UserEmail, a.Action, a.Entity, a.EntityID, a.EntityName)
	if err != nil {
		return fmt.Errorf("record activity: %w", err)
	}
	return nil
}

// Recent returns the tenant's newest entries, newest first.
func (s *ActivityStore) Recent(ctx context.Context, tenantID string, limit int) ([]Activity, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tenant_id, user_id, user_email, action, entity, entity_id, entity_name, occurred_at
		FROM activity_log
		WHERE tenant_id = $1
		ORDER BY occurred_at DESC
		LIMIT $2
	`, tenantID, limit)
	if err != nil {
		return nil, fmt.Errorf("list activity: %w", err)
	}
	defer rows.Close()

	var items []Activity
	for rows.Next() {
		var a Activity
		err := rows.Scan(
			&a.ID, &a.TenantID, &a.UserID, &a.UserEmail,
			&a.Action, &a.Entity, &a.EntityID, &a.EntityName, &a.OccurredAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan activity: %w", err)
		}
		items = append(items, a)
	}
	return items, rows.Err()
}

// Prune deletes entries older than the retention window. Run
// periodically from main.
func (s *ActivityStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM activity_log WHERE occurred_at < now() - $1::interval
	`, fmt.Sprintf("%d seconds", int(olderThan.Seconds())))
	if err != nil {
		return 0, fmt.Errorf("prune activity: %w", err)
	}
	return res.RowsAffected()
}
