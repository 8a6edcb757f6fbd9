// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// NotificationType categorizes a notification for icon/color rendering.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
	NotificationSuccess NotificationType = "success"
	NotificationCustom  NotificationType = "custom"
)

// Notification represents one tenant-scoped notification.
type Notification struct {
	ID         int              `json:"id"`
	DocumentID string           `json:"documentId,omitempty"`
	Type       NotificationType `json:"type"`
	Title      string           `json:"title"`
	Message    string           `json:"message"`
	Read       bool             `json:"read"`
	ActionURL  string           `json:"action_url,omitempty"`
	TenantID   string           `json:"tenant_id"`
	CreatedAt  time.Time        `json:"createdAt"`
}
