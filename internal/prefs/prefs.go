// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package prefs persists per-user list preferences (view mode, page
// size, sort) in Valkey so the next visit to a list restores the last
// chosen view. Keys are scoped by user and list name.
package prefs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"dashpress/internal/listing"
)

const (
	keyPrefix = "prefs:"

	// TTL keeps abandoned preference records from accumulating forever.
	TTL = 90 * 24 * time.Hour
)

// Entry is the persisted slice of listing state. Page and search terms
// are deliberately not persisted; those belong to the URL.
type Entry struct {
	View     string `json:"view"`
	PageSize int    `json:"page_size"`
	Sort     string `json:"sort"`
	Order    string `json:"order"`
}

// Store reads and writes preference entries in Valkey.
type Store struct {
	client *redis.Client
}

// NewStore creates a preference store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

// Get loads the stored entry for (userID, list). A missing or corrupt
// record yields zero defaults rather than an error; preferences are
// best-effort.
func (s *Store) Get(ctx context.Context, userID int, list string) listing.Defaults {
	raw, err := s.client.Get(ctx, key(userID, list)).Bytes()
	if err == redis.Nil {
		return listing.Defaults{}
	}
	if err != nil {
		slog.Warn("prefs get failed", "list", list, "error", err)
		return listing.Defaults{}
	}

	var e Entry
	if err := json.Unmarshal(raw, &e); err != nil {
		slog.Warn("prefs decode failed", "list", list, "error", err)
		return listing.Defaults{}
	}
	return listing.Defaults{View: e.View, PageSize: e.PageSize, Sort: e.Sort, Order: e.Order}
}

// Save stores the view-relevant slice of the given params.
func (s *Store) Save(ctx context.Context, userID int, list string, p listing.Params) error {
	e := Entry{View: p.View, PageSize: p.PageSize, Sort: p.Sort, Order: p.Order}
	raw, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("prefs marshal: %w", err)
	}
	if err := s.client.Set(ctx, key(userID, list), raw, TTL).Err(); err != nil {
		return fmt.Errorf("prefs save: %w", err)
	}
	return nil
}

func key(userID int, list string) string {
	return fmt.Sprintf("%s%d:%s", keyPrefix, userID, list)
}
