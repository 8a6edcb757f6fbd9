// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package metaform

import (
	"fmt"

	"github.com/google/uuid"
)

// Item is one entry of a repeatable field. Key is an opaque identity
// assigned at creation and never derived from position, so reordering
// and removal cannot corrupt another item's bound input state.
type Item struct {
	Key   string
	Value string
}

// ArrayValue is the ordered, reorderable value of a repeatable field.
type ArrayValue struct {
	Items []Item
}

// NewArrayValue wraps existing raw values into items with fresh keys.
// Used when pre-populating an edit form from a stored payload.
func NewArrayValue(values []string) *ArrayValue {
	a := &ArrayValue{}
	for _, v := range values {
		a.Items = append(a.Items, Item{Key: uuid.NewString(), Value: v})
	}
	return a
}

// Append adds a new item holding the field's default value and returns
// its key.
func (a *ArrayValue) Append(defaultValue string) string {
	item := Item{Key: uuid.NewString(), Value: defaultValue}
	a.Items = append(a.Items, item)
	return item.Key
}

// Remove deletes the item at index i. Remaining items keep their
// relative order, keys, and values.
func (a *ArrayValue) Remove(i int) error {
	if i < 0 || i >= len(a.Items) {
		return fmt.Errorf("metaform: remove index %d out of range [0,%d)", i, len(a.Items))
	}
	a.Items = append(a.Items[:i], a.Items[i+1:]...)
	return nil
}

// Move relocates the item at from to position to, shifting the items in
// between. All other items' values are untouched.
func (a *ArrayValue) Move(from, to int) error {
	n := len(a.Items)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("metaform: move %d→%d out of range [0,%d)", from, to, n)
	}
	if from == to {
		return nil
	}
	item := a.Items[from]
	rest := append(a.Items[:from:from], a.Items[from+1:]...)
	a.Items = append(rest[:to:to], append([]Item{item}, rest[to:]...)...)
	return nil
}

// Values returns the raw values in order, dropping identities.
// Used when serializing the payload for submission.
func (a *ArrayValue) Values() []string {
	out := make([]string, len(a.Items))
	for i, item := range a.Items {
		out[i] = item.Value
	}
	return out
}

// Reorder rearranges items to match the given key order. Keys missing
// from the list keep their items appended in original order; unknown
// keys are ignored. Used when the client posts a drag-reorder result.
func (a *ArrayValue) Reorder(keys []string) {
	byKey := make(map[string]Item, len(a.Items))
	for _, item := range a.Items {
		byKey[item.Key] = item
	}

	var reordered []Item
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if item, ok := byKey[k]; ok && !seen[k] {
			reordered = append(reordered, item)
			seen[k] = true
		}
	}
	for _, item := range a.Items {
		if !seen[item.Key] {
			reordered = append(reordered, item)
		}
	}
	a.Items = reordered
}
