// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metaform implements the dynamic form system for extra content.
// A MetaFormat stored on the backend declares an ordered list of typed
// field definitions; this package decodes those definitions into a
// tagged union, builds renderable widgets from them, validates and
// converts submitted values, and manages repeatable (array) fields with
// stable per-item identity.
package metaform

import (
	"encoding/json"
	"fmt"
	"strings"

	"dashpress/internal/slug"
)

// Kind discriminates the field-definition union.
type Kind string

const (
	KindText    Kind = "text"
	KindNumber  Kind = "number"
	KindEnum    Kind = "enum"
	KindDate    Kind = "date"
	KindBoolean Kind = "boolean"
	KindMedia   Kind = "media"

	// KindUnknown is assigned to component kinds this client does not
	// recognize. Unknown fields render as inert placeholders and are
	// skipped by validation, preserving forward compatibility with
	// backend-added kinds.
	KindUnknown Kind = "unknown"
)

// componentKinds maps the backend's component discriminator to a Kind.
var componentKinds = map[string]Kind{
	"form.text-field":    KindText,
	"form.number-field":  KindNumber,
	"form.enum-field":    KindEnum,
	"form.date-field":    KindDate,
	"form.boolean-field": KindBoolean,
	"form.media-field":   KindMedia,
}

// TextInput selects the widget for a text field.
type TextInput string

const (
	TextPlain TextInput = "plain"
	TextRich  TextInput = "rich"
	TextEmail TextInput = "email"
)

// TextAttrs holds text-specific attributes.
type TextAttrs struct {
	Input     TextInput `json:"input_type"`
	MinLength int       `json:"min_length,omitempty"`
	MaxLength int       `json:"max_length,omitempty"`
}

// NumberAttrs holds number-specific attributes.
type NumberAttrs struct {
	Integer bool     `json:"integer"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
}

// EnumAttrs holds enum-specific attributes. Options is the allowed
// value list declared by the format author.
type EnumAttrs struct {
	Multiple bool     `json:"multiple"`
	Options  []string `json:"options"`
}

// DateAttrs holds date-specific attributes.
type DateAttrs struct {
	WithTime bool `json:"with_time"`
}

// Field is one typed entry in a MetaFormat's field list. Exactly one of
// the attrs pointers is non-nil, matching Kind. Repeatable wraps the
// field in an ordered, reorderable array.
type Field struct {
	Kind        Kind
	RawKind     string // original component name, kept for unknown kinds
	Label       string
	Required    bool
	Repeatable  bool
	Placeholder string
	Default     string

	Text   *TextAttrs
	Number *NumberAttrs
	Enum   *EnumAttrs
	Date   *DateAttrs
}

// Slug returns the payload key for this field, derived from its label.
// MetaData payload keys must match these slugs.
func (f *Field) Slug() string {
	return slug.Generate(f.Label)
}

// fieldJSON is the wire shape of a field-definition component.
type fieldJSON struct {
	Component   string          `json:"__component"`
	Label       string          `json:"label"`
	Required    bool            `json:"required"`
	Repeatable  bool            `json:"repeatable"`
	Placeholder string          `json:"placeholder,omitempty"`
	Default     string          `json:"default,omitempty"`
	Attrs       json.RawMessage `json:"attrs,omitempty"`
}

// UnmarshalJSON decodes one field-definition component, dispatching on
// the __component discriminator. Unrecognized components decode into an
// unknown field rather than failing, so a format authored against a
// newer backend still loads.
func (f *Field) UnmarshalJSON(data []byte) error {
	var raw fieldJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("metaform: decode field: %w", err)
	}

	f.RawKind = raw.Component
	f.Label = raw.Label
	f.Required = raw.Required
	f.Repeatable = raw.Repeatable
	f.Placeholder = raw.Placeholder
	f.Default = raw.Default

	kind, ok := componentKinds[raw.Component]
	if !ok {
		f.Kind = KindUnknown
		return nil
	}
	f.Kind = kind

	attrs := raw.Attrs
	if len(attrs) == 0 {
		attrs = []byte("{}")
	}

	switch kind {
	case KindText:
		f.Text = &TextAttrs{Input: TextPlain}
		if err := json.Unmarshal(attrs, f.Text); err != nil {
			return fmt.Errorf("metaform: decode text attrs for %q: %w", raw.Label, err)
		}
		if f.Text.Input == "" {
			f.Text.Input = TextPlain
		}
	case KindNumber:
		f.Number = &NumberAttrs{}
		if err := json.Unmarshal(attrs, f.Number); err != nil {
			return fmt.Errorf("metaform: decode number attrs for %q: %w", raw.Label, err)
		}
	case KindEnum:
		f.Enum = &EnumAttrs{}
		if err := json.Unmarshal(attrs, f.Enum); err != nil {
			return fmt.Errorf("metaform: decode enum attrs for %q: %w", raw.Label, err)
		}
	case KindDate:
		f.Date = &DateAttrs{}
		if err := json.Unmarshal(attrs, f.Date); err != nil {
			return fmt.Errorf("metaform: decode date attrs for %q: %w", raw.Label, err)
		}
	case KindBoolean, KindMedia:
		// No kind-specific attributes.
	}
	return nil
}

// MarshalJSON re-encodes the field into its wire shape, used when the
// format builder saves a MetaFormat back to the backend.
func (f Field) MarshalJSON() ([]byte, error) {
	raw := fieldJSON{
		Component:   f.RawKind,
		Label:       f.Label,
		Required:    f.Required,
		Repeatable:  f.Repeatable,
		Placeholder: f.Placeholder,
		Default:     f.Default,
	}
	if raw.Component == "" {
		for name, k := range componentKinds {
			if k == f.Kind {
				raw.Component = name
				break
			}
		}
	}

	var attrs any
	switch f.Kind {
	case KindText:
		attrs = f.Text
	case KindNumber:
		attrs = f.Number
	case KindEnum:
		attrs = f.Enum
	case KindDate:
		attrs = f.Date
	}
	if attrs != nil {
		buf, err := json.Marshal(attrs)
		if err != nil {
			return nil, fmt.Errorf("metaform: encode attrs for %q: %w", f.Label, err)
		}
		raw.Attrs = buf
	}

	return json.Marshal(raw)
}

// UnsupportedLabel is the placeholder text rendered for unknown kinds.
func (f *Field) UnsupportedLabel() string {
	kind := strings.TrimPrefix(f.RawKind, "form.")
	return "Unsupported: " + kind
}
