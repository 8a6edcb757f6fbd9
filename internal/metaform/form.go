// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package metaform

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Date layouts used by date fields. Datetime values merge the calendar
// date with an HH:mm time input into one value.
const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02T15:04"
)

// Value is the bound form value of one field. Repeatable fields use
// Array; everything else uses Scalar. Multi-enums bind their selection
// as a comma-joined string, matching the tag-list convention.
type Value struct {
	Scalar string
	Array  *ArrayValue
}

// Form is the in-flight editing state of a dynamic form: the field
// definitions plus the current bound values keyed by field slug.
type Form struct {
	Fields []Field
	Values map[string]*Value
}

// NewForm creates a form with every field holding its default value.
func NewForm(fields []Field) *Form {
	f := &Form{Fields: fields, Values: make(map[string]*Value, len(fields))}
	for i := range fields {
		fd := &fields[i]
		if fd.Repeatable {
			f.Values[fd.Slug()] = &Value{Array: &ArrayValue{}}
		} else {
			f.Values[fd.Slug()] = &Value{Scalar: fd.Default}
		}
	}
	return f
}

// BindPayload creates a form pre-populated from a stored MetaData
// payload, for edit screens. Unknown payload keys are ignored; missing
// keys fall back to defaults.
func BindPayload(fields []Field, payload map[string]any) *Form {
	f := NewForm(fields)
	for i := range fields {
		fd := &fields[i]
		raw, ok := payload[fd.Slug()]
		if !ok {
			continue
		}
		v := f.Values[fd.Slug()]
		if fd.Repeatable {
			v.Array = NewArrayValue(stringifyList(raw))
		} else {
			v.Scalar = stringify(raw)
		}
	}
	return f
}

// ParseRequest rebuilds the form state from a posted HTML form.
//
// Scalar fields post under their slug. Repeatable fields post one input
// per item under "slug.<key>" plus an ordered key list under
// "slug.__order", so item identity survives the round-trip and
// drag-reorder results arrive as a reordered key list. Datetime fields
// post "name__date" and "name__time" parts which are merged here.
func ParseRequest(fields []Field, form url.Values) *Form {
	f := NewForm(fields)
	for i := range fields {
		fd := &fields[i]
		s := fd.Slug()
		v := f.Values[s]

		if !fd.Repeatable {
			v.Scalar = readInput(fd, form, s)
			continue
		}

		order := splitOrder(form.Get(s + ".__order"))
		arr := &ArrayValue{}
		for _, key := range order {
			arr.Items = append(arr.Items, Item{
				Key:   key,
				Value: readInput(fd, form, s+"."+key),
			})
		}
		v.Array = arr
	}
	return f
}

// readInput reads one input's value, merging date+time parts and
// normalizing checkbox values.
func readInput(fd *Field, form url.Values, name string) string {
	switch fd.Kind {
	case KindDate:
		if fd.Date != nil && fd.Date.WithTime {
			date := form.Get(name + "__date")
			tm := form.Get(name + "__time")
			if date == "" {
				return ""
			}
			if tm == "" {
				tm = "00:00"
			}
			return date + "T" + tm
		}
		return form.Get(name)
	case KindBoolean:
		val := form.Get(name)
		if val == "on" || val == "true" {
			return "true"
		}
		return "false"
	case KindEnum:
		if fd.Enum != nil && fd.Enum.Multiple {
			if selected, ok := form[name]; ok {
				return strings.Join(selected, TagSeparator)
			}
			return ""
		}
		return form.Get(name)
	default:
		return form.Get(name)
	}
}

// Append adds a default-valued item to the named repeatable field and
// returns its key.
func (f *Form) Append(slug string) (string, error) {
	v, fd, err := f.repeatable(slug)
	if err != nil {
		return "", err
	}
	return v.Array.Append(fd.Default), nil
}

// Remove deletes the item at index i from the named repeatable field.
func (f *Form) Remove(slug string, i int) error {
	v, _, err := f.repeatable(slug)
	if err != nil {
		return err
	}
	return v.Array.Remove(i)
}

// Move relocates an item within the named repeatable field.
func (f *Form) Move(slug string, from, to int) error {
	v, _, err := f.repeatable(slug)
	if err != nil {
		return err
	}
	return v.Array.Move(from, to)
}

func (f *Form) repeatable(slug string) (*Value, *Field, error) {
	for i := range f.Fields {
		if f.Fields[i].Slug() == slug {
			if !f.Fields[i].Repeatable {
				return nil, nil, fmt.Errorf("metaform: field %q is not repeatable", slug)
			}
			return f.Values[slug], &f.Fields[i], nil
		}
	}
	return nil, nil, fmt.Errorf("metaform: no field %q", slug)
}

// FieldErrors maps a field path (slug, or slug[i] for array items) to a
// validation message displayed next to that input.
type FieldErrors map[string]string

// Ok returns true when no validation errors were recorded.
func (fe FieldErrors) Ok() bool { return len(fe) == 0 }

// Payload validates the bound values and converts them into the typed
// MetaData payload keyed by field slug. Unknown fields contribute
// nothing and never fail. On validation failure the partial payload is
// discarded and the errors are returned for near-field display.
func (f *Form) Payload() (map[string]any, FieldErrors) {
	payload := make(map[string]any, len(f.Fields))
	errs := FieldErrors{}

	for i := range f.Fields {
		fd := &f.Fields[i]
		if fd.Kind == KindUnknown {
			continue
		}
		s := fd.Slug()
		v := f.Values[s]

		if fd.Repeatable {
			vals := v.Array.Values()
			if fd.Required && len(vals) == 0 {
				errs[s] = fmt.Sprintf("%s requires at least one entry", fd.Label)
				continue
			}
			converted := make([]any, 0, len(vals))
			for j, raw := range vals {
				out, err := convertScalar(fd, raw)
				if err != nil {
					errs[fmt.Sprintf("%s[%d]", s, j)] = err.Error()
					continue
				}
				converted = append(converted, out)
			}
			payload[s] = converted
			continue
		}

		if fd.Required && strings.TrimSpace(v.Scalar) == "" && fd.Kind != KindBoolean {
			errs[s] = fd.Label + " is required"
			continue
		}
		out, err := convertScalar(fd, v.Scalar)
		if err != nil {
			errs[s] = err.Error()
			continue
		}
		payload[s] = out
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return payload, errs
}

// convertScalar validates and converts one raw input value per the
// field's kind. The switch is exhaustive over known kinds.
func convertScalar(fd *Field, raw string) (any, error) {
	switch fd.Kind {
	case KindText:
		return convertText(fd, raw)
	case KindNumber:
		return convertNumber(fd, raw)
	case KindEnum:
		return convertEnum(fd, raw)
	case KindDate:
		return convertDate(fd, raw)
	case KindBoolean:
		return raw == "true", nil
	case KindMedia:
		if raw == "" {
			return nil, nil
		}
		id, err := strconv.Atoi(raw)
		if err != nil || id <= 0 {
			return nil, fmt.Errorf("%s holds an invalid media reference", fd.Label)
		}
		return id, nil
	default:
		return nil, fmt.Errorf("%s has an unsupported kind", fd.Label)
	}
}

func convertText(fd *Field, raw string) (any, error) {
	if fd.Text != nil {
		n := len([]rune(raw))
		if fd.Text.MinLength > 0 && raw != "" && n < fd.Text.MinLength {
			return nil, fmt.Errorf("%s must be at least %d characters", fd.Label, fd.Text.MinLength)
		}
		if fd.Text.MaxLength > 0 && n > fd.Text.MaxLength {
			return nil, fmt.Errorf("%s must be at most %d characters", fd.Label, fd.Text.MaxLength)
		}
		if fd.Text.Input == TextEmail && raw != "" && !looksLikeEmail(raw) {
			return nil, fmt.Errorf("%s must be a valid email address", fd.Label)
		}
	}
	return raw, nil
}

func convertNumber(fd *Field, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number", fd.Label)
	}
	if fd.Number != nil {
		if fd.Number.Integer && n != float64(int64(n)) {
			return nil, fmt.Errorf("%s must be a whole number", fd.Label)
		}
		if fd.Number.Min != nil && n < *fd.Number.Min {
			return nil, fmt.Errorf("%s must be at least %v", fd.Label, *fd.Number.Min)
		}
		if fd.Number.Max != nil && n > *fd.Number.Max {
			return nil, fmt.Errorf("%s must be at most %v", fd.Label, *fd.Number.Max)
		}
		if fd.Number.Integer {
			return int64(n), nil
		}
	}
	return n, nil
}

func convertEnum(fd *Field, raw string) (any, error) {
	if fd.Enum == nil {
		return raw, nil
	}
	if fd.Enum.Multiple {
		tl := ParseTags(raw, 0)
		for _, tok := range tl.Tokens {
			if !enumHas(fd.Enum.Options, tok) {
				return nil, fmt.Errorf("%s does not allow %q", fd.Label, tok)
			}
		}
		return tl.Tokens, nil
	}
	if raw != "" && !enumHas(fd.Enum.Options, raw) {
		return nil, fmt.Errorf("%s does not allow %q", fd.Label, raw)
	}
	return raw, nil
}

func convertDate(fd *Field, raw string) (any, error) {
	if raw == "" {
		return nil, nil
	}
	layout := dateLayout
	if fd.Date != nil && fd.Date.WithTime {
		layout = dateTimeLayout
	}
	if _, err := time.Parse(layout, raw); err != nil {
		return nil, fmt.Errorf("%s holds an invalid date", fd.Label)
	}
	return raw, nil
}

func enumHas(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// looksLikeEmail performs the same loose shape check the backend does:
// one @ with non-empty local part and a dotted domain.
func looksLikeEmail(s string) bool {
	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return false
	}
	domain := s[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1 && !strings.Contains(domain, "@")
}

// splitOrder parses the posted "__order" key list.
func splitOrder(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func stringify(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case float64:
		if v == float64(int64(v)) {
			return strconv.FormatInt(int64(v), 10)
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case []string:
		return strings.Join(v, TagSeparator)
	case []any:
		parts := make([]string, len(v))
		for i, e := range v {
			parts[i] = stringify(e)
		}
		return strings.Join(parts, TagSeparator)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

func stringifyList(raw any) []string {
	list, ok := raw.([]any)
	if !ok {
		if s := stringify(raw); s != "" {
			return []string{s}
		}
		return nil
	}
	out := make([]string, len(list))
	for i, e := range list {
		out[i] = stringify(e)
	}
	return out
}
