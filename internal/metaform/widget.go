// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package metaform

import (
	"strconv"
	"strings"
)

// Option is one selectable choice of an enum widget.
type Option struct {
	Value    string
	Selected bool
}

// Widget is the view-model the templates render for one input. The
// renderer performs no network I/O; media previews are resolved by the
// handler through the media service using MediaID.
type Widget struct {
	Field       *Field
	Name        string // HTML input name
	Key         string // stable item identity, "" for scalar fields
	Value       string
	DateValue   string // calendar part for datetime fields
	TimeValue   string // HH:mm part for datetime fields
	InputType   string // template dispatch: text, email, richtext, number, select, multiselect, date, datetime, toggle, media, unsupported
	Step        string // numeric step, "1" for integers, "any" for floats
	Checked     bool
	Options     []Option
	MediaID     int
	Placeholder string
	Disabled    bool
	Items       []Widget // populated for repeatable fields
	OrderValue  string   // comma-joined item keys for the __order input
	Error       string
}

// Widgets builds the ordered widget list for the whole form, attaching
// any validation errors by field path.
func (f *Form) Widgets(errs FieldErrors) []Widget {
	out := make([]Widget, 0, len(f.Fields))
	for i := range f.Fields {
		fd := &f.Fields[i]
		s := fd.Slug()
		v := f.Values[s]

		if !fd.Repeatable {
			w := buildWidget(fd, s, "", v.Scalar)
			w.Error = errs[s]
			out = append(out, w)
			continue
		}

		wrapper := Widget{
			Field: fd,
			Name:  s,
			Error: errs[s],
		}
		keys := make([]string, 0, len(v.Array.Items))
		for j, item := range v.Array.Items {
			w := buildWidget(fd, s+"."+item.Key, item.Key, item.Value)
			w.Error = errs[s+"["+strconv.Itoa(j)+"]"]
			wrapper.Items = append(wrapper.Items, w)
			keys = append(keys, item.Key)
		}
		wrapper.OrderValue = strings.Join(keys, ",")
		out = append(out, wrapper)
	}
	return out
}

// buildWidget renders one scalar input. The kind switch is exhaustive;
// unknown kinds become a disabled placeholder instead of an error.
func buildWidget(fd *Field, name, key, value string) Widget {
	w := Widget{
		Field:       fd,
		Name:        name,
		Key:         key,
		Value:       value,
		Placeholder: fd.Placeholder,
	}

	switch fd.Kind {
	case KindText:
		w.InputType = "text"
		if fd.Text != nil {
			switch fd.Text.Input {
			case TextRich:
				w.InputType = "richtext"
			case TextEmail:
				w.InputType = "email"
			}
		}
	case KindNumber:
		w.InputType = "number"
		w.Step = "any"
		if fd.Number != nil && fd.Number.Integer {
			w.Step = "1"
		}
	case KindEnum:
		w.InputType = "select"
		selected := map[string]bool{value: true}
		if fd.Enum != nil {
			if fd.Enum.Multiple {
				w.InputType = "multiselect"
				selected = map[string]bool{}
				for _, tok := range ParseTags(value, 0).Tokens {
					selected[tok] = true
				}
			}
			for _, opt := range fd.Enum.Options {
				w.Options = append(w.Options, Option{Value: opt, Selected: selected[opt]})
			}
		}
	case KindDate:
		w.InputType = "date"
		if fd.Date != nil && fd.Date.WithTime {
			w.InputType = "datetime"
			if at := strings.Index(value, "T"); at > 0 {
				w.DateValue = value[:at]
				w.TimeValue = value[at+1:]
			} else {
				w.DateValue = value
			}
		}
	case KindBoolean:
		w.InputType = "toggle"
		w.Checked = value == "true"
	case KindMedia:
		w.InputType = "media"
		if id, err := strconv.Atoi(value); err == nil && id > 0 {
			w.MediaID = id
		}
	default:
		w.InputType = "unsupported"
		w.Disabled = true
		w.Placeholder = fd.UnsupportedLabel()
	}

	return w
}
