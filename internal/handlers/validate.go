// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"strings"
	"time"
)

// Field length limits enforced before a write reaches the backend. The
// backend enforces its own schema; these exist so an oversized paste
// fails with a friendly message instead of a raw validation error.
const (
	maxTitleLen   = 200
	maxNameLen    = 120
	maxContentLen = 200_000
	maxSEOLen     = 300
)

// validateBlog checks the blog form fields, returning field-keyed error
// messages. An empty map means the input is acceptable.
func validateBlog(title, content string) map[string]string {
	errs := map[string]string{}
	switch {
	case strings.TrimSpace(title) == "":
		errs["title"] = "Title is required."
	case len(title) > maxTitleLen:
		errs["title"] = "Title is too long."
	}
	if len(content) > maxContentLen {
		errs["content"] = "Content is too long."
	}
	return errs
}

// validateEvent checks the event form fields.
func validateEvent(title string, startsAt time.Time) map[string]string {
	errs := map[string]string{}
	switch {
	case strings.TrimSpace(title) == "":
		errs["title"] = "Title is required."
	case len(title) > maxTitleLen:
		errs["title"] = "Title is too long."
	}
	if startsAt.IsZero() {
		errs["event_date"] = "Event date is required."
	}
	return errs
}

// validateName checks a short required name (categories, formats, media).
func validateName(name string) map[string]string {
	errs := map[string]string{}
	switch {
	case strings.TrimSpace(name) == "":
		errs["name"] = "Name is required."
	case len(name) > maxNameLen:
		errs["name"] = "Name is too long."
	}
	return errs
}

// validateSEO checks the optional SEO fields on the blog form.
func validateSEO(metaTitle, metaDescription string) map[string]string {
	errs := map[string]string{}
	if len(metaTitle) > maxSEOLen {
		errs["seo_title"] = "SEO title is too long."
	}
	if len(metaDescription) > maxSEOLen {
		errs["seo_description"] = "SEO description is too long."
	}
	return errs
}

// mergeErrs folds later maps into the first one.
func mergeErrs(dst map[string]string, more ...map[string]string) map[string]string {
	for _, m := range more {
		for k, v := range m {
			if _, exists := dst[k]; !exists {
				dst[k] = v
			}
		}
	}
	return dst
}
