// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package listing normalizes the filter/sort/pagination state shared by
// every list page. The state round-trips through URL query parameters
// so a reload or shared link restores the same view; per-user defaults
// come from the preference store.
package listing

import (
	"net/url"
	"strconv"
)

// View selects the list rendering mode where both are supported.
const (
	ViewTable = "table"
	ViewGrid  = "grid"
)

// Allowed page sizes; out-of-range requests clamp to the default.
var pageSizes = map[int]bool{10: true, 25: true, 50: true, 100: true}

// Params is the complete view state of one list page.
type Params struct {
	Page     int
	PageSize int
	Sort     string
	Order    string // "asc" or "desc"
	Search   string
	Status   string // entity-specific status filter, "" = all
	View     string
}

// Defaults supplies per-list fallbacks, typically loaded from the
// preference store.
type Defaults struct {
	PageSize int
	Sort     string
	Order    string
	View     string
}

// Parse reads list state from URL query parameters, falling back to the
// given defaults for anything absent or invalid.
func Parse(q url.Values, d Defaults) Params {
	if d.PageSize == 0 {
		d.PageSize = 25
	}
	if d.Sort == "" {
		d.Sort = "createdAt"
	}
	if d.Order == "" {
		d.Order = "desc"
	}
	if d.View == "" {
		d.View = ViewTable
	}

	p := Params{
		Page:     atoiOr(q.Get("page"), 1),
		PageSize: atoiOr(q.Get("pageSize"), d.PageSize),
		Sort:     stringOr(q.Get("sort"), d.Sort),
		Order:    q.Get("order"),
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		View:     stringOr(q.Get("view"), d.View),
	}

	if p.Page < 1 {
		p.Page = 1
	}
	if !pageSizes[p.PageSize] {
		p.PageSize = d.PageSize
	}
	if p.Order != "asc" && p.Order != "desc" {
		p.Order = d.Order
	}
	if p.View != ViewTable && p.View != ViewGrid {
		p.View = d.View
	}
	return p
}

// ResetPageIfChanged returns the params with Page forced back to 1 when
// any filter, sort, or page-size differs from the previous view state.
// Paging through an unchanged view keeps the requested page.
func (p Params) ResetPageIfChanged(prev Params) Params {
	if p.PageSize != prev.PageSize ||
		p.Sort != prev.Sort ||
		p.Order != prev.Order ||
		p.Search != prev.Search ||
		p.Status != prev.Status {
		p.Page = 1
	}
	return p
}

// StepBack returns the page to navigate to after a delete: when the
// delete emptied the last item of a page beyond the first, the previous
// page, otherwise the current one.
func StepBack(page, itemsLeftOnPage int) int {
	if itemsLeftOnPage == 0 && page > 1 {
		return page - 1
	}
	return page
}

// Encode renders the params back into a query string for redirects and
// shareable links. Defaults are written out explicitly so a copied link
// is self-contained.
func (p Params) Encode() string {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("pageSize", strconv.Itoa(p.PageSize))
	q.Set("sort", p.Sort)
	q.Set("order", p.Order)
	if p.Search != "" {
		q.Set("search", p.Search)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.View != "" {
		q.Set("view", p.View)
	}
	return q.Encode()
}

func atoiOr(s string, fallback int) int {
	if s == "" {
		return fallback
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

func stringOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
