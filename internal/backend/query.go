// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"fmt"
	"net/url"
	"strconv"
)

// Query builds the backend's query-string operators for filtering,
// sorting, population, and pagination. The zero value is usable.
//
//	q := backend.NewQuery().
//		FilterEq("tenant_id", tenant).
//		Sort("due_date", "asc").
//		Paginate(2, 25)
type Query struct {
	values url.Values
	sorts  int
}

// NewQuery returns an empty query builder.
func NewQuery() *Query {
	return &Query{values: url.Values{}}
}

// FilterEq adds an equality filter: filters[field][$eq]=value.
func (q *Query) FilterEq(field, value string) *Query {
	q.values.Set(fmt.Sprintf("filters[%s][$eq]", field), value)
	return q
}

// FilterContains adds a case-insensitive substring filter:
// filters[field][$containsi]=value. Used by list-page search boxes.
func (q *Query) FilterContains(field, value string) *Query {
	q.values.Set(fmt.Sprintf("filters[%s][$containsi]", field), value)
	return q
}

// FilterIn adds a membership filter: filters[field][$in][i]=value.
func (q *Query) FilterIn(field string, values []string) *Query {
	for i, v := range values {
		q.values.Set(fmt.Sprintf("filters[%s][$in][%d]", field, i), v)
	}
	return q
}

// Sort appends a sort clause: sort[n]=field:order. Multiple calls stack
// in priority order.
func (q *Query) Sort(field, order string) *Query {
	if order != "asc" && order != "desc" {
		order = "asc"
	}
	q.values.Set(fmt.Sprintf("sort[%d]", q.sorts), field+":"+order)
	q.sorts++
	return q
}

// Populate requests related records to be embedded in the response.
func (q *Query) Populate(relations ...string) *Query {
	for i, rel := range relations {
		q.values.Set(fmt.Sprintf("populate[%d]", i), rel)
	}
	return q
}

// Paginate sets the page number and page size.
func (q *Query) Paginate(page, pageSize int) *Query {
	if page < 1 {
		page = 1
	}
	q.values.Set("pagination[page]", strconv.Itoa(page))
	q.values.Set("pagination[pageSize]", strconv.Itoa(pageSize))
	return q
}

// Encode renders the query string, sorted by key for stable cache keys.
func (q *Query) Encode() string {
	if q == nil || len(q.values) == 0 {
		return ""
	}
	return q.values.Encode()
}
