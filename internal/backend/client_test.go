// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

type testRecord struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

func TestList_DecodesEnvelopeAndPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok123" {
			t.Errorf("Authorization = %q, want Bearer tok123", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"data": [{"id": 1, "title": "a"}, {"id": 2, "title": "b"}],
			"meta": {"pagination": {"page": 2, "pageSize": 10, "pageCount": 5, "total": 42}}
		}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	ctx := ContextWithToken(context.Background(), "tok123")

	items, meta, err := List[testRecord](ctx, c, "/blogs", NewQuery().Paginate(2, 10))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 || items[1].Title != "b" {
		t.Fatalf("List items = %+v, want 2 items ending in b", items)
	}
	if meta.Total != 42 || meta.Page != 2 {
		t.Errorf("meta = %+v, want page 2 total 42", meta)
	}
}

func TestGet_NullDataIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": null}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	_, err := Get[testRecord](context.Background(), c, "/blogs/9", NewQuery())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get null data: err = %v, want ErrNotFound", err)
	}
}

func TestDo_PreviewTokenOverridesSessionToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer preview" {
			t.Errorf("Authorization = %q, want Bearer preview", got)
		}
		w.Write([]byte(`{"data": {"id": 1, "title": "x"}}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "preview")
	ctx := ContextWithToken(context.Background(), "session-token")
	if _, err := Get[testRecord](ctx, c, "/blogs/1", NewQuery()); err != nil {
		t.Fatalf("Get: %v", err)
	}
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "401 maps to ErrUnauthorized",
			status: 401,
			body:   `{"error": {"status": 401, "name": "UnauthorizedError", "message": "Missing or invalid credentials"}}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrUnauthorized) {
					t.Errorf("err = %v, want ErrUnauthorized", err)
				}
			},
		},
		{
			name:   "403 maps to ErrNotFound",
			status: 403,
			body:   `{"error": {"status": 403, "name": "ForbiddenError", "message": "Forbidden"}}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("err = %v, want ErrNotFound", err)
				}
			},
		},
		{
			name:   "404 maps to ErrNotFound",
			status: 404,
			body:   `{"error": {"status": 404, "name": "NotFoundError", "message": "Not Found"}}`,
			check: func(t *testing.T, err error) {
				if !errors.Is(err, ErrNotFound) {
					t.Errorf("err = %v, want ErrNotFound", err)
				}
			},
		},
		{
			name:   "400 validation error keeps backend message verbatim",
			status: 400,
			body:   `{"error": {"status": 400, "name": "ValidationError", "message": "This attribute must be unique"}}`,
			check: func(t *testing.T, err error) {
				ve := AsValidation(err)
				if ve == nil {
					t.Fatalf("err = %v, want ValidationError", err)
				}
				if ve.Message != "This attribute must be unique" {
					t.Errorf("message = %q, want verbatim backend message", ve.Message)
				}
			},
		},
		{
			name:   "500 with empty body yields generic message",
			status: 500,
			body:   `oops`,
			check: func(t *testing.T, err error) {
				if err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, ErrUnauthorized) {
					t.Errorf("err = %v, want generic error", err)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := New(srv.URL, "")
			_, err := Get[testRecord](context.Background(), c, "/blogs/1", NewQuery())
			tt.check(t, err)
		})
	}
}

func TestQuery_Operators(t *testing.T) {
	q := NewQuery().
		FilterEq("tenant_id", "t1").
		FilterContains("title", "hello").
		Sort("created_at", "desc").
		Paginate(3, 25)

	enc := q.Encode()
	for _, want := range []string{
		"filters%5Btenant_id%5D%5B%24eq%5D=t1",
		"filters%5Btitle%5D%5B%24containsi%5D=hello",
		"sort%5B0%5D=created_at%3Adesc",
		"pagination%5Bpage%5D=3",
		"pagination%5BpageSize%5D=25",
	} {
		if !strings.Contains(enc, want) {
			t.Errorf("Encode() = %q, missing %q", enc, want)
		}
	}
}

func TestQuery_EncodeIsStable(t *testing.T) {
	build := func() string {
		return NewQuery().FilterEq("b", "2").FilterEq("a", "1").Sort("x", "asc").Encode()
	}
	if build() != build() {
		t.Error("Encode() is not deterministic across identical builds")
	}
}
