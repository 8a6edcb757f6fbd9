// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package listing

import (
	"net/url"
	"testing"
)

func TestParse_DefaultsAndClamping(t *testing.T) {
	q := url.Values{}
	q.Set("page", "-3")
	q.Set("pageSize", "7777")
	q.Set("order", "sideways")
	q.Set("view", "carousel")

	p := Parse(q, Defaults{})
	if p.Page != 1 {
		t.Errorf("Page = %d, want clamped to 1", p.Page)
	}
	if p.PageSize != 25 {
		t.Errorf("PageSize = %d, want default 25", p.PageSize)
	}
	if p.Order != "desc" {
		t.Errorf("Order = %q, want default desc", p.Order)
	}
	if p.View != ViewTable {
		t.Errorf("View = %q, want table", p.View)
	}
}

func TestParse_PrefsDefaultsApply(t *testing.T) {
	p := Parse(url.Values{}, Defaults{PageSize: 50, Sort: "title", Order: "asc", View: ViewGrid})
	if p.PageSize != 50 || p.Sort != "title" || p.Order != "asc" || p.View != ViewGrid {
		t.Errorf("Parse with prefs defaults = %+v", p)
	}
}

func TestResetPageIfChanged(t *testing.T) {
	prev := Params{Page: 1, PageSize: 25, Sort: "createdAt", Order: "desc"}

	tests := []struct {
		name     string
		mutate   func(p Params) Params
		wantPage int
	}{
		{"page change alone keeps page", func(p Params) Params { p.Page = 3; return p }, 3},
		{"page size change resets", func(p Params) Params { p.Page = 3; p.PageSize = 50; return p }, 1},
		{"sort field change resets", func(p Params) Params { p.Page = 3; p.Sort = "title"; return p }, 1},
		{"sort order change resets", func(p Params) Params { p.Page = 3; p.Order = "asc"; return p }, 1},
		{"search change resets", func(p Params) Params { p.Page = 3; p.Search = "x"; return p }, 1},
		{"status filter change resets", func(p Params) Params { p.Page = 3; p.Status = "draft"; return p }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.mutate(prev).ResetPageIfChanged(prev)
			if got.Page != tt.wantPage {
				t.Errorf("Page = %d, want %d", got.Page, tt.wantPage)
			}
		})
	}
}

func TestStepBack(t *testing.T) {
	tests := []struct {
		page, left, want int
	}{
		{3, 0, 2}, // emptied page 3 → back to 2
		{1, 0, 1}, // first page never steps back
		{3, 4, 3}, // items remain → stay
	}
	for _, tt := range tests {
		if got := StepBack(tt.page, tt.left); got != tt.want {
			t.Errorf("StepBack(%d, %d) = %d, want %d", tt.page, tt.left, got, tt.want)
		}
	}
}

func TestEncode_RoundTrip(t *testing.T) {
	p := Params{Page: 2, PageSize: 50, Sort: "title", Order: "asc", Search: "go", Status: "draft", View: ViewGrid}

	q, err := url.ParseQuery(p.Encode())
	if err != nil {
		t.Fatalf("ParseQuery: %v", err)
	}
	back := Parse(q, Defaults{})
	if back != p {
		t.Errorf("round trip = %+v, want %+v", back, p)
	}
}
