// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPrometheusMetricsPassesThrough(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout"))
	})

	req := httptest.NewRequest(http.MethodGet, "/dashboard/blog", nil)
	rr := httptest.NewRecorder()
	PrometheusMetrics(inner).ServeHTTP(rr, req)

	if rr.Code != http.StatusTeapot {
		t.Errorf("status: got %d, want %d", rr.Code, http.StatusTeapot)
	}
	if rr.Body.String() != "short and stout" {
		t.Errorf("body: got %q", rr.Body.String())
	}
}
