// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequestsTotal counts served requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashpress_http_requests_total",
			Help: "Total number of HTTP requests served.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashpress_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// BackendRequestsTotal counts calls to the content backend by outcome.
	BackendRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashpress_backend_requests_total",
			Help: "Total number of content backend API calls.",
		},
		[]string{"method", "outcome"},
	)

	// CacheEvents counts query cache hits, stale serves, and misses.
	CacheEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashpress_query_cache_events_total",
			Help: "Query cache lookups by result.",
		},
		[]string{"event"},
	)
)
