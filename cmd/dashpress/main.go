// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the DashPress server.
// It loads configuration, connects to the backend API and supporting
// services, sets up routing, and starts the HTTP server with graceful
// shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"dashpress/internal/backend"
	"dashpress/internal/billing"
	"dashpress/internal/cache"
	"dashpress/internal/config"
	"dashpress/internal/database"
	"dashpress/internal/handlers"
	"dashpress/internal/middleware"
	"dashpress/internal/prefs"
	"dashpress/internal/query"
	"dashpress/internal/render"
	"dashpress/internal/router"
	"dashpress/internal/services"
	"dashpress/internal/session"
	"dashpress/internal/storage"
	"dashpress/internal/store"
)

// activityRetention is how long activity log entries are kept before the
// periodic prune removes them.
const activityRetention = 90 * 24 * time.Hour

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger — JSON in production, readable text in development.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"backend", cfg.BackendURL,
		"preview_mode", cfg.PreviewMode,
	)

	// Connect to PostgreSQL (activity log storage).
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (sessions, preferences).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// Session store backed by Valkey. In non-development environments,
	// session cookies are marked Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, secureCookies)

	// Per-user listing preferences, also in Valkey.
	prefStore := prefs.NewStore(valkeyClient)

	// Backend API client. In preview mode every request carries the fixed
	// preview token instead of the session's bearer token.
	previewToken := ""
	if cfg.PreviewMode {
		previewToken = cfg.PreviewToken
		slog.Warn("preview mode active — all backend requests use the preview token")
	}
	client := backend.New(cfg.BackendURL, previewToken)

	// Read-through query cache in front of the backend.
	queryCache := query.New(query.DefaultFreshTTL, query.DefaultStaleTTL)

	// Tenant-scoped services over the backend client.
	svc := services.New(client, queryCache)

	// HTML template renderer for dashboard pages. In dev mode templates
	// load assets from CDN; in production they use files embedded in the
	// binary.
	renderer, err := render.New(cfg.IsDev())
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	// Activity log store.
	activity := store.NewActivityStore(db)

	// Connect to S3-compatible object storage (optional — uploads fall
	// back to the backend's upload endpoint without it).
	storageClient, err := storage.New(
		cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
		cfg.S3Bucket, cfg.S3PublicURL,
	)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured — direct uploads disabled")
	}

	// Handler groups.
	authHandlers := handlers.NewAuth(renderer, sessionStore, svc, queryCache)
	dashHandlers := handlers.NewDashboard(renderer, sessionStore, prefStore, svc, activity, storageClient)

	// Rate limiter for credential submissions.
	loginLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer loginLimiter.Stop()

	// Billing gate evaluates the tenant's payment standing per request.
	billingStatus := func(ctx context.Context, tenant string) (billing.Status, error) {
		return svc.Payments.Status(ctx, tenant, time.Now())
	}

	// Set up the Chi router with all middleware and routes.
	r := router.New(sessionStore, authHandlers, dashHandlers, billingStatus, loginLimiter)

	// Periodically prune old activity log entries.
	pruneCtx, pruneCancel := context.WithCancel(context.Background())
	defer pruneCancel()
	go pruneActivity(pruneCtx, activity)

	// HTTP server with sensible timeouts. Every page render may wait on
	// the backend API, so the write timeout allows for slow upstreams.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// pruneActivity removes stale activity log rows once a day until ctx is
// cancelled.
func pruneActivity(ctx context.Context, activity *store.ActivityStore) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := activity.Prune(ctx, activityRetention)
			if err != nil {
				slog.Error("activity prune failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("activity log pruned", "removed", n)
			}
		}
	}
}
