// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"dashpress/internal/billing"
)

// BillingKey is the context key carrying the evaluated billing status.
const BillingKey contextKey = "billing"

// BillingStatusFunc evaluates the billing gate for a tenant.
type BillingStatusFunc func(ctx context.Context, tenant string) (billing.Status, error)

// Paths that stay reachable while the account is locked, so the user
// can see their invoices and settle up.
var lockExemptPrefixes = []string{
	"/dashboard/settings",
	"/logout",
	"/static/",
	"/health",
}

// BillingGate evaluates the tenant's billing state on every request and
// locks the dashboard when an invoice is overdue past the grace window.
// Locked tenants are redirected to the billing settings page; the status
// is stored in the context either way so layouts can render the warning
// banner. Must be applied after RequireAuth.
func BillingGate(status BillingStatusFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := SessionFromCtx(r.Context())
			if sess == nil {
				next.ServeHTTP(w, r)
				return
			}

			st, err := status(r.Context(), sess.TenantID)
			if err != nil {
				// A billing outage must not lock paying customers out.
				slog.Warn("billing status unavailable", "tenant", sess.TenantID, "error", err)
				next.ServeHTTP(w, r)
				return
			}

			// A dismissed warning stays quiet for the rest of the session.
			if st.Warned() && st.Payment != nil && sess.HasDismissed(st.Payment.DocumentID) {
				st = billing.Status{State: billing.StateClear}
			}

			ctx := context.WithValue(r.Context(), BillingKey, st)
			r = r.WithContext(ctx)

			if st.Locked() && !lockExempt(r.URL.Path) {
				http.Redirect(w, r, "/dashboard/settings", http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// BillingFromCtx extracts the billing status loaded by BillingGate.
func BillingFromCtx(ctx context.Context) (billing.Status, bool) {
	st, ok := ctx.Value(BillingKey).(billing.Status)
	return st, ok
}

func lockExempt(path string) bool {
	for _, p := range lockExemptPrefixes {
		if path == p || strings.HasPrefix(path, p+"/") || (strings.HasSuffix(p, "/") && strings.HasPrefix(path, p)) {
			return true
		}
	}
	return false
}
