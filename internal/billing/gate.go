// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package billing decides whether the dashboard is locked or merely
// warned based on the tenant's outstanding invoices. The middleware in
// internal/middleware enforces the decision; the billing settings page
// stays reachable even while locked so the tenant can actually pay.
package billing

import (
	"time"

	"dashpress/internal/models"
)

// GraceWindow is the ±window around an invoice's due date inside which
// a warning banner is shown, and past which (overdue side) the
// dashboard locks.
const GraceWindow = 14 * 24 * time.Hour

// State is the gate's decision for the current tenant.
type State int

const (
	// StateClear means no outstanding invoice is near or past due.
	StateClear State = iota

	// StateWarned means at least one outstanding invoice is due within
	// the grace window. A dismissible banner is shown.
	StateWarned

	// StateLocked means an outstanding invoice is more than the grace
	// window past due. The dashboard is blocked behind a full-screen
	// lock, except for the billing settings page.
	StateLocked
)

// Status is the gate's evaluation result. Payment, when non-nil, is the
// invoice to surface: while locked it is the longest-overdue invoice
// causing the lock; while warned it is the one due nearest to now.
type Status struct {
	State   State
	Payment *models.Payment
}

// Evaluate inspects the tenant's payments and computes the gate status.
// Only invoices in Unpaid status participate; waved-off and processing
// invoices never lock or warn.
func Evaluate(payments []models.Payment, now time.Time) Status {
	status := Status{State: StateClear}

	var locking, warned *models.Payment
	var lockingOverdue, warnedDist time.Duration

	for i := range payments {
		p := &payments[i]
		if !p.Outstanding() {
			continue
		}

		overdue := now.Sub(p.DueDate) // positive when past due

		switch {
		case overdue > GraceWindow:
			status.State = StateLocked
			if locking == nil || overdue > lockingOverdue {
				locking = p
				lockingOverdue = overdue
			}
		case absDuration(overdue) <= GraceWindow:
			if status.State != StateLocked {
				status.State = StateWarned
			}
			if warned == nil || absDuration(overdue) < warnedDist {
				warned = p
				warnedDist = absDuration(overdue)
			}
		}
		// Due far in the future: irrelevant.
	}

	switch status.State {
	case StateLocked:
		status.Payment = locking
	case StateWarned:
		status.Payment = warned
	}
	return status
}

// Locked reports whether the dashboard should be fully blocked.
func (s Status) Locked() bool { return s.State == StateLocked }

// Warned reports whether a dismissible banner should be shown.
func (s Status) Warned() bool { return s.State == StateWarned }

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
