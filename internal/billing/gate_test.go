// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package billing

import (
	"testing"
	"time"

	"dashpress/internal/models"
)

var now = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func unpaid(id int, due time.Time) models.Payment {
	return models.Payment{ID: id, Status: models.PaymentStatusUnpaid, DueDate: due}
}

func TestEvaluate_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		due  time.Time
		want State
	}{
		{"due 15 days ago locks", now.AddDate(0, 0, -15), StateLocked},
		{"due 13 days ago only warns", now.AddDate(0, 0, -13), StateWarned},
		{"due in 10 days warns", now.AddDate(0, 0, 10), StateWarned},
		{"due in 20 days is clear", now.AddDate(0, 0, 20), StateClear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate([]models.Payment{unpaid(1, tt.due)}, now)
			if got.State != tt.want {
				t.Errorf("State = %v, want %v", got.State, tt.want)
			}
			if tt.want == StateClear && got.Payment != nil {
				t.Error("clear state must not surface a payment")
			}
			if tt.want != StateClear && got.Payment == nil {
				t.Error("non-clear state must surface a payment")
			}
		})
	}
}

func TestEvaluate_OnlyUnpaidParticipates(t *testing.T) {
	overdue := now.AddDate(0, 0, -30)
	payments := []models.Payment{
		{ID: 1, Status: models.PaymentStatusPaid, DueDate: overdue},
		{ID: 2, Status: models.PaymentStatusWaveOff, DueDate: overdue},
		{ID: 3, Status: models.PaymentStatusProcessing, DueDate: overdue},
	}
	if got := Evaluate(payments, now); got.State != StateClear {
		t.Errorf("State = %v, want clear when nothing is unpaid", got.State)
	}
}

func TestEvaluate_SurfacesNearestDueDate(t *testing.T) {
	payments := []models.Payment{
		unpaid(1, now.AddDate(0, 0, -10)),
		unpaid(2, now.AddDate(0, 0, 3)), // nearest to now
		unpaid(3, now.AddDate(0, 0, 12)),
	}
	got := Evaluate(payments, now)
	if got.State != StateWarned {
		t.Fatalf("State = %v, want warned", got.State)
	}
	if got.Payment == nil || got.Payment.ID != 2 {
		t.Errorf("surfaced payment = %+v, want id 2 (nearest due date)", got.Payment)
	}
}

func TestEvaluate_LockWinsOverWarn(t *testing.T) {
	payments := []models.Payment{
		unpaid(1, now.AddDate(0, 0, 5)),   // would only warn
		unpaid(2, now.AddDate(0, 0, -20)), // locks
	}
	got := Evaluate(payments, now)
	if got.State != StateLocked {
		t.Errorf("State = %v, want locked", got.State)
	}
}

func TestEvaluate_LockedSurfacesTheLockingInvoice(t *testing.T) {
	payments := []models.Payment{
		unpaid(1, now.AddDate(0, 0, 2)),   // due soon, nearest to now
		unpaid(2, now.AddDate(0, 0, -20)), // locks
		unpaid(3, now.AddDate(0, 0, -40)), // locks, longest overdue
	}
	got := Evaluate(payments, now)
	if got.State != StateLocked {
		t.Fatalf("State = %v, want locked", got.State)
	}
	if got.Payment == nil || got.Payment.ID != 3 {
		t.Errorf("surfaced payment = %+v, want the longest-overdue locking invoice (id 3)", got.Payment)
	}
}

func TestEvaluate_NoPayments(t *testing.T) {
	got := Evaluate(nil, now)
	if got.State != StateClear || got.Payment != nil {
		t.Errorf("Evaluate(nil) = %+v, want clear", got)
	}
}
