// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package services

import (
	"context"
	"fmt"
	"time"

	"dashpress/internal/backend"
	"dashpress/internal/billing"
	"dashpress/internal/models"
	"dashpress/internal/query"
)

const paymentsPath = "/payments"

// PaymentService reads the tenant's invoices and evaluates the billing
// gate. Payments are created by the platform, never by the dashboard,
// so there are no write methods.
type PaymentService struct {
	client *backend.Client
	cache  *query.Cache
}

// History fetches every invoice for the tenant, newest-due first. The
// full set is needed because the billing gate must see old unpaid
// invoices no matter how many newer ones exist.
func (s *PaymentService) History(ctx context.Context, tenant string) ([]models.Payment, error) {
	key := query.Key("payments", tenant, "history")

	page, err := cachedList(ctx, s.cache, key, func(ctx context.Context) (*[]models.Payment, error) {
		var all []models.Payment
		for pageNum := 1; ; pageNum++ {
			q := backend.NewQuery().
				FilterEq(tenantField, tenant).
				Sort("due_date", "desc").
				Paginate(pageNum, 100)
			items, meta, err := backend.List[models.Payment](ctx, s.client, paymentsPath, q)
			if err != nil {
				return nil, fmt.Errorf("list payments: %w", err)
			}
			all = append(all, items...)
			if len(items) == 0 || pageNum >= meta.PageCount {
				break
			}
		}
		return &all, nil
	})
	if err != nil {
		return nil, err
	}
	return *page, nil
}

// Status evaluates the billing gate over the tenant's current invoices.
func (s *PaymentService) Status(ctx context.Context, tenant string, now time.Time) (billing.Status, error) {
	payments, err := s.History(ctx, tenant)
	if err != nil {
		return billing.Status{}, err
	}
	return billing.Evaluate(payments, now), nil
}
