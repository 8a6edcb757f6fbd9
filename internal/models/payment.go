// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"
)

// PaymentStatus represents the settlement state of an invoice.
type PaymentStatus string

const (
	PaymentStatusPaid       PaymentStatus = "Pay"
	PaymentStatusUnpaid     PaymentStatus = "Unpaid"
	PaymentStatusWaveOff    PaymentStatus = "Wave off"
	PaymentStatusProcessing PaymentStatus = "Processing"
)

// LineItem is one billable row on an invoice.
type LineItem struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	CGSTPercent float64 `json:"cgst_percent"`
	SGSTPercent float64 `json:"sgst_percent"`
	Discount    float64 `json:"discount"`
}

// Subtotal returns price times quantity minus discount, floored at zero.
func (li LineItem) Subtotal() float64 {
	sub := li.Price*float64(li.Quantity) - li.Discount
	if sub < 0 {
		return 0
	}
	return sub
}

// Total returns the subtotal with both tax percentages applied.
func (li LineItem) Total() float64 {
	sub := li.Subtotal()
	return sub + sub*(li.CGSTPercent+li.SGSTPercent)/100
}

// Payment represents one billing-period invoice for a tenant.
type Payment struct {
	ID          int           `json:"id"`
	DocumentID  string        `json:"documentId,omitempty"`
	PeriodStart time.Time     `json:"period_start"`
	PeriodEnd   time.Time     `json:"period_end"`
	Items       []LineItem    `json:"items"`
	Status      PaymentStatus `json:"payment_status"`
	DueDate     time.Time     `json:"due_date"`
	TenantID    string        `json:"tenant_id"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// Outstanding returns true if the invoice still requires payment.
// Waved-off and processing invoices never lock or warn.
func (p Payment) Outstanding() bool {
	return p.Status == PaymentStatusUnpaid
}

// Total sums all line item totals.
func (p Payment) Total() float64 {
	var total float64
	for _, li := range p.Items {
		total += li.Total()
	}
	return total
}
