package models

import (
	"strings"
	"time"
)

// InvoiceStatus is the lifecycle state of an invoice. Transitions only move
// forward: pending -> overdue, pending|overdue -> paid. Paid is terminal.
type InvoiceStatus string

const (
	InvoicePending InvoiceStatus = "pending"
	InvoiceOverdue InvoiceStatus = "overdue"
	InvoicePaid    InvoiceStatus = "paid"
)

// Invoice represents a billable item issued to a unit.
type Invoice struct {
	ID        int64         `json:"id"`
	UnitID    int64         `json:"unit_id"`
	Concept   string        `json:"concept"`
	Amount    Money         `json:"amount"`
	Status    InvoiceStatus `json:"status"`
	IssuedAt  time.Time     `json:"issued_at"`
	DueAt     *time.Time    `json:"due_at"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	// Computed fields
	UnitNumber    string `json:"unit_number,omitempty"`
	LastPaymentID *int64 `json:"last_payment_id"`
}

// Payable reports whether the invoice can still receive a payment.
func (i Invoice) Payable() bool {
	return i.Status != InvoicePaid
}

// InvoiceInput is used for issuing invoices.
type InvoiceInput struct {
	UnitNumber string     `json:"unit_number"`
	Concept    string     `json:"concept"`
	Amount     Money      `json:"amount"`
	IssuedAt   *time.Time `json:"issued_at"`
	DueAt      *time.Time `json:"due_at"`
}

func (i *InvoiceInput) Validate() string {
	i.UnitNumber = strings.TrimSpace(i.UnitNumber)
	i.Concept = strings.TrimSpace(i.Concept)
	if i.UnitNumber == "" {
		return "unit_number is required"
	}
	if i.Concept == "" {
		return "concept is required"
	}
	if i.Amount <= 0 {
		return "amount must be positive"
	}
	if i.IssuedAt != nil && i.DueAt != nil && i.DueAt.Before(*i.IssuedAt) {
		return "due_at must not be before issued_at"
	}
	return ""
}
