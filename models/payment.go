package models

import "time"

// PaymentMethod records how a payment was collected.
type PaymentMethod string

const (
	MethodSimulated PaymentMethod = "simulated"
	MethodProvider  PaymentMethod = "provider"
)

// PaymentConfirmed is the only state a ledger row can hold.
const PaymentConfirmed = "confirmed"

// Payment is a ledger entry settling one invoice.
type Payment struct {
	ID          int64         `json:"id"`
	InvoiceID   int64         `json:"invoice_id"`
	PaidAt      time.Time     `json:"paid_at"`
	Amount      Money         `json:"amount"`
	Method      PaymentMethod `json:"method"`
	State       string        `json:"state"`
	ProviderRef *string       `json:"provider_ref,omitempty"`
	ReceiptPath *string       `json:"receipt_path"`
	CreatedAt   time.Time     `json:"created_at"`
}

// ReceiptData is a payment joined with its invoice, unit and payer, as
// needed to render a receipt document.
type ReceiptData struct {
	PaymentID     int64
	PaidAt        time.Time
	Method        PaymentMethod
	Amount        Money
	InvoiceID     int64
	Concept       string
	IssuedAt      time.Time
	DueAt         *time.Time
	UnitNumber    string
	PayerUsername string
	PayerEmail    string
	PayerName     string
}
