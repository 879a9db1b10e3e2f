package billing

import "context"

// EventCheckoutCompleted is the provider event that settles invoices.
const EventCheckoutCompleted = "checkout.session.completed"

// PaymentStatusPaid is the session payment status that allows reconciliation.
const PaymentStatusPaid = "paid"

// Metadata keys written on every checkout session.
const (
	MetaUserID     = "user_id"
	MetaInvoiceIDs = "invoice_ids"
)

// LineItem is one invoice charged in a checkout session, in minor units.
type LineItem struct {
	InvoiceID   int64
	Name        string
	Description string
	Amount      int64
}

// SessionRequest describes a hosted checkout to open.
type SessionRequest struct {
	LineItems     []LineItem
	Currency      string
	CustomerEmail string
	Metadata      map[string]string
	SuccessURL    string
	CancelURL     string
}

// Session is the provider's view of a checkout.
type Session struct {
	ID            string
	URL           string
	PayerEmail    string
	PaymentStatus string
	Metadata      map[string]string
}

// Event is a verified provider notification.
type Event struct {
	ID      string
	Type    string
	Session Session
}

// Provider is the external payment-processing boundary.
//
// RetrieveSession returns ErrSessionNotFound for unknown ids and wraps
// ErrProviderDown for transport failures. ParseEvent must verify the signature
// over payload exactly as received and wrap ErrInvalidSignature on failure;
// other errors mean the payload was authentic but could not be read.
type Provider interface {
	CreateSession(ctx context.Context, req SessionRequest) (*Session, error)
	RetrieveSession(ctx context.Context, id string) (*Session, error)
	ParseEvent(payload []byte, signature string) (*Event, error)
}
