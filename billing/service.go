// Package billing reconciles payment confirmations into invoice and ledger
// state. Both confirmation channels, the payer's redirect ("confirm") and the
// provider's webhook, end in ApplyPayment, which writes at most one confirmed
// payment per invoice.
package billing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/satheeshds/condo/models"
	"github.com/satheeshds/condo/store"
)

// Action is an operation an authenticated principal asks to perform.
type Action int

const (
	ActionViewInvoices Action = iota
	ActionPay
	ActionViewReceipt
	ActionManageInvoices
	ActionRegisterAccounts
)

// Authorizer decides whether an authenticated principal may perform an action.
type Authorizer func(p models.Principal, a Action) bool

// DefaultAuthorizer lets every authenticated account work with its own
// invoices and reserves invoice management and registration for admins.
func DefaultAuthorizer(p models.Principal, a Action) bool {
	switch a {
	case ActionManageInvoices, ActionRegisterAccounts:
		return p.Role == models.RoleAdmin
	}
	return true
}

// ReceiptIssuer makes sure a payment has its receipt document.
type ReceiptIssuer interface {
	Ensure(ctx context.Context, paymentID int64) (string, error)
}

// Config wires a Service. Provider may be nil when no payment provider is
// configured; checkout, confirm and webhook then answer NotConfigured.
type Config struct {
	Store     *store.Store
	Provider  Provider
	Receipts  ReceiptIssuer
	Authorize Authorizer
	AppURL    string
	Currency  string
}

type Service struct {
	store    *store.Store
	provider Provider
	receipts ReceiptIssuer
	authz    Authorizer
	appURL   string
	currency string
}

func NewService(cfg Config) *Service {
	authz := cfg.Authorize
	if authz == nil {
		authz = DefaultAuthorizer
	}
	currency := cfg.Currency
	if currency == "" {
		currency = "usd"
	}
	return &Service{
		store:    cfg.Store,
		provider: cfg.Provider,
		receipts: cfg.Receipts,
		authz:    authz,
		appURL:   cfg.AppURL,
		currency: currency,
	}
}

func (s *Service) authorize(p models.Principal, a Action) error {
	if !p.Authenticated() {
		return newError(Unauthenticated, nil, "authentication required")
	}
	if !s.authz(p, a) {
		return newError(Forbidden, nil, "access denied")
	}
	return nil
}

// ApplyPayment settles one invoice. It is safe to call concurrently and
// repeatedly for the same invoice: exactly one call writes the payment, the
// others return Applied=false without error.
//
// The receipt is produced after the ledger transaction commits. A receipt
// failure is logged and never undoes the payment.
func (s *Service) ApplyPayment(ctx context.Context, invoiceID int64, amount models.Money, method models.PaymentMethod, ref string) (store.Applied, error) {
	res, err := s.store.ApplyPayment(ctx, store.Application{
		InvoiceID:   invoiceID,
		Amount:      amount,
		Method:      method,
		ProviderRef: ref,
	})
	if err != nil {
		return res, storeError(err, "apply payment to invoice %d", invoiceID)
	}
	if !res.Applied {
		slog.Debug("payment already applied", "invoice_id", invoiceID, "method", method)
		return res, nil
	}

	slog.Info("payment applied", "invoice_id", invoiceID, "payment_id", res.PaymentID, "method", method, "amount", amount.String())
	s.issueReceipt(ctx, res.PaymentID)
	return res, nil
}

func (s *Service) issueReceipt(ctx context.Context, paymentID int64) {
	if s.receipts == nil {
		return
	}
	// The payer may already have gone away; the receipt is still wanted.
	if _, err := s.receipts.Ensure(context.WithoutCancel(ctx), paymentID); err != nil {
		slog.Error("receipt generation failed", "payment_id", paymentID, "error", err)
	}
}

func storeError(err error, format string, args ...any) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return newError(NotFound, err, format, args...)
	case errors.Is(err, store.ErrAmountMismatch):
		return newError(InvalidInput, err, format, args...)
	case errors.Is(err, store.ErrEmailTaken), errors.Is(err, store.ErrUnitOccupied):
		return newError(Conflict, err, format, args...)
	}
	return newError(Internal, err, format, args...)
}
