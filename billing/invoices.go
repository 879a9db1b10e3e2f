package billing

import (
	"context"
	"errors"
	"time"

	"github.com/satheeshds/condo/models"
	"github.com/satheeshds/condo/receipts"
	"github.com/satheeshds/condo/store"
)

// PayResult is the outcome of a simulated payment.
type PayResult struct {
	InvoiceID int64 `json:"invoice_id"`
	PaymentID int64 `json:"payment_id,omitempty"`
	Applied   bool  `json:"applied"`
}

// StatusInfo describes the payment configuration to clients.
type StatusInfo struct {
	ProviderConfigured bool   `json:"provider_configured"`
	AppURL             string `json:"app_url"`
	Currency           string `json:"currency"`
}

func (s *Service) Status() StatusInfo {
	return StatusInfo{ProviderConfigured: s.provider != nil, AppURL: s.appURL, Currency: s.currency}
}

// MyInvoices lists the invoices of the caller's unit, newest first. Accounts
// without a unit get an empty list.
func (s *Service) MyInvoices(ctx context.Context, p models.Principal) ([]models.Invoice, error) {
	if err := s.authorize(p, ActionViewInvoices); err != nil {
		return nil, err
	}
	unitID, err := s.store.ResidentUnit(ctx, p.AccountID)
	if errors.Is(err, store.ErrNotFound) {
		return []models.Invoice{}, nil
	}
	if err != nil {
		return nil, storeError(err, "resolve unit")
	}
	invoices, err := s.store.UnitInvoices(ctx, unitID)
	if err != nil {
		return nil, storeError(err, "list invoices")
	}
	return invoices, nil
}

// PaySimulated settles one of the caller's invoices without the payment
// provider. Paying an already-paid invoice is a no-op, not an error.
func (s *Service) PaySimulated(ctx context.Context, p models.Principal, invoiceID int64) (PayResult, error) {
	if err := s.authorize(p, ActionPay); err != nil {
		return PayResult{}, err
	}
	if invoiceID <= 0 {
		return PayResult{}, newError(InvalidInput, nil, "invoice_id is required")
	}

	inv, err := s.store.OwnedInvoice(ctx, p.AccountID, invoiceID)
	if err != nil {
		return PayResult{}, storeError(err, "invoice not found")
	}
	out := PayResult{InvoiceID: inv.ID}
	if !inv.Payable() {
		if inv.LastPaymentID != nil {
			out.PaymentID = *inv.LastPaymentID
		}
		return out, nil
	}

	res, err := s.ApplyPayment(ctx, inv.ID, inv.Amount, models.MethodSimulated, "")
	if err != nil {
		return PayResult{}, err
	}
	out.PaymentID = res.PaymentID
	out.Applied = res.Applied
	return out, nil
}

// Receipt returns the path of a payment's receipt document, generating it if
// it is missing. Residents only see payments of their own unit.
func (s *Service) Receipt(ctx context.Context, p models.Principal, paymentID int64) (string, error) {
	if err := s.authorize(p, ActionViewReceipt); err != nil {
		return "", err
	}
	if paymentID <= 0 {
		return "", newError(InvalidInput, nil, "invalid payment id")
	}

	var err error
	if p.Role == models.RoleAdmin {
		_, err = s.store.GetPayment(ctx, paymentID)
	} else {
		_, err = s.store.OwnedPayment(ctx, p.AccountID, paymentID)
	}
	if err != nil {
		return "", storeError(err, "payment not found")
	}
	if s.receipts == nil {
		return "", newError(NotFound, nil, "receipt not available")
	}

	path, err := s.receipts.Ensure(ctx, paymentID)
	if errors.Is(err, receipts.ErrPaymentNotFound) {
		return "", newError(PaymentNotFound, err, "payment not found")
	}
	if err != nil {
		return "", newError(Internal, err, "receipt unavailable")
	}
	return path, nil
}

// IssueInvoice creates a pending invoice for a unit.
func (s *Service) IssueInvoice(ctx context.Context, p models.Principal, input models.InvoiceInput) (models.Invoice, error) {
	if err := s.authorize(p, ActionManageInvoices); err != nil {
		return models.Invoice{}, err
	}
	if msg := input.Validate(); msg != "" {
		return models.Invoice{}, newError(InvalidInput, nil, "%s", msg)
	}
	inv, err := s.store.IssueInvoice(ctx, input)
	if err != nil {
		return models.Invoice{}, storeError(err, "issue invoice")
	}
	return inv, nil
}

// MarkOverdue moves pending invoices past their due date to overdue.
func (s *Service) MarkOverdue(ctx context.Context, p models.Principal, asOf time.Time) (int64, error) {
	if err := s.authorize(p, ActionManageInvoices); err != nil {
		return 0, err
	}
	n, err := s.store.MarkOverdue(ctx, asOf)
	if err != nil {
		return 0, storeError(err, "mark overdue")
	}
	return n, nil
}

// Dashboard summarizes invoices and collections for administrators.
func (s *Service) Dashboard(ctx context.Context, p models.Principal) (models.Dashboard, error) {
	if err := s.authorize(p, ActionManageInvoices); err != nil {
		return models.Dashboard{}, err
	}
	d, err := s.store.Dashboard(ctx)
	if err != nil {
		return models.Dashboard{}, storeError(err, "dashboard")
	}
	return d, nil
}
