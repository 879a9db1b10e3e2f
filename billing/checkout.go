package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/satheeshds/condo/models"
)

const descriptionLimit = 100

// Confirmation statuses reported by Confirm.
const (
	StatusConfirmed = "confirmed"
	StatusPending   = "pending"
)

// CheckoutResult points the payer at the hosted payment page.
type CheckoutResult struct {
	SessionID  string  `json:"session_id"`
	URL        string  `json:"url"`
	InvoiceIDs []int64 `json:"invoice_ids"`
}

// ConfirmResult lists the invoices a confirmation settled. Invoices settled
// earlier, by the webhook or a previous confirm, are not repeated.
type ConfirmResult struct {
	Status    string  `json:"status"`
	SessionID string  `json:"session_id"`
	Applied   []int64 `json:"applied"`
	Failed    []int64 `json:"failed,omitempty"`
}

// Checkout opens a provider session for the caller's payable invoices among
// ids. Foreign and paid invoices are left out; if nothing remains no session
// is created.
func (s *Service) Checkout(ctx context.Context, p models.Principal, ids []int64) (*CheckoutResult, error) {
	if err := s.authorize(p, ActionPay); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, newError(NotConfigured, nil, "payment provider not configured")
	}
	ids = uniquePositive(ids)
	if len(ids) == 0 {
		return nil, newError(InvalidInput, nil, "ids[] is required")
	}

	owned, err := s.store.OwnedInvoices(ctx, p.AccountID, ids)
	if err != nil {
		return nil, storeError(err, "load invoices")
	}
	var items []LineItem
	var payable []int64
	for _, inv := range owned {
		if !inv.Payable() {
			continue
		}
		payable = append(payable, inv.ID)
		items = append(items, LineItem{
			InvoiceID:   inv.ID,
			Name:        fmt.Sprintf("Invoice #%d", inv.ID),
			Description: truncate(inv.Concept, descriptionLimit),
			Amount:      inv.Amount.Minor(),
		})
	}
	if len(payable) == 0 {
		return nil, newError(NoPayableInvoices, nil, "no payable invoices")
	}

	sess, err := s.provider.CreateSession(ctx, SessionRequest{
		LineItems:     items,
		Currency:      s.currency,
		CustomerEmail: p.Email,
		Metadata: map[string]string{
			MetaUserID:     strconv.FormatInt(p.AccountID, 10),
			MetaInvoiceIDs: encodeInvoiceIDs(payable),
		},
		SuccessURL: s.appURL + "/home/billing?ok=1&session_id={CHECKOUT_SESSION_ID}",
		CancelURL:  s.appURL + "/home/billing?cancel=1",
	})
	if err != nil {
		return nil, newError(ProviderUnavailable, err, "create checkout session")
	}

	slog.Info("checkout session created", "session_id", sess.ID, "account_id", p.AccountID, "invoice_ids", payable)
	return &CheckoutResult{SessionID: sess.ID, URL: sess.URL, InvoiceIDs: payable}, nil
}

// Confirm is the pull side of reconciliation: the payer returns from the
// hosted page and the session is looked up at the provider. Every payable
// invoice in the session is attempted; ones that fail to settle are listed in
// Failed and a later Confirm or webhook for the same session settles them.
func (s *Service) Confirm(ctx context.Context, p models.Principal, sessionID string) (*ConfirmResult, error) {
	if err := s.authorize(p, ActionPay); err != nil {
		return nil, err
	}
	if s.provider == nil {
		return nil, newError(NotConfigured, nil, "payment provider not configured")
	}
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return nil, newError(InvalidInput, nil, "session_id is required")
	}

	sess, err := s.provider.RetrieveSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, newError(NotFound, err, "checkout session not found")
	}
	if err != nil {
		return nil, newError(ProviderUnavailable, err, "retrieve checkout session")
	}

	if sess.PayerEmail != "" && !strings.EqualFold(sess.PayerEmail, p.Email) {
		return nil, newError(Forbidden, nil, "checkout session belongs to another payer")
	}
	if uid := sess.Metadata[MetaUserID]; uid != "" && uid != strconv.FormatInt(p.AccountID, 10) {
		return nil, newError(Forbidden, nil, "checkout session belongs to another account")
	}
	if sess.PaymentStatus != PaymentStatusPaid {
		return nil, newError(PaymentNotConfirmed, nil, "payment not confirmed (status: %s)", sess.PaymentStatus)
	}

	result := &ConfirmResult{Status: StatusConfirmed, SessionID: sess.ID, Applied: []int64{}}
	ids := parseInvoiceIDs(sess.Metadata)
	if len(ids) == 0 {
		return result, nil
	}
	owned, err := s.store.OwnedInvoices(ctx, p.AccountID, ids)
	if err != nil {
		return nil, storeError(err, "load invoices")
	}
	for _, inv := range owned {
		if !inv.Payable() {
			continue
		}
		res, err := s.ApplyPayment(ctx, inv.ID, inv.Amount, models.MethodProvider, sess.ID)
		if err != nil {
			slog.Error("confirm payment failed", "invoice_id", inv.ID, "session_id", sess.ID, "error", err)
			result.Failed = append(result.Failed, inv.ID)
			continue
		}
		if res.Applied {
			result.Applied = append(result.Applied, inv.ID)
		}
	}
	return result, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
