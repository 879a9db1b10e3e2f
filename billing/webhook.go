package billing

import (
	"context"
	"errors"
	"log/slog"

	"github.com/satheeshds/condo/models"
)

// WebhookResult summarizes a processed provider event.
type WebhookResult struct {
	EventID   string  `json:"event_id"`
	EventType string  `json:"event_type"`
	Applied   []int64 `json:"applied"`
}

// HandleEvent is the push side of reconciliation. Only the signature check
// can fail the call. Any other parse failure is logged and acknowledged, and
// once the event is authentic every invoice is attempted with failures logged
// so the provider does not keep retrying.
func (s *Service) HandleEvent(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	if s.provider == nil {
		return nil, newError(NotConfigured, nil, "payment provider not configured")
	}
	ev, err := s.provider.ParseEvent(payload, signature)
	if errors.Is(err, ErrInvalidSignature) {
		return nil, newError(ProviderUnavailable, err, "webhook verification failed")
	}
	if err != nil {
		slog.Error("unreadable provider event", "error", err)
		return &WebhookResult{Applied: []int64{}}, nil
	}

	result := &WebhookResult{EventID: ev.ID, EventType: ev.Type, Applied: []int64{}}
	if ev.Type != EventCheckoutCompleted {
		slog.Debug("ignoring provider event", "event_id", ev.ID, "type", ev.Type)
		return result, nil
	}

	ids := parseInvoiceIDs(ev.Session.Metadata)
	if len(ids) == 0 {
		slog.Warn("checkout event without invoices", "event_id", ev.ID, "session_id", ev.Session.ID)
		return result, nil
	}
	invoices, err := s.store.InvoicesByID(ctx, ids)
	if err != nil {
		slog.Error("load webhook invoices", "session_id", ev.Session.ID, "error", err)
		return result, nil
	}

	known := make(map[int64]bool, len(invoices))
	for _, inv := range invoices {
		known[inv.ID] = true
		res, err := s.ApplyPayment(ctx, inv.ID, inv.Amount, models.MethodProvider, ev.Session.ID)
		if err != nil {
			slog.Error("webhook payment failed", "invoice_id", inv.ID, "session_id", ev.Session.ID, "error", err)
			continue
		}
		if res.Applied {
			result.Applied = append(result.Applied, inv.ID)
		}
	}
	for _, id := range ids {
		if !known[id] {
			slog.Warn("webhook references unknown invoice", "invoice_id", id, "session_id", ev.Session.ID)
		}
	}
	return result, nil
}
