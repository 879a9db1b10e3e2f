// Package checkout adapts Stripe Checkout to billing.Provider.
package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"

	"github.com/satheeshds/condo/billing"
)

// Stripe implements billing.Provider with hosted Checkout sessions.
type Stripe struct {
	client        *stripe.Client
	webhookSecret string
}

// NewStripe returns a provider for the secret key sk_... and the webhook
// signing secret whsec_.... Options are passed to stripe.NewClient.
func NewStripe(secretKey, webhookSecret string, opts ...stripe.ClientOption) (*Stripe, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	return &Stripe{
		client:        stripe.NewClient(secretKey, opts...),
		webhookSecret: webhookSecret,
	}, nil
}

// CreateSession opens a one-off payment session with one line item per invoice.
func (s *Stripe) CreateSession(ctx context.Context, req billing.SessionRequest) (*billing.Session, error) {
	currency := strings.ToLower(req.Currency)
	items := make([]*stripe.CheckoutSessionCreateLineItemParams, 0, len(req.LineItems))
	for _, li := range req.LineItems {
		product := &stripe.CheckoutSessionCreateLineItemPriceDataProductDataParams{
			Name: stripe.String(li.Name),
		}
		if li.Description != "" {
			product.Description = stripe.String(li.Description)
		}
		items = append(items, &stripe.CheckoutSessionCreateLineItemParams{
			PriceData: &stripe.CheckoutSessionCreateLineItemPriceDataParams{
				Currency:    stripe.String(currency),
				ProductData: product,
				UnitAmount:  stripe.Int64(li.Amount),
			},
			Quantity: stripe.Int64(1),
		})
	}

	params := &stripe.CheckoutSessionCreateParams{
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems:  items,
		SuccessURL: stripe.String(req.SuccessURL),
		CancelURL:  stripe.String(req.CancelURL),
		Metadata:   req.Metadata,
	}
	if req.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(req.CustomerEmail)
	}

	sess, err := s.client.V1CheckoutSessions.Create(ctx, params)
	if err != nil {
		return nil, wrapStripeError(err)
	}
	return toSession(sess), nil
}

// RetrieveSession looks a session up by id.
func (s *Stripe) RetrieveSession(ctx context.Context, id string) (*billing.Session, error) {
	sess, err := s.client.V1CheckoutSessions.Retrieve(ctx, id, &stripe.CheckoutSessionRetrieveParams{})
	if err != nil {
		return nil, wrapStripeError(err)
	}
	return toSession(sess), nil
}

// ParseEvent verifies the Stripe-Signature header over the raw payload.
// Stripe CLI events may carry another API version than the SDK; the
// signature still decides authenticity.
func (s *Stripe) ParseEvent(payload []byte, signature string) (*billing.Event, error) {
	if s.webhookSecret == "" {
		return nil, fmt.Errorf("webhook secret not configured: %w", billing.ErrInvalidSignature)
	}
	ev, err := webhook.ConstructEventWithOptions(payload, signature, s.webhookSecret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrInvalidSignature, err)
	}

	out := &billing.Event{ID: ev.ID, Type: string(ev.Type)}
	if !strings.HasPrefix(out.Type, "checkout.session.") || ev.Data == nil {
		return out, nil
	}
	var sess stripe.CheckoutSession
	if err := json.Unmarshal(ev.Data.Raw, &sess); err != nil {
		// Authentic but unreadable: keep the event so the caller acknowledges it.
		slog.Warn("undecodable checkout session in event", "event_id", ev.ID, "type", out.Type, "error", err)
		out.Session = billing.Session{Metadata: map[string]string{}}
		return out, nil
	}
	out.Session = *toSession(&sess)
	return out, nil
}

func toSession(s *stripe.CheckoutSession) *billing.Session {
	out := &billing.Session{
		ID:            s.ID,
		URL:           s.URL,
		PayerEmail:    s.CustomerEmail,
		PaymentStatus: string(s.PaymentStatus),
		Metadata:      s.Metadata,
	}
	if out.PayerEmail == "" && s.CustomerDetails != nil {
		out.PayerEmail = s.CustomerDetails.Email
	}
	if out.Metadata == nil {
		out.Metadata = map[string]string{}
	}
	return out
}

// wrapStripeError maps SDK errors onto the provider sentinels.
func wrapStripeError(err error) error {
	var stripeErr *stripe.Error
	if !errors.As(err, &stripeErr) {
		return fmt.Errorf("%w: %v", billing.ErrProviderDown, err)
	}
	if stripeErr.Code == stripe.ErrorCodeResourceMissing {
		return billing.ErrSessionNotFound
	}
	return fmt.Errorf("%w: stripe %d %s: %s", billing.ErrProviderDown, stripeErr.HTTPStatusCode, stripeErr.Code, stripeErr.Msg)
}
