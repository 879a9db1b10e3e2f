package checkout

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"

	"github.com/satheeshds/condo/billing"
)

const testSecret = "whsec_test_secret"

func newTestStripe(t *testing.T, handler http.HandlerFunc) *Stripe {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	backends := stripe.NewBackendsWithConfig(&stripe.BackendConfig{
		URL:               stripe.String(srv.URL),
		MaxNetworkRetries: stripe.Int64(0),
		LeveledLogger:     &stripe.LeveledLogger{Level: stripe.LevelNull},
	})
	p, err := NewStripe("sk_test_123", testSecret, stripe.WithBackends(backends))
	require.NoError(t, err)
	return p
}

func TestCreateSession(t *testing.T) {
	var form url.Values
	p := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/checkout/sessions", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		form, _ = url.ParseQuery(string(body))
		json.NewEncoder(w).Encode(map[string]any{
			"id":             "cs_test_1",
			"object":         "checkout.session",
			"url":            "https://checkout.stripe.com/c/pay/cs_test_1",
			"payment_status": "unpaid",
			"metadata":       map[string]string{"user_id": "7", "invoice_ids": "20,21"},
		})
	})

	sess, err := p.CreateSession(context.Background(), billing.SessionRequest{
		LineItems: []billing.LineItem{
			{InvoiceID: 20, Name: "Invoice #20", Description: "Maintenance", Amount: 4550},
			{InvoiceID: 21, Name: "Invoice #21", Amount: 1000},
		},
		Currency:      "USD",
		CustomerEmail: "ana@example.com",
		Metadata:      map[string]string{"user_id": "7", "invoice_ids": "20,21"},
		SuccessURL:    "http://localhost/ok",
		CancelURL:     "http://localhost/cancel",
	})
	require.NoError(t, err)
	assert.Equal(t, "cs_test_1", sess.ID)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_1", sess.URL)

	assert.Equal(t, "payment", form.Get("mode"))
	assert.Equal(t, "usd", form.Get("line_items[0][price_data][currency]"))
	assert.Equal(t, "4550", form.Get("line_items[0][price_data][unit_amount]"))
	assert.Equal(t, "Invoice #21", form.Get("line_items[1][price_data][product_data][name]"))
	assert.Equal(t, "20,21", form.Get("metadata[invoice_ids]"))
	assert.Equal(t, "ana@example.com", form.Get("customer_email"))
}

func TestRetrieveSession(t *testing.T) {
	p := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/checkout/sessions/cs_paid" {
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{
				"type":    "invalid_request_error",
				"code":    "resource_missing",
				"message": "No such checkout.session",
			}})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":               "cs_paid",
			"object":           "checkout.session",
			"payment_status":   "paid",
			"customer_details": map[string]any{"email": "ana@example.com"},
			"metadata":         map[string]string{"invoice_ids": "20"},
		})
	})

	sess, err := p.RetrieveSession(context.Background(), "cs_paid")
	require.NoError(t, err)
	assert.Equal(t, billing.PaymentStatusPaid, sess.PaymentStatus)
	assert.Equal(t, "ana@example.com", sess.PayerEmail)
	assert.Equal(t, "20", sess.Metadata[billing.MetaInvoiceIDs])

	_, err = p.RetrieveSession(context.Background(), "cs_missing")
	assert.ErrorIs(t, err, billing.ErrSessionNotFound)
}

func TestRetrieveSession_ServerError(t *testing.T) {
	p := newTestStripe(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{
			"type":    "invalid_request_error",
			"message": "Invalid API Key provided",
		}})
	})

	_, err := p.RetrieveSession(context.Background(), "cs_any")
	assert.ErrorIs(t, err, billing.ErrProviderDown)
}

func signedEvent(t *testing.T, secret string, payload []byte) string {
	t.Helper()

	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    secret,
		Timestamp: time.Now(),
	})
	return signed.Header
}

func TestParseEvent(t *testing.T) {
	p, err := NewStripe("sk_test_123", testSecret)
	require.NoError(t, err)

	payload := []byte(`{
		"id": "evt_1",
		"object": "event",
		"api_version": "2020-08-27",
		"type": "checkout.session.completed",
		"data": {"object": {
			"id": "cs_test_1",
			"object": "checkout.session",
			"payment_status": "paid",
			"customer_email": "ana@example.com",
			"metadata": {"user_id": "7", "invoice_ids": "20,21"}
		}}
	}`)

	ev, err := p.ParseEvent(payload, signedEvent(t, testSecret, payload))
	require.NoError(t, err)
	assert.Equal(t, "evt_1", ev.ID)
	assert.Equal(t, billing.EventCheckoutCompleted, ev.Type)
	assert.Equal(t, "cs_test_1", ev.Session.ID)
	assert.Equal(t, "ana@example.com", ev.Session.PayerEmail)
	assert.Equal(t, "20,21", ev.Session.Metadata[billing.MetaInvoiceIDs])
}

func TestParseEvent_RejectsBadSignature(t *testing.T) {
	p, err := NewStripe("sk_test_123", testSecret)
	require.NoError(t, err)
	payload := []byte(`{"id":"evt_1","object":"event","type":"checkout.session.completed","data":{"object":{}}}`)

	_, err = p.ParseEvent(payload, signedEvent(t, "whsec_other", payload))
	assert.ErrorIs(t, err, billing.ErrInvalidSignature)

	tampered := append([]byte(nil), payload...)
	header := signedEvent(t, testSecret, payload)
	tampered[len(tampered)-2] = ' '
	_, err = p.ParseEvent(tampered, header)
	assert.ErrorIs(t, err, billing.ErrInvalidSignature)

	_, err = p.ParseEvent(payload, "")
	assert.ErrorIs(t, err, billing.ErrInvalidSignature)

	unconfigured, err := NewStripe("sk_test_123", "")
	require.NoError(t, err)
	_, err = unconfigured.ParseEvent(payload, header)
	assert.ErrorIs(t, err, billing.ErrInvalidSignature)
}

func TestParseEvent_UndecodableSessionIsKept(t *testing.T) {
	p, err := NewStripe("sk_test_123", testSecret)
	require.NoError(t, err)
	payload := []byte(`{
		"id": "evt_2",
		"object": "event",
		"type": "checkout.session.completed",
		"data": {"object": {"id": "cs_test_2", "object": "checkout.session", "metadata": "oops"}}
	}`)

	ev, err := p.ParseEvent(payload, signedEvent(t, testSecret, payload))
	require.NoError(t, err)
	assert.Equal(t, "evt_2", ev.ID)
	assert.Equal(t, billing.EventCheckoutCompleted, ev.Type)
	assert.Empty(t, ev.Session.ID)
	assert.Empty(t, ev.Session.Metadata)
}

func TestNewStripe_RequiresKey(t *testing.T) {
	_, err := NewStripe("", testSecret)
	assert.Error(t, err)
}
