package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/satheeshds/condo/auth"
	"github.com/satheeshds/condo/billing"
	"github.com/satheeshds/condo/receipts"
)

// maxWebhookBody bounds the provider payload read into memory.
const maxWebhookBody = 64 << 10

// PayRequest is the body of a simulated payment.
type PayRequest struct {
	InvoiceID int64 `json:"invoice_id"`
}

// CheckoutRequest selects the invoices to pay through the provider.
type CheckoutRequest struct {
	IDs []int64 `json:"ids"`
}

// BillingStatus reports whether provider checkout is available
// @Summary      Payment configuration
// @Tags         billing
// @Produce      json
// @Success      200  {object}  Response{data=billing.StatusInfo}
// @Router       /billing/status [get]
func (a *API) BillingStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Billing.Status())
}

// MyInvoices lists the caller's invoices
// @Summary      List my invoices
// @Description  Invoices of the caller's unit, newest first, with the id of the confirming payment when paid.
// @Tags         billing
// @Produce      json
// @Success      200  {object}  Response{data=[]models.Invoice}
// @Failure      401  {object}  Response
// @Router       /billing/invoices [get]
// @Security     BearerAuth
func (a *API) MyInvoices(w http.ResponseWriter, r *http.Request) {
	list, err := a.Billing.MyInvoices(r.Context(), auth.PrincipalFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// PaySimulated settles an invoice without the payment provider
// @Summary      Simulated payment
// @Description  Pays one of the caller's invoices. Paying an invoice that is already paid succeeds with applied=false.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        body  body      PayRequest  true  "Invoice to pay"
// @Success      200   {object}  Response{data=billing.PayResult}
// @Failure      400   {object}  Response
// @Failure      404   {object}  Response
// @Router       /billing/pay [post]
// @Security     BearerAuth
func (a *API) PaySimulated(w http.ResponseWriter, r *http.Request) {
	var req PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res, err := a.Billing.PaySimulated(r.Context(), auth.PrincipalFrom(r.Context()), req.InvoiceID)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Checkout opens a hosted payment session
// @Summary      Start checkout
// @Description  Creates a provider session for the caller's unpaid invoices among ids. Foreign and paid invoices are skipped.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        body  body      CheckoutRequest  true  "Invoice ids"
// @Success      200   {object}  Response{data=billing.CheckoutResult}
// @Failure      400   {object}  Response
// @Failure      501   {object}  Response
// @Failure      502   {object}  Response
// @Router       /billing/checkout [post]
// @Security     BearerAuth
func (a *API) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	res, err := a.Billing.Checkout(r.Context(), auth.PrincipalFrom(r.Context()), req.IDs)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Confirm reconciles a completed checkout session
// @Summary      Confirm checkout
// @Description  Looks the session up at the provider and settles its invoices. Answers 202 with status=pending while the provider has not confirmed the payment.
// @Tags         billing
// @Produce      json
// @Param        session_id  query     string  true  "Provider session id"
// @Success      200         {object}  Response{data=billing.ConfirmResult}
// @Success      202         {object}  Response{data=billing.ConfirmResult}
// @Failure      403         {object}  Response
// @Failure      404         {object}  Response
// @Failure      502         {object}  Response
// @Router       /billing/confirm [get]
// @Security     BearerAuth
func (a *API) Confirm(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session_id")
	res, err := a.Billing.Confirm(r.Context(), auth.PrincipalFrom(r.Context()), sessionID)
	if billing.KindOf(err) == billing.PaymentNotConfirmed {
		writeJSON(w, http.StatusAccepted, billing.ConfirmResult{Status: billing.StatusPending, SessionID: sessionID, Applied: []int64{}})
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Receipt downloads a payment's receipt
// @Summary      Download receipt
// @Description  Returns the PDF receipt of a payment, generating it first when missing.
// @Tags         billing
// @Produce      application/pdf
// @Param        paymentID  path      int  true  "Payment ID"
// @Success      200        {file}    file
// @Failure      404        {object}  Response
// @Router       /billing/receipts/{paymentID} [get]
// @Security     BearerAuth
func (a *API) Receipt(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "paymentID"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid payment id")
		return
	}
	path, err := a.Billing.Receipt(r.Context(), auth.PrincipalFrom(r.Context()), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	f, err := os.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		writeError(w, http.StatusNotFound, "receipt not found")
		return
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	name := receipts.FileName(id)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", name))
	http.ServeContent(w, r, name, info.ModTime(), f)
}

// Webhook receives provider events
// @Summary      Provider webhook
// @Description  Verifies the Stripe-Signature header over the raw body. Any authentic event is acknowledged; per-invoice failures are only logged.
// @Tags         billing
// @Accept       json
// @Produce      json
// @Param        Stripe-Signature  header    string  true  "Provider signature"
// @Success      200               {object}  Response
// @Failure      400               {object}  Response
// @Failure      501               {object}  Response
// @Router       /billing/webhook [post]
func (a *API) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
	if err != nil {
		writeError(w, http.StatusBadRequest, "cannot read body")
		return
	}

	res, err := a.Billing.HandleEvent(r.Context(), payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		if billing.KindOf(err) == billing.NotConfigured {
			writeError(w, http.StatusNotImplemented, "payment provider not configured")
			return
		}
		slog.Warn("webhook rejected", "error", err)
		writeError(w, http.StatusBadRequest, "invalid webhook")
		return
	}
	slog.Info("webhook processed", "event_id", res.EventID, "type", res.EventType, "applied", res.Applied)
	writeJSON(w, http.StatusOK, map[string]bool{"received": true})
}
