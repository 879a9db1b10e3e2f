package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/satheeshds/condo/auth"
	"github.com/satheeshds/condo/billing"
	"github.com/satheeshds/condo/store"
)

func statusFor(kind billing.Kind) int {
	switch kind {
	case billing.Unauthenticated:
		return http.StatusUnauthorized
	case billing.Forbidden:
		return http.StatusForbidden
	case billing.NotFound, billing.PaymentNotFound:
		return http.StatusNotFound
	case billing.InvalidInput, billing.NoPayableInvoices:
		return http.StatusBadRequest
	case billing.Conflict:
		return http.StatusConflict
	case billing.PaymentNotConfirmed:
		return http.StatusAccepted
	case billing.ProviderUnavailable:
		return http.StatusBadGateway
	case billing.NotConfigured:
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}

// writeServiceError answers with the status of a billing error. Internal
// details are logged, not returned.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(billing.KindOf(err))
	if status == http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, status, "internal error")
		return
	}
	var be *billing.Error
	if errors.As(err, &be) {
		writeError(w, status, be.Msg)
		return
	}
	writeError(w, status, err.Error())
}

// writeAuthError maps account errors onto status codes.
func writeAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrUnauthenticated), errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrForbidden):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, store.ErrEmailTaken), errors.Is(err, store.ErrUnitOccupied):
		writeError(w, http.StatusConflict, err.Error())
	default:
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
