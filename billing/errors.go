package billing

import (
	"errors"
	"fmt"
)

// Kind classifies a billing failure so the boundary can map it to a status code.
type Kind int

const (
	Internal Kind = iota
	Unauthenticated
	Forbidden
	NotFound
	InvalidInput
	Conflict
	NoPayableInvoices
	PaymentNotConfirmed
	PaymentNotFound
	ProviderUnavailable
	NotConfigured
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case InvalidInput:
		return "invalid_input"
	case Conflict:
		return "conflict"
	case NoPayableInvoices:
		return "no_payable_invoices"
	case PaymentNotConfirmed:
		return "payment_not_confirmed"
	case PaymentNotFound:
		return "payment_not_found"
	case ProviderUnavailable:
		return "provider_unavailable"
	case NotConfigured:
		return "not_configured"
	}
	return "internal"
}

// Error is returned by every Service operation.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Msg + ": " + e.Err.Error()
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func newError(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the Kind of err, or Internal when err is not a billing error.
func KindOf(err error) Kind {
	var be *Error
	if errors.As(err, &be) {
		return be.Kind
	}
	return Internal
}

// Errors a Provider implementation reports so the core can tell them apart.
var (
	ErrSessionNotFound  = errors.New("checkout session not found")
	ErrInvalidSignature = errors.New("invalid webhook signature")
	ErrProviderDown     = errors.New("payment provider unavailable")
)
