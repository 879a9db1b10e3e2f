package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/satheeshds/condo/auth"
	"github.com/satheeshds/condo/billing"
	_ "github.com/satheeshds/condo/docs"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// API holds the services behind the HTTP routes.
type API struct {
	Billing  *billing.Service
	Accounts *auth.Accounts
	Tokens   TokenParser
	DB       Pinger
}

// NewRouter mounts every route of the service.
func NewRouter(api *API) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/health", api.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/login", api.Login)
		r.Get("/billing/status", api.BillingStatus)
		// Signed by the provider, not by a user token.
		r.Post("/billing/webhook", api.Webhook)

		r.Group(func(r chi.Router) {
			r.Use(BearerAuth(api.Tokens))

			r.Post("/register", api.Register)

			r.Get("/billing/invoices", api.MyInvoices)
			r.Post("/billing/pay", api.PaySimulated)
			r.Post("/billing/checkout", api.Checkout)
			r.Get("/billing/confirm", api.Confirm)
			r.Get("/billing/receipts/{paymentID}", api.Receipt)

			r.Get("/admin/dashboard", api.GetDashboard)
			r.Post("/admin/invoices", api.IssueInvoice)
			r.Post("/admin/invoices/overdue", api.MarkOverdue)
		})
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	return r
}

// Health reports liveness and database reachability.
func (a *API) Health(w http.ResponseWriter, r *http.Request) {
	if a.DB != nil {
		if err := a.DB.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
