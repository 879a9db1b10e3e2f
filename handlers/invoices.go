package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/satheeshds/condo/auth"
	"github.com/satheeshds/condo/models"
)

// IssueInvoice creates an invoice for a unit
// @Summary      Issue invoice
// @Tags         admin
// @Accept       json
// @Produce      json
// @Param        body  body      models.InvoiceInput  true  "Invoice data"
// @Success      201   {object}  Response{data=models.Invoice}
// @Failure      400   {object}  Response
// @Failure      403   {object}  Response
// @Failure      404   {object}  Response
// @Router       /admin/invoices [post]
// @Security     BearerAuth
func (a *API) IssueInvoice(w http.ResponseWriter, r *http.Request) {
	var input models.InvoiceInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	inv, err := a.Billing.IssueInvoice(r.Context(), auth.PrincipalFrom(r.Context()), input)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, inv)
}

// MarkOverdue flips pending invoices past due to overdue
// @Summary      Overdue sweep
// @Tags         admin
// @Produce      json
// @Param        as_of  query     string  false  "Reference date (YYYY-MM-DD or RFC3339), default now"
// @Success      200    {object}  Response
// @Failure      403    {object}  Response
// @Router       /admin/invoices/overdue [post]
// @Security     BearerAuth
func (a *API) MarkOverdue(w http.ResponseWriter, r *http.Request) {
	asOf := time.Now()
	if v := r.URL.Query().Get("as_of"); v != "" {
		t, err := parseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD or RFC3339")
			return
		}
		asOf = t
	}
	n, err := a.Billing.MarkOverdue(r.Context(), auth.PrincipalFrom(r.Context()), asOf)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"updated": n})
}

func parseDate(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02", v)
}
