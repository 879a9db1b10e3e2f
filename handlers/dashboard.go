package handlers

import (
	"net/http"

	"github.com/satheeshds/condo/auth"
)

// GetDashboard retrieves billing summary statistics
// @Summary      Get dashboard
// @Description  Unit and resident counts, invoices by status, receivable and collected totals, and the five latest payments.
// @Tags         admin
// @Produce      json
// @Success      200  {object}  Response{data=models.Dashboard}
// @Failure      403  {object}  Response
// @Router       /admin/dashboard [get]
// @Security     BearerAuth
func (a *API) GetDashboard(w http.ResponseWriter, r *http.Request) {
	d, err := a.Billing.Dashboard(r.Context(), auth.PrincipalFrom(r.Context()))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
