package models

// Dashboard is the administration summary of the building's billing.
type Dashboard struct {
	TotalUnits      int `json:"total_units"`
	ActiveResidents int `json:"active_residents"`

	TotalInvoices   int `json:"total_invoices"`
	PendingInvoices int `json:"pending_invoices"`
	OverdueInvoices int `json:"overdue_invoices"`

	Receivable Money `json:"receivable"` // unpaid invoice amounts
	Collected  Money `json:"collected"`  // confirmed payments

	RecentPayments []Payment `json:"recent_payments"`
}
