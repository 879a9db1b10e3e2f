package store

import (
	"context"
	"fmt"

	"github.com/satheeshds/condo/models"
)

// Dashboard gathers the administration summary in a handful of queries.
func (s *Store) Dashboard(ctx context.Context) (models.Dashboard, error) {
	var d models.Dashboard

	counts := []struct {
		query string
		dest  any
	}{
		{`SELECT COUNT(*) FROM units`, &d.TotalUnits},
		{`SELECT COUNT(*) FROM residents WHERE ended_at IS NULL`, &d.ActiveResidents},
		{`SELECT COUNT(*) FROM invoices`, &d.TotalInvoices},
		{`SELECT COUNT(*) FROM invoices WHERE status = 'pending'`, &d.PendingInvoices},
		{`SELECT COUNT(*) FROM invoices WHERE status = 'overdue'`, &d.OverdueInvoices},
		{`SELECT COALESCE(SUM(amount), 0) FROM invoices WHERE status <> 'paid'`, &d.Receivable},
		{`SELECT COALESCE(SUM(amount), 0) FROM payments WHERE state = 'confirmed'`, &d.Collected},
	}
	for _, c := range counts {
		if err := s.conn.QueryRowContext(ctx, c.query).Scan(c.dest); err != nil {
			return d, fmt.Errorf("dashboard: %w", err)
		}
	}

	rows, err := s.conn.QueryContext(ctx, s.q(paymentSelectQuery+` ORDER BY p.paid_at DESC, p.id DESC LIMIT ?`), 5)
	if err != nil {
		return d, fmt.Errorf("recent payments: %w", err)
	}
	defer rows.Close()

	d.RecentPayments = []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return d, fmt.Errorf("scan payment: %w", err)
		}
		d.RecentPayments = append(d.RecentPayments, p)
	}
	return d, rows.Err()
}
