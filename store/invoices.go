package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/satheeshds/condo/db"
	"github.com/satheeshds/condo/models"
)

const invoiceSelectQuery = `SELECT i.id, i.unit_id, i.concept, i.amount, i.status, i.issued_at, i.due_at,
		i.created_at, i.updated_at, u.number,
		(SELECT MAX(p.id) FROM payments p WHERE p.invoice_id = i.id AND p.state = 'confirmed')
		FROM invoices i
		JOIN units u ON u.id = i.unit_id`

// ownedInvoiceJoin restricts invoices to the unit currently occupied by an account.
const ownedInvoiceJoin = ` JOIN residents r ON r.unit_id = i.unit_id AND r.ended_at IS NULL`

func scanInvoice(row scanner) (models.Invoice, error) {
	var inv models.Invoice
	err := row.Scan(&inv.ID, &inv.UnitID, &inv.Concept, &inv.Amount, &inv.Status, &inv.IssuedAt, &inv.DueAt,
		&inv.CreatedAt, &inv.UpdatedAt, &inv.UnitNumber, &inv.LastPaymentID)
	return inv, err
}

func (s *Store) queryInvoices(ctx context.Context, query string, args ...any) ([]models.Invoice, error) {
	rows, err := s.conn.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	invoices := []models.Invoice{}
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// ResidentUnit returns the unit an account currently lives in.
func (s *Store) ResidentUnit(ctx context.Context, accountID int64) (int64, error) {
	var unitID int64
	err := s.conn.QueryRowContext(ctx, s.q(`SELECT unit_id FROM residents
		WHERE account_id = ? AND ended_at IS NULL LIMIT 1`), accountID).Scan(&unitID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("resident unit: %w", err)
	}
	return unitID, nil
}

// UnitInvoices lists a unit's invoices, newest issue date first and highest
// id first within the same date.
func (s *Store) UnitInvoices(ctx context.Context, unitID int64) ([]models.Invoice, error) {
	return s.queryInvoices(ctx, invoiceSelectQuery+` WHERE i.unit_id = ?
		ORDER BY `+db.DateOf(s.driver, "i.issued_at")+` DESC, i.id DESC`, unitID)
}

// OwnedInvoice returns an invoice only when it belongs to the account's unit.
func (s *Store) OwnedInvoice(ctx context.Context, accountID, invoiceID int64) (models.Invoice, error) {
	inv, err := scanInvoice(s.conn.QueryRowContext(ctx,
		s.q(invoiceSelectQuery+ownedInvoiceJoin+` WHERE i.id = ? AND r.account_id = ?`), invoiceID, accountID))
	if errors.Is(err, sql.ErrNoRows) {
		return inv, ErrNotFound
	}
	if err != nil {
		return inv, fmt.Errorf("owned invoice: %w", err)
	}
	return inv, nil
}

// OwnedInvoices returns the subset of ids that belong to the account's unit.
// Foreign and unknown ids are silently left out.
func (s *Store) OwnedInvoices(ctx context.Context, accountID int64, ids []int64) ([]models.Invoice, error) {
	if len(ids) == 0 {
		return []models.Invoice{}, nil
	}
	args := append([]any{accountID}, int64Args(ids)...)
	return s.queryInvoices(ctx, invoiceSelectQuery+ownedInvoiceJoin+
		` WHERE r.account_id = ? AND i.id IN (`+placeholders(len(ids))+`) ORDER BY i.id`, args...)
}

// InvoicesByID returns the invoices that exist among ids, with no owner check.
func (s *Store) InvoicesByID(ctx context.Context, ids []int64) ([]models.Invoice, error) {
	if len(ids) == 0 {
		return []models.Invoice{}, nil
	}
	return s.queryInvoices(ctx, invoiceSelectQuery+
		` WHERE i.id IN (`+placeholders(len(ids))+`) ORDER BY i.id`, int64Args(ids)...)
}

// GetInvoice returns one invoice by id.
func (s *Store) GetInvoice(ctx context.Context, id int64) (models.Invoice, error) {
	inv, err := scanInvoice(s.conn.QueryRowContext(ctx, s.q(invoiceSelectQuery+` WHERE i.id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return inv, ErrNotFound
	}
	if err != nil {
		return inv, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// IssueInvoice creates a pending invoice for an existing unit.
func (s *Store) IssueInvoice(ctx context.Context, input models.InvoiceInput) (models.Invoice, error) {
	var unitID int64
	err := s.conn.QueryRowContext(ctx, s.q(`SELECT id FROM units WHERE number = ?`), input.UnitNumber).Scan(&unitID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invoice{}, fmt.Errorf("unit %s: %w", input.UnitNumber, ErrNotFound)
	}
	if err != nil {
		return models.Invoice{}, fmt.Errorf("lookup unit: %w", err)
	}

	now := s.timestamp()
	issued := now
	if input.IssuedAt != nil {
		issued = input.IssuedAt.UTC()
	}
	var due *time.Time
	if input.DueAt != nil {
		d := input.DueAt.UTC()
		due = &d
	}

	var id int64
	err = s.conn.QueryRowContext(ctx, s.q(`INSERT INTO invoices (unit_id, concept, amount, status, issued_at, due_at, created_at, updated_at)
		VALUES (?, ?, ?, 'pending', ?, ?, ?, ?) RETURNING id`),
		unitID, input.Concept, input.Amount, issued, due, now, now).Scan(&id)
	if err != nil {
		return models.Invoice{}, fmt.Errorf("insert invoice: %w", err)
	}
	return s.GetInvoice(ctx, id)
}

// MarkOverdue flips pending invoices whose due date is before asOf to overdue.
// Paid invoices are never touched.
func (s *Store) MarkOverdue(ctx context.Context, asOf time.Time) (int64, error) {
	res, err := s.conn.ExecContext(ctx, s.q(`UPDATE invoices SET status = 'overdue', updated_at = ?
		WHERE status = 'pending' AND due_at IS NOT NULL AND due_at < ?`),
		s.timestamp(), asOf.UTC().Truncate(time.Second))
	if err != nil {
		return 0, fmt.Errorf("mark overdue: %w", err)
	}
	return res.RowsAffected()
}
