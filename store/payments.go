package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/satheeshds/condo/models"
)

// Application is one request to settle an invoice.
type Application struct {
	InvoiceID   int64
	Amount      models.Money
	Method      models.PaymentMethod
	ProviderRef string
}

// Applied reports what ApplyPayment did. PaymentID is only set when this call
// wrote the ledger row.
type Applied struct {
	PaymentID int64
	Applied   bool
}

const paymentSelectQuery = `SELECT p.id, p.invoice_id, p.paid_at, p.amount, p.method, p.state,
		p.provider_ref, p.receipt_path, p.created_at
		FROM payments p`

func scanPayment(row scanner) (models.Payment, error) {
	var p models.Payment
	err := row.Scan(&p.ID, &p.InvoiceID, &p.PaidAt, &p.Amount, &p.Method, &p.State,
		&p.ProviderRef, &p.ReceiptPath, &p.CreatedAt)
	return p, err
}

// ApplyPayment writes a confirmed payment for an invoice and marks the invoice
// paid, both in one transaction.
//
// The payment insert is conditional on the partial unique index over
// confirmed payments per invoice. When another caller already holds that row
// the insert is a no-op and ApplyPayment returns Applied=false without error;
// the same happens when the invoice is already paid. If the invoice update
// fails after the insert, both are rolled back.
func (s *Store) ApplyPayment(ctx context.Context, a Application) (Applied, error) {
	var out Applied
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var (
			amount models.Money
			status models.InvoiceStatus
		)
		err := tx.QueryRowContext(ctx, s.q(`SELECT amount, status FROM invoices WHERE id = ?`), a.InvoiceID).
			Scan(&amount, &status)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("invoice %d: %w", a.InvoiceID, ErrNotFound)
		}
		if err != nil {
			return fmt.Errorf("load invoice: %w", err)
		}
		if status == models.InvoicePaid {
			return nil
		}
		if amount != a.Amount {
			return fmt.Errorf("invoice %d is %s, got %s: %w", a.InvoiceID, amount, a.Amount, ErrAmountMismatch)
		}

		var ref *string
		if a.ProviderRef != "" {
			ref = &a.ProviderRef
		}
		var paymentID int64
		err = tx.QueryRowContext(ctx, s.q(`INSERT INTO payments (invoice_id, paid_at, amount, method, state, provider_ref)
			VALUES (?, ?, ?, ?, 'confirmed', ?)
			ON CONFLICT DO NOTHING
			RETURNING id`),
			a.InvoiceID, s.timestamp(), a.Amount, a.Method, ref).Scan(&paymentID)
		if errors.Is(err, sql.ErrNoRows) {
			// Someone else confirmed this invoice first.
			return nil
		}
		if err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		res, err := tx.ExecContext(ctx, s.q(`UPDATE invoices SET status = 'paid', updated_at = ?
			WHERE id = ? AND status <> 'paid'`), s.timestamp(), a.InvoiceID)
		if err != nil {
			return fmt.Errorf("mark invoice paid: %w", err)
		}
		if n, err := res.RowsAffected(); err != nil {
			return fmt.Errorf("mark invoice paid: %w", err)
		} else if n != 1 {
			return fmt.Errorf("mark invoice paid: invoice %d changed concurrently", a.InvoiceID)
		}

		out = Applied{PaymentID: paymentID, Applied: true}
		return nil
	})
	if err != nil {
		return Applied{}, err
	}
	return out, nil
}

// GetPayment returns one ledger entry.
func (s *Store) GetPayment(ctx context.Context, id int64) (models.Payment, error) {
	p, err := scanPayment(s.conn.QueryRowContext(ctx, s.q(paymentSelectQuery+` WHERE p.id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// OwnedPayment returns a payment only when its invoice belongs to the
// account's current unit.
func (s *Store) OwnedPayment(ctx context.Context, accountID, paymentID int64) (models.Payment, error) {
	p, err := scanPayment(s.conn.QueryRowContext(ctx, s.q(paymentSelectQuery+`
		JOIN invoices i ON i.id = p.invoice_id
		JOIN residents r ON r.unit_id = i.unit_id AND r.ended_at IS NULL
		WHERE p.id = ? AND r.account_id = ?`), paymentID, accountID))
	if errors.Is(err, sql.ErrNoRows) {
		return p, ErrNotFound
	}
	if err != nil {
		return p, fmt.Errorf("owned payment: %w", err)
	}
	return p, nil
}

// InvoicePayments lists every ledger row of an invoice.
func (s *Store) InvoicePayments(ctx context.Context, invoiceID int64) ([]models.Payment, error) {
	rows, err := s.conn.QueryContext(ctx, s.q(paymentSelectQuery+` WHERE p.invoice_id = ? ORDER BY p.id`), invoiceID)
	if err != nil {
		return nil, fmt.Errorf("query payments: %w", err)
	}
	defer rows.Close()

	payments := []models.Payment{}
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// ReceiptData joins a payment with its invoice, unit and current resident.
func (s *Store) ReceiptData(ctx context.Context, paymentID int64) (models.ReceiptData, error) {
	var d models.ReceiptData
	err := s.conn.QueryRowContext(ctx, s.q(`SELECT p.id, p.paid_at, p.method, p.amount,
			i.id, i.concept, i.issued_at, i.due_at,
			u.number,
			COALESCE(a.username, ''), COALESCE(a.email, ''),
			TRIM(COALESCE(r.first_name, '') || ' ' || COALESCE(r.last_name, ''))
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		JOIN units u ON u.id = i.unit_id
		LEFT JOIN residents r ON r.unit_id = i.unit_id AND r.ended_at IS NULL
		LEFT JOIN accounts a ON a.id = r.account_id
		WHERE p.id = ?`), paymentID).
		Scan(&d.PaymentID, &d.PaidAt, &d.Method, &d.Amount,
			&d.InvoiceID, &d.Concept, &d.IssuedAt, &d.DueAt,
			&d.UnitNumber,
			&d.PayerUsername, &d.PayerEmail,
			&d.PayerName)
	if errors.Is(err, sql.ErrNoRows) {
		return d, ErrNotFound
	}
	if err != nil {
		return d, fmt.Errorf("receipt data: %w", err)
	}
	return d, nil
}

// SetReceiptPath records where a payment's receipt document lives.
func (s *Store) SetReceiptPath(ctx context.Context, paymentID int64, path string) error {
	res, err := s.conn.ExecContext(ctx, s.q(`UPDATE payments SET receipt_path = ? WHERE id = ?`), path, paymentID)
	if err != nil {
		return fmt.Errorf("set receipt path: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
