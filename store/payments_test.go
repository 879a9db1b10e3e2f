package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/satheeshds/condo/db"
	"github.com/satheeshds/condo/models"
)

func TestApplyPayment_SecondCallIsNoop(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedResident(t, s, "ana@example.com", "P1D1")
	inv := seedInvoice(t, s, "P1D1", "120.00", time.Now())

	app := Application{InvoiceID: inv.ID, Amount: inv.Amount, Method: models.MethodProvider, ProviderRef: "cs_test_1"}
	first, err := s.ApplyPayment(ctx, app)
	require.NoError(t, err)
	assert.True(t, first.Applied)
	assert.NotZero(t, first.PaymentID)

	second, err := s.ApplyPayment(ctx, app)
	require.NoError(t, err)
	assert.False(t, second.Applied)
	assert.Zero(t, second.PaymentID)

	payments, err := s.InvoicePayments(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, models.PaymentConfirmed, payments[0].State)
	assert.Equal(t, models.MethodProvider, payments[0].Method)
	require.NotNil(t, payments[0].ProviderRef)
	assert.Equal(t, "cs_test_1", *payments[0].ProviderRef)

	got, err := s.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePaid, got.Status)
	assert.Equal(t, inv.Amount, got.Amount)
}

func TestApplyPayment_ConcurrentCallersWriteOnce(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedResident(t, s, "ana@example.com", "P1D1")
	inv := seedInvoice(t, s, "P1D1", "120.00", time.Now())

	const callers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		applied int
		errs    []error
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			method := models.MethodProvider
			if i%2 == 0 {
				method = models.MethodSimulated
			}
			res, err := s.ApplyPayment(ctx, Application{InvoiceID: inv.ID, Amount: inv.Amount, Method: method})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if res.Applied {
				applied++
			}
		}(i)
	}
	wg.Wait()

	require.Empty(t, errs)
	assert.Equal(t, 1, applied)

	payments, err := s.InvoicePayments(ctx, inv.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)
}

func TestApplyPayment_PaidInvoiceNeverReinserted(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedResident(t, s, "ana@example.com", "P1D1")
	inv := seedInvoice(t, s, "P1D1", "10.00", time.Now())

	_, err := s.conn.ExecContext(ctx, `UPDATE invoices SET status = 'paid' WHERE id = ?`, inv.ID)
	require.NoError(t, err)

	res, err := s.ApplyPayment(ctx, Application{InvoiceID: inv.ID, Amount: inv.Amount, Method: models.MethodSimulated})
	require.NoError(t, err)
	assert.False(t, res.Applied)

	payments, err := s.InvoicePayments(ctx, inv.ID)
	require.NoError(t, err)
	assert.Empty(t, payments)
}

func TestApplyPayment_Rejects(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedResident(t, s, "ana@example.com", "P1D1")
	inv := seedInvoice(t, s, "P1D1", "10.00", time.Now())

	_, err := s.ApplyPayment(ctx, Application{InvoiceID: 4242, Amount: 1000, Method: models.MethodSimulated})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.ApplyPayment(ctx, Application{InvoiceID: inv.ID, Amount: 999, Method: models.MethodSimulated})
	assert.ErrorIs(t, err, ErrAmountMismatch)

	got, err := s.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, models.InvoicePending, got.Status)
}

func TestApplyPayment_RollsBackWhenInvoiceUpdateFails(t *testing.T) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer conn.Close()
	s := New(conn, db.SQLite)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT amount, status FROM invoices`).
		WithArgs(int64(501)).
		WillReturnRows(sqlmock.NewRows([]string{"amount", "status"}).AddRow(int64(12000), "pending"))
	mock.ExpectQuery(`INSERT INTO payments`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))
	mock.ExpectExec(`UPDATE invoices SET status = 'paid'`).
		WillReturnError(errors.New("disk I/O error"))
	mock.ExpectRollback()

	res, err := s.ApplyPayment(context.Background(), Application{InvoiceID: 501, Amount: 12000, Method: models.MethodProvider})
	require.Error(t, err)
	assert.False(t, res.Applied)
	assert.Contains(t, err.Error(), "mark invoice paid")

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReceiptData_JoinsPayer(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	seedResident(t, s, "ana@example.com", "P1D1")
	inv := seedInvoice(t, s, "P1D1", "45.50", time.Now())

	res, err := s.ApplyPayment(ctx, Application{InvoiceID: inv.ID, Amount: inv.Amount, Method: models.MethodSimulated})
	require.NoError(t, err)

	d, err := s.ReceiptData(ctx, res.PaymentID)
	require.NoError(t, err)
	assert.Equal(t, models.Money(4550), d.Amount)
	assert.Equal(t, "P1D1", d.UnitNumber)
	assert.Equal(t, "ana@example.com", d.PayerEmail)
	assert.Equal(t, "Ana Quispe", d.PayerName)

	_, err = s.ReceiptData(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SetReceiptPath(ctx, res.PaymentID, "receipts/receipt_1.pdf"))
	p, err := s.GetPayment(ctx, res.PaymentID)
	require.NoError(t, err)
	require.NotNil(t, p.ReceiptPath)
	assert.Equal(t, "receipts/receipt_1.pdf", *p.ReceiptPath)
}
