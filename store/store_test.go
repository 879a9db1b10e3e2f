package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/satheeshds/condo/db"
	"github.com/satheeshds/condo/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	conn, err := db.Open(db.SQLite, filepath.Join(t.TempDir(), "billing.db"))
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, db.Migrate(context.Background(), conn, db.SQLite))

	return New(conn, db.SQLite)
}

func seedResident(t *testing.T, s *Store, email, unit string) models.Account {
	t.Helper()

	in := models.RegisterInput{
		FirstName:  "Ana",
		LastName:   "Quispe",
		Email:      email,
		Password:   "secret",
		Role:       "Residente",
		UnitNumber: unit,
	}
	require.Empty(t, in.Validate())
	acct, err := s.CreateAccount(context.Background(), in, "hash")
	require.NoError(t, err)
	return acct
}

func seedInvoice(t *testing.T, s *Store, unit, amount string, issued time.Time) models.Invoice {
	t.Helper()

	m, err := models.ParseMoney(amount)
	require.NoError(t, err)
	due := issued.AddDate(0, 0, 30)
	inv, err := s.IssueInvoice(context.Background(), models.InvoiceInput{
		UnitNumber: unit,
		Concept:    "Maintenance fee",
		Amount:     m,
		IssuedAt:   &issued,
		DueAt:      &due,
	})
	require.NoError(t, err)
	return inv
}

func TestRebindForPostgres(t *testing.T) {
	got := db.Rebind(db.Postgres, "SELECT 1 FROM t WHERE a = ? AND b IN (?, ?)")
	require.Equal(t, "SELECT 1 FROM t WHERE a = $1 AND b IN ($2, $3)", got)
	require.Equal(t, "a = ?", db.Rebind(db.SQLite, "a = ?"))
}

func TestDateOf(t *testing.T) {
	require.Equal(t, "date(i.issued_at)", db.DateOf(db.SQLite, "i.issued_at"))
	require.Equal(t, "(i.issued_at AT TIME ZONE 'UTC')::date", db.DateOf(db.Postgres, "i.issued_at"))
}
