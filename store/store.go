// Package store persists units, accounts, invoices and the payment ledger.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/satheeshds/condo/db"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrAmountMismatch = errors.New("amount does not match invoice")
	ErrEmailTaken     = errors.New("email already registered")
	ErrUnitOccupied   = errors.New("unit already has a resident")
)

// Store is the SQL-backed persistence layer shared by all services.
type Store struct {
	conn   *sql.DB
	driver string
	now    func() time.Time
}

// New returns a Store for a connection opened with db.Open.
func New(conn *sql.DB, driver string) *Store {
	return &Store{conn: conn, driver: driver, now: time.Now}
}

// SetClock replaces the time source used for paid_at and updated_at stamps.
func (s *Store) SetClock(now func() time.Time) { s.now = now }

func (s *Store) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Second)
}

func (s *Store) q(query string) string {
	return db.Rebind(s.driver, query)
}

// Ping checks the underlying connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.conn.PingContext(ctx)
}

// withTx runs fn inside one transaction. Any error returned by fn, or a panic,
// rolls everything back.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

type scanner interface{ Scan(...any) error }

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
