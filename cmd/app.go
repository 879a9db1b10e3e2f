package cmd

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/satheeshds/condo/db"
	"github.com/satheeshds/condo/receipts"
	"github.com/satheeshds/condo/store"
)

// issuerName is printed on every receipt.
const issuerName = "Condo Administration"

// app holds the pieces shared by the subcommands.
type app struct {
	conn     *sql.DB
	store    *store.Store
	receipts *receipts.Generator
}

// openApp connects to the configured database and applies pending migrations.
func openApp(ctx context.Context) (*app, error) {
	conn, err := db.Open(cfg.DBDriver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Migrate(ctx, conn, cfg.DBDriver); err != nil {
		conn.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	st := store.New(conn, cfg.DBDriver)
	gen := receipts.NewGenerator(cfg.ReceiptsDir, st, receipts.PDFRenderer{Issuer: issuerName})
	return &app{conn: conn, store: st, receipts: gen}, nil
}

func (a *app) Close() error {
	return a.conn.Close()
}
