package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported values for DB_DRIVER.
const (
	SQLite   = "sqlite"
	Postgres = "pgx"
)

// Open creates and returns a database connection for the given driver.
//
// For SQLite the dsn is a file path; the parent directory is created and the
// connection is opened with WAL mode, foreign keys, a busy timeout and
// immediate transactions so that concurrent writers queue instead of failing.
// For Postgres the dsn is a connection URL handed to pgx as-is.
func Open(driver, dsn string) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)
	switch driver {
	case "", SQLite:
		if dsn == "" {
			dsn = "./data/billing.db"
		}
		if err := os.MkdirAll(filepath.Dir(dsn), 0755); err != nil {
			return nil, fmt.Errorf("creating db directory: %w", err)
		}
		db, err = sql.Open(SQLite, dsn+"?_pragma=journal_mode(WAL)&_pragma=foreign_keys(ON)&_pragma=busy_timeout(10000)&_txlock=immediate")
	case Postgres:
		if dsn == "" {
			return nil, fmt.Errorf("DATABASE_URL is required for driver %q", driver)
		}
		db, err = sql.Open(Postgres, dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	slog.Info("database connected", "driver", driver)
	return db, nil
}

// Rebind rewrites ? placeholders into the $n form Postgres expects.
// Queries in this code base never contain a literal question mark.
func Rebind(driver, query string) string {
	if driver != Postgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// DateOf returns an SQL expression for the UTC calendar date of a timestamp
// column, comparable and sortable on both drivers.
func DateOf(driver, column string) string {
	if driver == Postgres {
		return "(" + column + " AT TIME ZONE 'UTC')::date"
	}
	return "date(" + column + ")"
}
