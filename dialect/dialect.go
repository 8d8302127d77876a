package dialect

import (
	"context"
)

// Dialect names.
const (
	MySQL    = "mysql"    // MySQL / MariaDB
	Postgres = "postgres" // PostgreSQL
	SQLite   = "sqlite"   // SQLite
)

// ExecQuerier wraps the two standard database operations.
type ExecQuerier interface {
	// Exec executes a statement that does not return rows. args is expected
	// to be a []any, and v an optional *sql.Result.
	Exec(ctx context.Context, query string, args, v any) error
	// Query executes a statement that returns rows. args is expected to be
	// a []any, and v a *sql.Rows.
	Query(ctx context.Context, query string, args, v any) error
}

// Driver is the interface that wraps all database operations.
type Driver interface {
	ExecQuerier
	// Tx starts and returns a new transaction.
	Tx(context.Context) (Tx, error)
	// Close closes the underlying connection.
	Close() error
	// Dialect returns the dialect name of the driver.
	Dialect() string
}

// Tx wraps the Exec and Query operations in a transaction.
type Tx interface {
	ExecQuerier
	Commit() error
	Rollback() error
}

type nopTx struct {
	Driver
}

func (nopTx) Commit() error   { return nil }
func (nopTx) Rollback() error { return nil }

// NopTx returns a Tx with a no-op Commit / Rollback operations.
func NopTx(d Driver) Tx {
	return nopTx{d}
}
