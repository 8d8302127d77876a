package sql

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/quillsql/quill/dialect"
)

// DebugDriver wraps a Driver with debug logging.
type DebugDriver struct {
	dialect.Driver
	log func(context.Context, ...any)
}

// DebugOption configures the DebugDriver.
type DebugOption func(*DebugDriver)

// DebugWithLog sets a custom log function. The default logs through slog.
func DebugWithLog(logFunc func(context.Context, ...any)) DebugOption {
	return func(d *DebugDriver) {
		d.log = logFunc
	}
}

// NewDebugDriver wraps a Driver with debug logging of every statement.
func NewDebugDriver(drv dialect.Driver, opts ...DebugOption) *DebugDriver {
	d := &DebugDriver{
		Driver: drv,
		log: func(_ context.Context, v ...any) {
			slog.Info(fmt.Sprint(v...))
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Query executes a query and logs it.
func (d *DebugDriver) Query(ctx context.Context, query string, args, v any) error {
	d.log(ctx, fmt.Sprintf("query: %s args: %v", query, args))
	return d.Driver.Query(ctx, query, args, v)
}

// Exec executes a statement and logs it.
func (d *DebugDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.log(ctx, fmt.Sprintf("exec: %s args: %v", query, args))
	return d.Driver.Exec(ctx, query, args, v)
}

// Tx starts a transaction with debug logging.
func (d *DebugDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	d.log(ctx, "begin transaction")
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &DebugTx{Tx: tx, log: d.log}, nil
}

// DebugTx wraps a transaction with debug logging.
type DebugTx struct {
	dialect.Tx
	log func(context.Context, ...any)
}

// Query executes a query within the transaction and logs it.
func (tx *DebugTx) Query(ctx context.Context, query string, args, v any) error {
	tx.log(ctx, fmt.Sprintf("tx query: %s args: %v", query, args))
	return tx.Tx.Query(ctx, query, args, v)
}

// Exec executes a statement within the transaction and logs it.
func (tx *DebugTx) Exec(ctx context.Context, query string, args, v any) error {
	tx.log(ctx, fmt.Sprintf("tx exec: %s args: %v", query, args))
	return tx.Tx.Exec(ctx, query, args, v)
}

// Commit commits the transaction and logs it.
func (tx *DebugTx) Commit() error {
	tx.log(context.Background(), "commit transaction")
	return tx.Tx.Commit()
}

// Rollback rolls back the transaction and logs it.
func (tx *DebugTx) Rollback() error {
	tx.log(context.Background(), "rollback transaction")
	return tx.Tx.Rollback()
}

// Ensure interfaces are implemented.
var (
	_ dialect.Driver = (*DebugDriver)(nil)
	_ dialect.Tx     = (*DebugTx)(nil)
)
