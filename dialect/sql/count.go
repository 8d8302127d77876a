package sql

import (
	"context"
	"sync/atomic"

	"github.com/quillsql/quill/dialect"
)

// CountingDriver wraps a Driver and counts every database operation going
// through it. It is the measurement source for call-count regression checks:
// Exec, Query, Tx, Commit and Rollback each count as one call.
type CountingDriver struct {
	dialect.Driver
	calls atomic.Int64
}

// NewCountingDriver wraps a Driver with call counting.
//
// Example:
//
//	drv, _ := sql.Open("sqlite", dsn)
//	cd := sql.NewCountingDriver(drv)
//	// ... run the measured code path ...
//	n := cd.Calls()
func NewCountingDriver(drv dialect.Driver) *CountingDriver {
	return &CountingDriver{Driver: drv}
}

// Calls returns the number of operations recorded since construction or the
// last Reset.
func (d *CountingDriver) Calls() int64 {
	return d.calls.Load()
}

// Reset sets the call counter back to zero.
func (d *CountingDriver) Reset() {
	d.calls.Store(0)
}

// Exec executes a statement and counts it.
func (d *CountingDriver) Exec(ctx context.Context, query string, args, v any) error {
	d.calls.Add(1)
	return d.Driver.Exec(ctx, query, args, v)
}

// Query executes a query and counts it.
func (d *CountingDriver) Query(ctx context.Context, query string, args, v any) error {
	d.calls.Add(1)
	return d.Driver.Query(ctx, query, args, v)
}

// Tx starts a counted transaction. Starting the transaction itself counts
// as one call.
func (d *CountingDriver) Tx(ctx context.Context) (dialect.Tx, error) {
	d.calls.Add(1)
	tx, err := d.Driver.Tx(ctx)
	if err != nil {
		return nil, err
	}
	return &CountingTx{Tx: tx, driver: d}, nil
}

// CountingTx wraps a transaction with call counting.
type CountingTx struct {
	dialect.Tx
	driver *CountingDriver
}

// Exec executes a statement within the transaction and counts it.
func (tx *CountingTx) Exec(ctx context.Context, query string, args, v any) error {
	tx.driver.calls.Add(1)
	return tx.Tx.Exec(ctx, query, args, v)
}

// Query executes a query within the transaction and counts it.
func (tx *CountingTx) Query(ctx context.Context, query string, args, v any) error {
	tx.driver.calls.Add(1)
	return tx.Tx.Query(ctx, query, args, v)
}

// Commit commits the transaction and counts it.
func (tx *CountingTx) Commit() error {
	tx.driver.calls.Add(1)
	return tx.Tx.Commit()
}

// Rollback rolls back the transaction and counts it.
func (tx *CountingTx) Rollback() error {
	tx.driver.calls.Add(1)
	return tx.Tx.Rollback()
}

// Ensure interfaces are implemented.
var (
	_ dialect.Driver = (*CountingDriver)(nil)
	_ dialect.Tx     = (*CountingTx)(nil)
)
