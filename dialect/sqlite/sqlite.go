// Package sqlite registers the SQLite dialect provider, backed by the
// cgo-free modernc.org/sqlite driver. Importing the package makes the
// "sqlite" family resolvable through the dialect registry:
//
//	import _ "github.com/quillsql/quill/dialect/sqlite"
//
//	drv, err := dialect.Open("sqlite", "file:test.db?cache=shared&_pragma=foreign_keys(1)")
//
// The legacy "sqlite3" name resolves here as well, with a deprecation
// warning.
package sqlite

import (
	_ "modernc.org/sqlite"

	"github.com/quillsql/quill/dialect"
	"github.com/quillsql/quill/dialect/sql"
)

// Dialect is the SQLite dialect plugin.
type Dialect struct{}

// Name returns the dialect family name.
func (Dialect) Name() string { return dialect.SQLite }

// DriverName returns the registered database/sql driver name.
func (Dialect) DriverName() string { return "sqlite" }

// Open opens a SQLite connection for the given DSN.
func (d Dialect) Open(dsn string) (dialect.Driver, error) {
	return sql.Open(d.DriverName(), dsn)
}

func init() {
	d := Dialect{}
	dialect.RegisterProvider(dialect.SQLite, map[string]dialect.Dialect{
		"base":    d,
		"modernc": d,
	})
}
