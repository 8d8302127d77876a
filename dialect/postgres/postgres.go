// Package postgres registers the PostgreSQL dialect provider, backed by the
// github.com/lib/pq driver. Importing the package makes the "postgres"
// family resolvable through the dialect registry:
//
//	import _ "github.com/quillsql/quill/dialect/postgres"
//
//	drv, err := dialect.Open("postgres", "postgres://localhost:5432/db")
//
// The legacy "postgresql" name resolves here as well, with a deprecation
// warning.
package postgres

import (
	_ "github.com/lib/pq"

	"github.com/quillsql/quill/dialect"
	"github.com/quillsql/quill/dialect/sql"
)

// Dialect is the PostgreSQL dialect plugin.
type Dialect struct{}

// Name returns the dialect family name.
func (Dialect) Name() string { return dialect.Postgres }

// DriverName returns the registered database/sql driver name.
func (Dialect) DriverName() string { return "postgres" }

// Open opens a PostgreSQL connection for the given DSN.
func (d Dialect) Open(dsn string) (dialect.Driver, error) {
	return sql.Open(d.DriverName(), dsn)
}

func init() {
	d := Dialect{}
	dialect.RegisterProvider(dialect.Postgres, map[string]dialect.Dialect{
		"base": d,
		"pq":   d,
	})
}
