// Package mysql registers the MySQL dialect provider, backed by the
// github.com/go-sql-driver/mysql driver. Importing the package makes the
// "mysql" family resolvable through the dialect registry:
//
//	import _ "github.com/quillsql/quill/dialect/mysql"
//
//	drv, err := dialect.Open("mysql", "user:pass@tcp(localhost:3306)/db")
package mysql

import (
	_ "github.com/go-sql-driver/mysql"

	"github.com/quillsql/quill/dialect"
	"github.com/quillsql/quill/dialect/sql"
)

// Dialect is the MySQL dialect plugin.
type Dialect struct{}

// Name returns the dialect family name.
func (Dialect) Name() string { return dialect.MySQL }

// DriverName returns the registered database/sql driver name.
func (Dialect) DriverName() string { return "mysql" }

// Open opens a MySQL connection for the given DSN.
func (d Dialect) Open(dsn string) (dialect.Driver, error) {
	return sql.Open(d.DriverName(), dsn)
}

func init() {
	d := Dialect{}
	dialect.RegisterProvider(dialect.MySQL, map[string]dialect.Dialect{
		"base":        d,
		"mysqldriver": d,
	})
}
