// Package dialect provides the database dialect abstraction for Quill.
//
// A dialect identifies one database backend. Dialects are plugins: the core
// packages never import a specific backend, they resolve it by name through
// the Dialects registry at runtime.
//
// # Dialect Names
//
// Each dialect family is identified by a constant string:
//
//	dialect.Postgres = "postgres"
//	dialect.MySQL    = "mysql"
//	dialect.SQLite   = "sqlite"
//
// A name may select a specific driver variant using the "family.variant"
// form; a bare family name implies the "base" variant:
//
//	dialect.Open("postgres", dsn)    // same as "postgres.base"
//	dialect.Open("postgres.pq", dsn) // explicit lib/pq variant
//
// Dialect packages register themselves on import:
//
//	import _ "github.com/quillsql/quill/dialect/postgres"
//
// # Driver Interface
//
// The package defines the Driver interface for database operations:
//
//	type Driver interface {
//	    Exec(ctx context.Context, query string, args, v any) error
//	    Query(ctx context.Context, query string, args, v any) error
//	    Tx(ctx context.Context) (Tx, error)
//	    Close() error
//	    Dialect() string
//	}
//
// The Tx interface extends ExecQuerier with Commit and Rollback.
//
// # Sub-packages
//
//   - dialect/sql: database/sql-backed Driver implementation and
//     instrumentation wrappers
//   - dialect/mysql, dialect/postgres, dialect/sqlite: backend providers
package dialect
