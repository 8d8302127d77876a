// Package sql provides a database/sql-backed implementation of the
// dialect.Driver interface, along with instrumentation wrappers: a
// CountingDriver used as the measurement source for call-count regression
// checks, and a DebugDriver for statement logging.
package sql
