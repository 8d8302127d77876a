package dialect_test

import (
	"context"
	"testing"

	"github.com/quillsql/quill/dialect"
	"github.com/quillsql/quill/dialect/sql"
	"github.com/quillsql/quill/registry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/quillsql/quill/dialect/mysql"
	_ "github.com/quillsql/quill/dialect/postgres"
	_ "github.com/quillsql/quill/dialect/sqlite"
)

func TestLookupDefaultVariant(t *testing.T) {
	t.Parallel()

	base, err := dialect.Lookup("sqlite.base")
	require.NoError(t, err)
	short, err := dialect.Lookup("sqlite")
	require.NoError(t, err)
	assert.Equal(t, base, short, `"family" must resolve identically to "family.base"`)
	assert.Equal(t, dialect.SQLite, short.Name())
}

func TestLookupVariant(t *testing.T) {
	t.Parallel()

	d, err := dialect.Lookup("postgres.pq")
	require.NoError(t, err)
	assert.Equal(t, dialect.Postgres, d.Name())
	assert.Equal(t, "postgres", d.DriverName())

	d, err = dialect.Lookup("mysql.mysqldriver")
	require.NoError(t, err)
	assert.Equal(t, dialect.MySQL, d.Name())
	assert.Equal(t, "mysql", d.DriverName())
}

func TestLookupUnknownFamily(t *testing.T) {
	t.Parallel()

	_, err := dialect.Lookup("nonexistent_family.x")
	require.Error(t, err)
	assert.True(t, registry.IsNotFound(err))
	assert.Contains(t, err.Error(), "no dialect provider")
}

func TestLookupUnknownVariant(t *testing.T) {
	t.Parallel()

	_, err := dialect.Lookup("mysql.bogus")
	require.Error(t, err)
	assert.True(t, registry.IsNotFound(err))
	assert.Contains(t, err.Error(), `no driver variant "bogus"`)
}

func TestLookupDeprecatedAlias(t *testing.T) {
	t.Parallel()

	d, err := dialect.Lookup("sqlite3")
	require.NoError(t, err)
	assert.Equal(t, dialect.SQLite, d.Name())

	d, err = dialect.Lookup("postgresql.pq")
	require.NoError(t, err)
	assert.Equal(t, "postgres", d.DriverName())
}

func TestProviders(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"mysql", "postgres", "sqlite"}, dialect.Providers())
}

func TestOpenSQLite(t *testing.T) {
	t.Parallel()

	drv, err := dialect.Open("sqlite", "file:dialects?mode=memory&cache=shared")
	require.NoError(t, err)
	defer drv.Close()
	assert.Equal(t, dialect.SQLite, drv.Dialect())

	ctx := context.Background()
	require.NoError(t, drv.Exec(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)", []any{}, nil))
	require.NoError(t, drv.Exec(ctx, "INSERT INTO users (name) VALUES (?)", []any{"nat"}, nil))

	rows := &sql.Rows{}
	require.NoError(t, drv.Query(ctx, "SELECT name FROM users", []any{}, rows))
	defer rows.Close()
	require.True(t, rows.Next())
	var name string
	require.NoError(t, rows.Scan(&name))
	assert.Equal(t, "nat", name)
}
