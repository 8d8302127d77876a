package profile_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/quillsql/quill/dialect"
	"github.com/quillsql/quill/dialect/sql"
	"github.com/quillsql/quill/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "github.com/quillsql/quill/dialect/sqlite"
)

// Records a baseline with a real driver, then verifies the same workload
// checks clean against it on a second run.
func TestCallCountAgainstDriver(t *testing.T) {
	t.Parallel()

	d, err := dialect.Lookup(dialect.SQLite)
	require.NoError(t, err)
	drv, err := d.Open("file:profiling?mode=memory&cache=shared")
	require.NoError(t, err)
	defer drv.Close()

	cd := sql.NewCountingDriver(drv)
	ctx := context.Background()
	require.NoError(t, cd.Exec(ctx, "CREATE TABLE users (id INTEGER PRIMARY KEY, name TEXT)", []any{}, nil))

	workload := func() error {
		if err := cd.Exec(ctx, "INSERT INTO users (name) VALUES (?)", []any{"nat"}, nil); err != nil {
			return err
		}
		rows := &sql.Rows{}
		if err := cd.Query(ctx, "SELECT COUNT(*) FROM users", []any{}, rows); err != nil {
			return err
		}
		return rows.Close()
	}

	fname := filepath.Join(t.TempDir(), "profiles.txt")
	env := profile.DefaultEnv(d.Name(), "modernc")

	// First run records the baseline.
	stats, err := profile.Open(fname, env, profile.WithWrite(true))
	require.NoError(t, err)
	require.NoError(t, stats.CountFunctions(t.Name(), cd, workload))

	// Second run compares against it.
	stats, err = profile.Open(fname, env)
	require.NoError(t, err)
	require.True(t, stats.HasStats(t.Name()))
	assert.NoError(t, stats.CountFunctions(t.Name(), cd, workload))
}
