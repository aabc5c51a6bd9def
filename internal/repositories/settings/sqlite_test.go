package settings

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE settings (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestGetSetDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	// missing keys read as empty, not as an error
	v, err := r.Get(ctx, KeySyncInterval)
	require.NoError(t, err)
	assert.Empty(t, v)

	require.NoError(t, r.Set(ctx, KeySyncInterval, "300000"))
	v, err = r.Get(ctx, KeySyncInterval)
	require.NoError(t, err)
	assert.Equal(t, "300000", v)

	// upsert overwrites
	require.NoError(t, r.Set(ctx, KeySyncInterval, "60000"))
	v, err = r.Get(ctx, KeySyncInterval)
	require.NoError(t, err)
	assert.Equal(t, "60000", v)

	require.NoError(t, r.Delete(ctx, KeySyncInterval))
	v, err = r.Get(ctx, KeySyncInterval)
	require.NoError(t, err)
	assert.Empty(t, v)

	// deleting a missing key is a no-op
	require.NoError(t, r.Delete(ctx, "never-set"))
}
