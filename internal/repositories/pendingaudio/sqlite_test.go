package pendingaudio

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvaillant/fieldreport/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE pending_audio (
  id TEXT PRIMARY KEY,
  intervention_id TEXT NOT NULL,
  audio_blob BLOB NOT NULL,
  mime_type TEXT NOT NULL DEFAULT 'audio/webm',
  created_at TEXT NOT NULL
);
`)
	require.NoError(t, err)

	return db
}

func TestAddAndList_OldestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	newer := &models.PendingAudio{
		Id: "new", InterventionId: "iv1", AudioBlob: []byte{0x02},
		MimeType: "audio/webm", CreatedAt: base.Add(time.Minute),
	}
	older := &models.PendingAudio{
		Id: "old", InterventionId: "iv1", AudioBlob: []byte{0x01},
		MimeType: "audio/mp4", CreatedAt: base,
	}
	require.NoError(t, r.Add(ctx, newer))
	require.NoError(t, r.Add(ctx, older))

	got, err := r.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "old", got[0].Id)
	assert.Equal(t, []byte{0x01}, got[0].AudioBlob)
	assert.Equal(t, "audio/mp4", got[0].MimeType)
	assert.True(t, got[0].CreatedAt.Equal(base))
	assert.Equal(t, "new", got[1].Id)
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	base := time.Date(2026, 2, 3, 9, 0, 0, 0, time.UTC)
	for _, a := range []*models.PendingAudio{
		{Id: "a1", InterventionId: "iv1", AudioBlob: []byte{1}, CreatedAt: base},
		{Id: "a2", InterventionId: "iv1", AudioBlob: []byte{2}, CreatedAt: base},
		{Id: "a3", InterventionId: "iv2", AudioBlob: []byte{3}, CreatedAt: base},
	} {
		require.NoError(t, r.Add(ctx, a))
	}

	require.NoError(t, r.DeleteByID(ctx, "a3"))
	require.NoError(t, r.DeleteByIntervention(ctx, "iv1"))

	n, err := r.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}
