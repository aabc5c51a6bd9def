package pendingaudio

import (
	"context"
	"fmt"
	"time"

	"github.com/pvaillant/fieldreport/internal/dbx"
	"github.com/pvaillant/fieldreport/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Add(ctx context.Context, a *models.PendingAudio) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO pending_audio (id, intervention_id, audio_blob, mime_type, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		a.Id, a.InterventionId, a.AudioBlob, a.MimeType, a.CreatedAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to insert pending audio: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context) ([]*models.PendingAudio, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, intervention_id, audio_blob, mime_type, created_at
		 FROM pending_audio ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to select pending audio: %w", err)
	}
	defer rows.Close()

	var result []*models.PendingAudio
	for rows.Next() {
		var (
			a         models.PendingAudio
			createdAt string
		)
		if err := rows.Scan(&a.Id, &a.InterventionId, &a.AudioBlob, &a.MimeType, &createdAt); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, createdAt)
		if err != nil {
			return nil, fmt.Errorf("bad created_at: %w", err)
		}
		a.CreatedAt = t
		result = append(result, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM pending_audio`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count pending audio: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_audio WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete pending audio: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByIntervention(ctx context.Context, interventionId string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM pending_audio WHERE intervention_id = ?`, interventionId)
	if err != nil {
		return fmt.Errorf("failed to delete pending audio for intervention: %w", err)
	}
	return nil
}
