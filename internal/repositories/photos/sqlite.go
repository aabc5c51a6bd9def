package photos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pvaillant/fieldreport/internal/common"
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

func (r *SQLiteRepository) Save(ctx context.Context, p *models.Photo) error {
	query := `INSERT INTO photos (id, intervention_id, url_local, url_cloud, description, taken_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			intervention_id = excluded.intervention_id,
			url_local = excluded.url_local,
			url_cloud = excluded.url_cloud,
			description = excluded.description,
			taken_at = excluded.taken_at
	`
	_, err := r.db.ExecContext(ctx, query,
		p.Id, p.InterventionId, p.URLLocal, p.URLCloud, p.Description,
		p.TakenAt.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("failed to upsert photo: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Photo, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, intervention_id, url_local, url_cloud, description, taken_at FROM photos WHERE id = ?`, id)
	p, err := scanPhoto(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return p, nil
}

func (r *SQLiteRepository) ListByIntervention(ctx context.Context, interventionId string) ([]*models.Photo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, intervention_id, url_local, url_cloud, description, taken_at
		 FROM photos WHERE intervention_id = ? ORDER BY taken_at`, interventionId)
	if err != nil {
		return nil, fmt.Errorf("failed to select photos: %w", err)
	}
	defer rows.Close()

	var result []*models.Photo
	for rows.Next() {
		p, err := scanPhoto(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM photos`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count photos: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete photo: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteByIntervention(ctx context.Context, interventionId string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM photos WHERE intervention_id = ?`, interventionId)
	if err != nil {
		return fmt.Errorf("failed to delete photos for intervention: %w", err)
	}
	return nil
}

func scanPhoto(scan func(dest ...any) error) (*models.Photo, error) {
	var (
		p       models.Photo
		takenAt string
	)
	if err := scan(&p.Id, &p.InterventionId, &p.URLLocal, &p.URLCloud, &p.Description, &takenAt); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, takenAt)
	if err != nil {
		return nil, fmt.Errorf("bad taken_at: %w", err)
	}
	p.TakenAt = t
	return &p, nil
}
