package interventions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
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

const columns = `id, client_name, sequence_number, date, status, observations, conclusion, created_at, updated_at, synced, user_id, feed_items`

func (r *SQLiteRepository) Save(ctx context.Context, i *models.Intervention) error {
	feed, err := json.Marshal(i.FeedItems)
	if err != nil {
		return fmt.Errorf("failed to encode feed items: %w", err)
	}
	if i.FeedItems == nil {
		feed = []byte("[]")
	}

	var seq sql.NullInt64
	if i.SequenceNumber != nil {
		seq = sql.NullInt64{Int64: int64(*i.SequenceNumber), Valid: true}
	}

	query := `INSERT INTO interventions (` + columns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			client_name = excluded.client_name,
			sequence_number = excluded.sequence_number,
			date = excluded.date,
			status = excluded.status,
			observations = excluded.observations,
			conclusion = excluded.conclusion,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			synced = excluded.synced,
			user_id = excluded.user_id,
			feed_items = excluded.feed_items
	`
	_, err = r.db.ExecContext(ctx, query,
		i.Id, i.ClientName, seq, i.Date, i.Status, i.Observations, i.Conclusion,
		formatTime(i.CreatedAt), formatTime(i.UpdatedAt), boolToInt(i.Synced), i.UserId, string(feed))
	if err != nil {
		return fmt.Errorf("failed to upsert intervention: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Intervention, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+columns+` FROM interventions WHERE id = ?`, id)
	i, err := scanIntervention(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get intervention: %w", err)
	}
	return i, nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM interventions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count interventions: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) ListUnsynced(ctx context.Context) ([]*models.Intervention, error) {
	return r.list(ctx, `SELECT `+columns+` FROM interventions WHERE synced = 0`)
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE interventions SET synced = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to mark intervention synced: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListByClientName(ctx context.Context, clientName string) ([]*models.Intervention, error) {
	return r.list(ctx, `SELECT `+columns+` FROM interventions WHERE client_name = ?`, strings.TrimSpace(clientName))
}

func (r *SQLiteRepository) NextSequenceNumber(ctx context.Context, clientName string) (int, error) {
	clientName = strings.TrimSpace(clientName)
	if clientName == "" {
		return 1, nil
	}

	// Records predating sequence numbering count as sequence 1.
	var max sql.NullInt64
	err := r.db.QueryRowContext(ctx,
		`SELECT MAX(COALESCE(sequence_number, 1)) FROM interventions WHERE client_name = ?`,
		clientName).Scan(&max)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next sequence number: %w", err)
	}
	if !max.Valid {
		return 1, nil
	}
	return int(max.Int64) + 1, nil
}

func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM interventions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete intervention: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) list(ctx context.Context, query string, args ...any) ([]*models.Intervention, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select interventions: %w", err)
	}
	defer rows.Close()

	var result []*models.Intervention
	for rows.Next() {
		i, err := scanIntervention(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func scanIntervention(scan func(dest ...any) error) (*models.Intervention, error) {
	var (
		i         models.Intervention
		seq       sql.NullInt64
		createdAt string
		updatedAt string
		synced    int
		feed      string
	)
	err := scan(&i.Id, &i.ClientName, &seq, &i.Date, &i.Status, &i.Observations,
		&i.Conclusion, &createdAt, &updatedAt, &synced, &i.UserId, &feed)
	if err != nil {
		return nil, err
	}
	if seq.Valid {
		n := int(seq.Int64)
		i.SequenceNumber = &n
	}
	if i.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("bad created_at: %w", err)
	}
	if i.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, fmt.Errorf("bad updated_at: %w", err)
	}
	i.Synced = synced != 0
	if feed != "" {
		if err := json.Unmarshal([]byte(feed), &i.FeedItems); err != nil {
			return nil, fmt.Errorf("bad feed_items: %w", err)
		}
	}
	return &i, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
