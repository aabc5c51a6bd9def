// Package interventions persists intervention records in the local store.
package interventions

import (
	"context"

	"github.com/pvaillant/fieldreport/internal/models"
)

// Repository is the single-writer table API for interventions. Every write
// is an independent upsert keyed by id.
type Repository interface {
	// Save upserts the record, including its feed items and the synced flag
	// as given. It never touches updated_at on its own.
	Save(ctx context.Context, i *models.Intervention) error

	// GetByID returns the record or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Intervention, error)

	// Count returns the number of stored interventions.
	Count(ctx context.Context) (int, error)

	// ListUnsynced returns all records with synced = false.
	ListUnsynced(ctx context.Context) ([]*models.Intervention, error)

	// MarkSynced flips synced to true without modifying updated_at, so a
	// push confirmation does not look like a fresh local edit.
	MarkSynced(ctx context.Context, id string) error

	// ListByClientName returns all records for one client.
	ListByClientName(ctx context.Context, clientName string) ([]*models.Intervention, error)

	// NextSequenceNumber computes max(sequence_number)+1 for the client,
	// defaulting to 1. Records without a sequence number count as 1.
	NextSequenceNumber(ctx context.Context, clientName string) (int, error)

	// DeleteByID removes the record.
	DeleteByID(ctx context.Context, id string) error
}
