// Package pendingaudio persists the queue of voice notes awaiting
// transcription.
package pendingaudio

import (
	"context"

	"github.com/pvaillant/fieldreport/internal/models"
)

// Repository is the queue API for pending audio. Items stay in the table
// until a transcription succeeds; failed items are left in place for retry.
type Repository interface {
	// Add inserts a queue item.
	Add(ctx context.Context, a *models.PendingAudio) error

	// List returns all queued items, oldest first.
	List(ctx context.Context) ([]*models.PendingAudio, error)

	// Count returns the queue length.
	Count(ctx context.Context) (int, error)

	// DeleteByID removes one consumed item.
	DeleteByID(ctx context.Context, id string) error

	// DeleteByIntervention removes queued items of a deleted intervention.
	DeleteByIntervention(ctx context.Context, interventionId string) error
}
