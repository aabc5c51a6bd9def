// Package photos persists photo records in the local store.
package photos

import (
	"context"

	"github.com/pvaillant/fieldreport/internal/models"
)

// Repository is the table API for photos.
type Repository interface {
	// Save upserts the photo by id.
	Save(ctx context.Context, p *models.Photo) error

	// GetByID returns the photo or common.ErrNotFound.
	GetByID(ctx context.Context, id string) (*models.Photo, error)

	// ListByIntervention returns the photos attached to one intervention,
	// oldest first.
	ListByIntervention(ctx context.Context, interventionId string) ([]*models.Photo, error)

	// Count returns the number of stored photos.
	Count(ctx context.Context) (int, error)

	// DeleteByID removes one photo.
	DeleteByID(ctx context.Context, id string) error

	// DeleteByIntervention removes all photos of an intervention (cascade
	// on intervention deletion).
	DeleteByIntervention(ctx context.Context, interventionId string) error
}
