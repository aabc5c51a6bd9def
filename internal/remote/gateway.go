// Package remote is the client for the hosted backend: record CRUD over the
// REST API, photo binaries in S3-compatible object storage and the audio
// transcription endpoint. It is the only package that talks to the network.
package remote

import (
	"context"
	"time"

	"github.com/pvaillant/fieldreport/internal/models"
)

// Gateway is the outbound contract consumed by the sync engine.
//
// Error classes: implementations map transport failures onto the sentinel
// errors in errors.go so callers can distinguish unauthorized, rate-limit,
// quota and availability failures from generic ones.
type Gateway interface {
	// Ping checks backend reachability.
	Ping(ctx context.Context) error

	// CurrentUserID returns the authenticated user id, or ErrUnauthorized
	// when no valid session is present.
	CurrentUserID(ctx context.Context) (string, error)

	// UpsertIntervention writes the full record (feed items included),
	// keyed by id. user_id is always set from the current session.
	UpsertIntervention(ctx context.Context, i *models.Intervention) error

	// ListInterventionsSince returns all records with updated_at at or
	// after since, newest first.
	ListInterventionsSince(ctx context.Context, since time.Time) ([]*InterventionRecord, error)

	// UpsertPhoto writes one photo row, keyed by id. The owning
	// intervention must already exist remotely.
	UpsertPhoto(ctx context.Context, p *models.Photo) error

	// ListPhotos returns photo rows newest first. limit <= 0 means no limit.
	ListPhotos(ctx context.Context, limit int) ([]*models.Photo, error)

	// UploadPhotoObject stores the photo binary and returns its public URL.
	UploadPhotoObject(ctx context.Context, interventionId, photoId, ext string, data []byte, contentType string) (string, error)

	// DeletePhoto removes the stored binary (when present) and the row.
	DeletePhoto(ctx context.Context, p *models.Photo) error

	// DeletePhotosByIntervention removes all photo rows of an intervention.
	DeletePhotosByIntervention(ctx context.Context, interventionId string) error

	// DeleteIntervention removes the intervention row.
	DeleteIntervention(ctx context.Context, id string) error

	// Transcribe sends raw audio for transcription and returns the plain
	// transcript text.
	Transcribe(ctx context.Context, audio []byte, fileName, mimeType string) (string, error)
}

// ObjectStore stores photo binaries. Put returns the public URL of the
// stored object.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, key string) error

	// KeyFromURL maps a public URL produced by Put back to its object key.
	KeyFromURL(url string) (string, bool)
}
