// Package services contains the application services sitting between the
// UI-facing callers and the local store / remote gateway.
package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pvaillant/fieldreport/internal/dbx"
	"github.com/pvaillant/fieldreport/internal/logging"
	"github.com/pvaillant/fieldreport/internal/models"
	"github.com/pvaillant/fieldreport/internal/remote"
	"github.com/pvaillant/fieldreport/internal/repositories"
	"github.com/pvaillant/fieldreport/internal/repositories/interventions"
	"github.com/pvaillant/fieldreport/internal/repositories/pendingaudio"
	"github.com/pvaillant/fieldreport/internal/repositories/photos"
)

// InterventionService owns the lifecycle of intervention records: creation
// with sequence numbering, local mutation (which always leaves the record
// unsynced for the push engine), and cascading deletion.
type InterventionService interface {
	Create(ctx context.Context, clientName, date string) (*models.Intervention, error)
	Update(ctx context.Context, i *models.Intervention) error
	ClientHistory(ctx context.Context, clientName string) ([]*models.Intervention, error)
	AppendFeedItem(ctx context.Context, interventionId string, item models.FeedItem) (*models.Intervention, error)
	AttachPhoto(ctx context.Context, interventionId, localPath, description string) (*models.Photo, error)
	QueueAudio(ctx context.Context, interventionId string, blob []byte, mimeType string) (*models.PendingAudio, error)
	ApplyTranscription(ctx context.Context, interventionId, text string) error
	Delete(ctx context.Context, id string) error
}

type interventionService struct {
	repos   *repositories.Repositories
	gateway remote.Gateway
	log     logging.Logger
	now     func() time.Time
}

// NewInterventionService binds the service to the local store and gateway.
func NewInterventionService(repos *repositories.Repositories, gateway remote.Gateway, log logging.Logger) InterventionService {
	return &interventionService{repos: repos, gateway: gateway, log: log, now: time.Now}
}

// Create inserts a fresh draft. Repeat visits to the same client get the
// next dense sequence number, computed offline from the local store.
func (s *interventionService) Create(ctx context.Context, clientName, date string) (*models.Intervention, error) {
	clientName = strings.TrimSpace(clientName)

	seq, err := s.repos.Interventions.NextSequenceNumber(ctx, clientName)
	if err != nil {
		return nil, fmt.Errorf("assigning sequence number: %w", err)
	}

	now := s.now().UTC()
	i := &models.Intervention{
		Id:             uuid.NewString(),
		ClientName:     clientName,
		SequenceNumber: &seq,
		Date:           date,
		Status:         "draft",
		CreatedAt:      now,
		UpdatedAt:      now,
		FeedItems:      []models.FeedItem{},
		Synced:         false,
	}
	if err := s.repos.Interventions.Save(ctx, i); err != nil {
		return nil, fmt.Errorf("saving intervention: %w", err)
	}
	return i, nil
}

// Update persists a local edit: updated_at advances and the record becomes
// unsynced so the next push uploads it.
func (s *interventionService) Update(ctx context.Context, i *models.Intervention) error {
	i.UpdatedAt = s.now().UTC()
	i.Synced = false
	if err := s.repos.Interventions.Save(ctx, i); err != nil {
		return fmt.Errorf("saving intervention: %w", err)
	}
	return nil
}

// ClientHistory lists every stored visit for a client, oldest sequence
// first, so a new visit can show what was found last time.
func (s *interventionService) ClientHistory(ctx context.Context, clientName string) ([]*models.Intervention, error) {
	history, err := s.repos.Interventions.ListByClientName(ctx, clientName)
	if err != nil {
		return nil, fmt.Errorf("listing client history: %w", err)
	}
	sort.SliceStable(history, func(a, b int) bool {
		return history[a].CreatedAt.Before(history[b].CreatedAt)
	})
	return history, nil
}

func (s *interventionService) AppendFeedItem(ctx context.Context, interventionId string, item models.FeedItem) (*models.Intervention, error) {
	i, err := s.repos.Interventions.GetByID(ctx, interventionId)
	if err != nil {
		return nil, err
	}

	if item.Id == "" {
		item.Id = uuid.NewString()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now().UTC()
	}
	if item.Status == "" {
		item.Status = "completed"
	}
	i.FeedItems = append(i.FeedItems, item)

	if err := s.Update(ctx, i); err != nil {
		return nil, err
	}
	return i, nil
}

// AttachPhoto records a captured photo and adds a photo feed item pointing
// at it. The binary stays local until the push engine uploads it.
func (s *interventionService) AttachPhoto(ctx context.Context, interventionId, localPath, description string) (*models.Photo, error) {
	p := &models.Photo{
		Id:             uuid.NewString(),
		InterventionId: interventionId,
		URLLocal:       localPath,
		Description:    description,
		TakenAt:        s.now().UTC(),
	}
	if err := s.repos.Photos.Save(ctx, p); err != nil {
		return nil, fmt.Errorf("saving photo: %w", err)
	}

	_, err := s.AppendFeedItem(ctx, interventionId, models.FeedItem{
		Type:    models.FeedItemPhoto,
		Text:    description,
		PhotoId: p.Id,
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

// QueueAudio stores a voice note for the pending-audio processor to
// transcribe once connectivity and rate limits allow.
func (s *interventionService) QueueAudio(ctx context.Context, interventionId string, blob []byte, mimeType string) (*models.PendingAudio, error) {
	if mimeType == "" {
		mimeType = "audio/webm"
	}
	a := &models.PendingAudio{
		Id:             uuid.NewString(),
		InterventionId: interventionId,
		AudioBlob:      blob,
		MimeType:       mimeType,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.repos.PendingAudio.Add(ctx, a); err != nil {
		return nil, fmt.Errorf("queueing audio: %w", err)
	}
	return a, nil
}

// ApplyTranscription appends the transcript of a processed voice note as an
// audio feed item. Wired to the sync controller's audio-transcribed event.
func (s *interventionService) ApplyTranscription(ctx context.Context, interventionId, text string) error {
	_, err := s.AppendFeedItem(ctx, interventionId, models.FeedItem{
		Type:          models.FeedItemAudio,
		Text:          text,
		Transcription: text,
	})
	return err
}

// Delete cascades: remote photo objects and rows first, then the remote
// intervention row, then all local rows in one transaction. Remote failures
// abort the delete so no orphaned remote copy survives a local removal.
func (s *interventionService) Delete(ctx context.Context, id string) error {
	localPhotos, err := s.repos.Photos.ListByIntervention(ctx, id)
	if err != nil {
		return err
	}
	for _, p := range localPhotos {
		if err := s.gateway.DeletePhoto(ctx, p); err != nil {
			return fmt.Errorf("deleting remote photo %s: %w", p.Id, err)
		}
	}
	if err := s.gateway.DeletePhotosByIntervention(ctx, id); err != nil {
		return fmt.Errorf("deleting remote photos: %w", err)
	}
	if err := s.gateway.DeleteIntervention(ctx, id); err != nil {
		return fmt.Errorf("deleting remote intervention: %w", err)
	}

	return dbx.WithTx(ctx, s.repos.DB, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := photos.NewSQLiteRepository(tx).DeleteByIntervention(ctx, id); err != nil {
			return err
		}
		if err := pendingaudio.NewSQLiteRepository(tx).DeleteByIntervention(ctx, id); err != nil {
			return err
		}
		return interventions.NewSQLiteRepository(tx).DeleteByID(ctx, id)
	})
}
