package sync

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pvaillant/fieldreport/internal/logging"
	"github.com/pvaillant/fieldreport/internal/models"
	"github.com/pvaillant/fieldreport/internal/remote"
	"github.com/pvaillant/fieldreport/internal/repositories"

	_ "modernc.org/sqlite"
)

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

type fakeOnline struct {
	online   bool
	handlers []func(ctx context.Context)
}

func (f *fakeOnline) IsOnline() bool { return f.online }

func (f *fakeOnline) OnOnline(h func(ctx context.Context)) {
	f.handlers = append(f.handlers, h)
}

// fakeGateway is an in-memory Gateway. The remote dataset is seeded through
// records/photos; every mutation is recorded for assertions.
type fakeGateway struct {
	mu sync.Mutex

	records []*remote.InterventionRecord
	photos  []*models.Photo
	listErr error

	upserts      []*models.Intervention
	upsertErr    func(id string) error
	photoUpserts []*models.Photo

	uploads        map[string][]byte
	lastPhotoLimit int

	transcripts     map[string]string
	transcribeErr   func(fileName string) error
	transcribeCalls []string

	deletedInterventions []string
	deletedPhotos        []string
	deletedPhotoSets     []string
	deleteErr            error
}

func (f *fakeGateway) Ping(ctx context.Context) error { return nil }

func (f *fakeGateway) CurrentUserID(ctx context.Context) (string, error) { return "user-1", nil }

func (f *fakeGateway) UpsertIntervention(ctx context.Context, i *models.Intervention) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		if err := f.upsertErr(i.Id); err != nil {
			return err
		}
	}
	f.upserts = append(f.upserts, i)
	return nil
}

func (f *fakeGateway) ListInterventionsSince(ctx context.Context, since time.Time) ([]*remote.InterventionRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var result []*remote.InterventionRecord
	for _, rec := range f.records {
		if !rec.UpdatedAt.Before(since) {
			result = append(result, rec)
		}
	}
	return result, nil
}

func (f *fakeGateway) UpsertPhoto(ctx context.Context, p *models.Photo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.photoUpserts = append(f.photoUpserts, p)
	return nil
}

func (f *fakeGateway) ListPhotos(ctx context.Context, limit int) ([]*models.Photo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lastPhotoLimit = limit
	return f.photos, nil
}

func (f *fakeGateway) UploadPhotoObject(ctx context.Context, interventionId, photoId, ext string, data []byte, contentType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploads == nil {
		f.uploads = map[string][]byte{}
	}
	key := interventionId + "/" + photoId + "." + ext
	f.uploads[key] = data
	return "https://cdn.test/" + key, nil
}

func (f *fakeGateway) DeletePhoto(ctx context.Context, p *models.Photo) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedPhotos = append(f.deletedPhotos, p.Id)
	return nil
}

func (f *fakeGateway) DeletePhotosByIntervention(ctx context.Context, interventionId string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedPhotoSets = append(f.deletedPhotoSets, interventionId)
	return nil
}

func (f *fakeGateway) DeleteIntervention(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletedInterventions = append(f.deletedInterventions, id)
	return nil
}

func (f *fakeGateway) Transcribe(ctx context.Context, audio []byte, fileName, mimeType string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.transcribeCalls = append(f.transcribeCalls, fileName)
	if f.transcribeErr != nil {
		if err := f.transcribeErr(fileName); err != nil {
			return "", err
		}
	}
	if text, ok := f.transcripts[fileName]; ok {
		return text, nil
	}
	return "transcribed text", nil
}

func (f *fakeGateway) transcribeCallCount(fileName string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.transcribeCalls {
		if c == fileName {
			n++
		}
	}
	return n
}

func setupController(t *testing.T) (*Controller, *fakeGateway, *fakeOnline, *repositories.Repositories) {
	t.Helper()
	ctx := context.Background()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	repos, err := repositories.InitDatabase(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.DB.Close() })

	gw := &fakeGateway{}
	online := &fakeOnline{online: true}
	c := NewController(repos, gw, online, testLogger())
	c.startupDelay = time.Millisecond
	c.audioItemDelay = time.Millisecond
	c.backoffBase = time.Millisecond
	return c, gw, online, repos
}
