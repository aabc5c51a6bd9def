package sync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pvaillant/fieldreport/internal/common"
	"github.com/pvaillant/fieldreport/internal/models"
	"github.com/pvaillant/fieldreport/internal/remote"
	"github.com/pvaillant/fieldreport/internal/repositories/settings"
)

// photoPullLimit caps the photo listing on incremental pulls. The photo
// table is not watermarked, so every pull re-checks the most recent rows.
const photoPullLimit = 100

// SyncFromCloud pulls remote changes into the local store: interventions
// modified at or after the watermark, then recent photos. Per-record
// failures are logged and skipped; a listing failure aborts the pull. On
// success the watermark advances to now.
func (c *Controller) SyncFromCloud(ctx context.Context) (PullResult, error) {
	var result PullResult
	if !c.online.IsOnline() {
		return result, nil
	}

	since, wasEmpty, err := c.pullWatermark(ctx)
	if err != nil {
		return result, err
	}

	records, err := c.gateway.ListInterventionsSince(ctx, since)
	if err != nil {
		return result, fmt.Errorf("pull aborted: %w", err)
	}

	for _, rec := range records {
		applied, err := c.applyRemoteIntervention(ctx, rec)
		if err != nil {
			c.log.Error(ctx, "failed to apply remote intervention", "id", rec.Id, "error", err)
			continue
		}
		if applied {
			result.Interventions++
		}
	}

	// Unbounded photo listing on first run guarantees a full backfill;
	// afterwards the cap keeps incremental pulls cheap.
	limit := photoPullLimit
	if wasEmpty {
		limit = 0
	}
	remotePhotos, err := c.gateway.ListPhotos(ctx, limit)
	if err != nil {
		// Photos are re-checked on the next pull anyway.
		c.log.Error(ctx, "failed to list remote photos", "error", err)
	} else {
		for _, p := range remotePhotos {
			applied, err := c.applyRemotePhoto(ctx, p)
			if err != nil {
				c.log.Error(ctx, "failed to apply remote photo", "id", p.Id, "error", err)
				continue
			}
			if applied {
				result.Photos++
			}
		}
	}

	watermark := c.now().UTC().Format(time.RFC3339Nano)
	if err := c.repos.Settings.Set(ctx, settings.KeyLastSyncFromCloud, watermark); err != nil {
		c.log.Error(ctx, "failed to persist pull watermark", "error", err)
	}

	c.log.Info(ctx, "pull complete",
		"interventions", result.Interventions, "photos", result.Photos)
	return result, nil
}

// pullWatermark determines the incremental window. An empty local store
// forces a full resync from the epoch and clears the stored watermark.
func (c *Controller) pullWatermark(ctx context.Context) (time.Time, bool, error) {
	count, err := c.repos.Interventions.Count(ctx)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("counting local interventions: %w", err)
	}

	epoch := time.Unix(0, 0).UTC()
	if count == 0 {
		if err := c.repos.Settings.Delete(ctx, settings.KeyLastSyncFromCloud); err != nil {
			c.log.Warn(ctx, "failed to clear pull watermark", "error", err)
		}
		return epoch, true, nil
	}

	raw, err := c.repos.Settings.Get(ctx, settings.KeyLastSyncFromCloud)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("reading pull watermark: %w", err)
	}
	if raw == "" {
		return epoch, false, nil
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		c.log.Warn(ctx, "invalid pull watermark, resyncing from epoch", "value", raw)
		return epoch, false, nil
	}
	return t, false, nil
}

func (c *Controller) applyRemoteIntervention(ctx context.Context, rec *remote.InterventionRecord) (bool, error) {
	var localUpdatedAt *time.Time
	local, err := c.repos.Interventions.GetByID(ctx, rec.Id)
	switch {
	case err == nil:
		localUpdatedAt = &local.UpdatedAt
	case errors.Is(err, common.ErrNotFound):
	default:
		return false, err
	}

	switch Resolve(localUpdatedAt, rec.UpdatedAt) {
	case Skip:
		c.log.Debug(ctx, "skipping just-synced intervention", "id", rec.Id)
		return false, nil
	case LocalWins:
		// Local copy stays unsynced; the push engine uploads it.
		return false, nil
	}

	if err := c.repos.Interventions.Save(ctx, interventionFromRecord(rec, c.now())); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Controller) applyRemotePhoto(ctx context.Context, p *models.Photo) (bool, error) {
	var localTakenAt *time.Time
	local, err := c.repos.Photos.GetByID(ctx, p.Id)
	switch {
	case err == nil:
		localTakenAt = &local.TakenAt
	case errors.Is(err, common.ErrNotFound):
	default:
		return false, err
	}

	if ResolvePhoto(localTakenAt, p.TakenAt) != RemoteWins {
		return false, nil
	}
	if err := c.repos.Photos.Save(ctx, p); err != nil {
		return false, err
	}
	return true, nil
}
