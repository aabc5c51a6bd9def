package sync

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pvaillant/fieldreport/internal/models"
	"github.com/pvaillant/fieldreport/internal/repositories/settings"
)

// PushToCloud uploads every unsynced local intervention, then any of its
// photos lacking a remote URL, and marks the record synced. A record that
// fails stays unsynced and is retried on the next cycle; one failure never
// blocks the rest of the batch. Single-flight: a call while a push is in
// progress is a silent no-op.
func (c *Controller) PushToCloud(ctx context.Context) error {
	if !c.syncing.CompareAndSwap(false, true) {
		return nil
	}
	defer c.syncing.Store(false)

	if !c.online.IsOnline() {
		return nil
	}

	unsynced, err := c.repos.Interventions.ListUnsynced(ctx)
	if err != nil {
		return fmt.Errorf("listing unsynced interventions: %w", err)
	}
	if len(unsynced) == 0 {
		return nil
	}

	pushed := 0
	for _, iv := range unsynced {
		if err := c.pushIntervention(ctx, iv); err != nil {
			c.log.Error(ctx, "failed to push intervention", "id", iv.Id, "error", err)
			continue
		}
		pushed++
	}

	lastPush := c.now().UTC().Format(time.RFC3339Nano)
	if err := c.repos.Settings.Set(ctx, settings.KeyLastSyncTime, lastPush); err != nil {
		c.log.Error(ctx, "failed to persist last push time", "error", err)
	}

	c.log.Info(ctx, "push complete", "pushed", pushed, "total", len(unsynced))
	return nil
}

func (c *Controller) pushIntervention(ctx context.Context, iv *models.Intervention) error {
	if err := c.gateway.UpsertIntervention(ctx, iv); err != nil {
		return err
	}

	photos, err := c.repos.Photos.ListByIntervention(ctx, iv.Id)
	if err != nil {
		return err
	}
	for _, p := range photos {
		if p.Uploaded() {
			continue
		}
		if err := c.pushPhoto(ctx, p); err != nil {
			return err
		}
	}

	return c.repos.Interventions.MarkSynced(ctx, iv.Id)
}

// pushPhoto uploads the photo binary (when a local file is present), writes
// the remote row and persists the acquired remote URL locally.
func (c *Controller) pushPhoto(ctx context.Context, p *models.Photo) error {
	if p.URLLocal != "" {
		data, err := os.ReadFile(p.URLLocal)
		if err != nil {
			// Row metadata still syncs; the binary can follow later.
			c.log.Warn(ctx, "photo file unreadable, syncing row only", "id", p.Id, "error", err)
		} else {
			ext := strings.TrimPrefix(filepath.Ext(p.URLLocal), ".")
			if ext == "" {
				ext = "jpg"
			}
			url, err := c.gateway.UploadPhotoObject(ctx, p.InterventionId, p.Id, ext, data, contentTypeForExt(ext))
			if err != nil {
				return err
			}
			p.URLCloud = url
		}
	}

	if err := c.gateway.UpsertPhoto(ctx, p); err != nil {
		return err
	}
	return c.repos.Photos.Save(ctx, p)
}

func contentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	case "gif":
		return "image/gif"
	default:
		return "image/jpeg"
	}
}
