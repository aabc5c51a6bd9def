package sync

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pvaillant/fieldreport/internal/models"
	"github.com/pvaillant/fieldreport/internal/remote"
)

// feedItemsFromRecord returns the unified feed for a pulled record. Rows
// written before the feed migration carry separate checklist_items and
// comments collections instead of feed_items; those are folded into feed
// entries here, once, at the ingestion boundary. Checklist items become
// text entries whose compliance derives from the checked tri-state;
// comments keep their original type. The merged feed is ordered by creation
// time.
func feedItemsFromRecord(rec *remote.InterventionRecord, now time.Time) []models.FeedItem {
	if len(rec.FeedItems) > 0 {
		return rec.FeedItems
	}

	items := make([]models.FeedItem, 0, len(rec.ChecklistItems)+len(rec.Comments))

	for _, ci := range rec.ChecklistItems {
		compliance := models.ComplianceNA
		if ci.Checked != nil {
			if *ci.Checked {
				compliance = models.ComplianceCompliant
			} else {
				compliance = models.ComplianceNotCompliant
			}
		}
		items = append(items, models.FeedItem{
			Id:         orNewId(ci.Id),
			Type:       models.FeedItemText,
			Text:       ci.Label,
			Compliance: compliance,
			Category:   ci.Category,
			CreatedAt:  orNow(ci.CreatedAt, now),
			Status:     "completed",
		})
	}

	for _, cm := range rec.Comments {
		itemType := models.FeedItemType(cm.Type)
		if itemType == "" {
			itemType = models.FeedItemText
		}
		status := cm.Status
		if status == "" {
			status = "completed"
		}
		items = append(items, models.FeedItem{
			Id:            orNewId(cm.Id),
			Type:          itemType,
			Text:          cm.Text,
			PhotoId:       cm.PhotoId,
			Transcription: cm.Transcription,
			Category:      cm.Category,
			CreatedAt:     orNow(cm.CreatedAt, now),
			Status:        status,
		})
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].CreatedAt.Before(items[b].CreatedAt)
	})
	return items
}

// interventionFromRecord materializes the local copy of a pulled record,
// marked synced since it mirrors the backend.
func interventionFromRecord(rec *remote.InterventionRecord, now time.Time) *models.Intervention {
	return &models.Intervention{
		Id:             rec.Id,
		ClientName:     rec.ClientName,
		SequenceNumber: rec.SequenceNumber,
		Date:           rec.Date,
		Status:         rec.Status,
		Observations:   rec.Observations,
		Conclusion:     rec.Conclusion,
		CreatedAt:      rec.CreatedAt,
		UpdatedAt:      rec.UpdatedAt,
		UserId:         rec.UserId,
		FeedItems:      feedItemsFromRecord(rec, now),
		Synced:         true,
	}
}

func orNewId(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func orNow(t time.Time, now time.Time) time.Time {
	if t.IsZero() {
		return now
	}
	return t
}
