package remote

import (
	"time"

	"github.com/pvaillant/fieldreport/internal/models"
)

// ChecklistItem is the legacy remote shape of one checklist entry, kept only
// so old rows can still be decoded and migrated into feed items.
type ChecklistItem struct {
	Id        string    `json:"id"`
	Label     string    `json:"label"`
	Checked   *bool     `json:"checked"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
}

// Comment is the legacy remote shape of one free-form comment.
type Comment struct {
	Id            string    `json:"id"`
	Type          string    `json:"type"`
	Text          string    `json:"text"`
	PhotoId       string    `json:"photo_id"`
	Transcription string    `json:"transcription"`
	Category      string    `json:"category"`
	CreatedAt     time.Time `json:"created_at"`
	Status        string    `json:"status"`
}

// InterventionRecord is the wire shape of an intervention row. Newer rows
// carry feed_items; rows written before the feed migration may instead carry
// checklist_items and comments.
type InterventionRecord struct {
	Id             string            `json:"id"`
	ClientName     string            `json:"client_name"`
	SequenceNumber *int              `json:"sequence_number"`
	Date           string            `json:"date"`
	Status         string            `json:"status"`
	Observations   string            `json:"observations"`
	Conclusion     string            `json:"conclusion"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	UserId         string            `json:"user_id"`
	FeedItems      []models.FeedItem `json:"feed_items"`
	ChecklistItems []ChecklistItem   `json:"checklist_items,omitempty"`
	Comments       []Comment         `json:"comments,omitempty"`
}

// interventionRow is the upsert payload. It always writes the unified feed
// shape; user_id is filled in from the session by the client.
func interventionRow(i *models.Intervention, userId string) map[string]any {
	feed := i.FeedItems
	if feed == nil {
		feed = []models.FeedItem{}
	}
	return map[string]any{
		"id":              i.Id,
		"client_name":     i.ClientName,
		"sequence_number": i.SequenceNumber,
		"date":            i.Date,
		"status":          i.Status,
		"observations":    i.Observations,
		"conclusion":      i.Conclusion,
		"created_at":      i.CreatedAt,
		"updated_at":      i.UpdatedAt,
		"user_id":         userId,
		"feed_items":      feed,
	}
}

// photoRow is the upsert payload for a photo row.
func photoRow(p *models.Photo) map[string]any {
	return map[string]any{
		"id":              p.Id,
		"intervention_id": p.InterventionId,
		"url_local":       p.URLLocal,
		"url_cloud":       p.URLCloud,
		"description":     p.Description,
		"taken_at":        p.TakenAt,
	}
}
