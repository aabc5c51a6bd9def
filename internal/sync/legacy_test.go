package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pvaillant/fieldreport/internal/models"
	"github.com/pvaillant/fieldreport/internal/remote"
)

func TestFeedItemsFromRecord_PrefersFeedItems(t *testing.T) {
	now := time.Now().UTC()
	feed := []models.FeedItem{{Id: "f1", Type: models.FeedItemText, Text: "note", CreatedAt: now}}

	rec := &remote.InterventionRecord{
		FeedItems: feed,
		// legacy collections present too; they must be ignored
		ChecklistItems: []remote.ChecklistItem{{Id: "c1", Label: "old"}},
		Comments:       []remote.Comment{{Id: "m1", Text: "old comment"}},
	}

	assert.Equal(t, feed, feedItemsFromRecord(rec, now))
}

func TestFeedItemsFromRecord_FoldsLegacyCollections(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	checked := true
	unchecked := false

	rec := &remote.InterventionRecord{
		ChecklistItems: []remote.ChecklistItem{
			{Id: "c1", Label: "extinguisher present", Checked: &checked, Category: "safety", CreatedAt: now.Add(2 * time.Minute)},
			{Id: "c2", Label: "exit blocked", Checked: &unchecked, CreatedAt: now.Add(time.Minute)},
			{Id: "c3", Label: "not inspected", Checked: nil, CreatedAt: now.Add(3 * time.Minute)},
		},
		Comments: []remote.Comment{
			{Id: "m1", Type: "photo", Text: "entrance", PhotoId: "p1", CreatedAt: now},
			{Id: "m2", Text: "free-form note", CreatedAt: now.Add(4 * time.Minute)},
		},
	}

	items := feedItemsFromRecord(rec, now)
	require.Len(t, items, 5)

	// ordered by creation time across both legacy collections
	assert.Equal(t, []string{"m1", "c2", "c1", "c3", "m2"},
		[]string{items[0].Id, items[1].Id, items[2].Id, items[3].Id, items[4].Id})

	byId := map[string]models.FeedItem{}
	for _, it := range items {
		byId[it.Id] = it
	}

	assert.Equal(t, models.ComplianceCompliant, byId["c1"].Compliance)
	assert.Equal(t, "safety", byId["c1"].Category)
	assert.Equal(t, models.ComplianceNotCompliant, byId["c2"].Compliance)
	assert.Equal(t, models.ComplianceNA, byId["c3"].Compliance)
	assert.Equal(t, models.FeedItemText, byId["c1"].Type)
	assert.Equal(t, "completed", byId["c1"].Status)

	assert.Equal(t, models.FeedItemPhoto, byId["m1"].Type)
	assert.Equal(t, "p1", byId["m1"].PhotoId)
	assert.Equal(t, models.FeedItemText, byId["m2"].Type)
}

func TestFeedItemsFromRecord_FillsMissingIdsAndTimestamps(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	rec := &remote.InterventionRecord{
		Comments: []remote.Comment{{Text: "no id, no timestamp"}},
	}

	items := feedItemsFromRecord(rec, now)
	require.Len(t, items, 1)
	assert.NotEmpty(t, items[0].Id)
	assert.Equal(t, now, items[0].CreatedAt)
	assert.Equal(t, "completed", items[0].Status)
}

func TestInterventionFromRecord_MarkedSynced(t *testing.T) {
	now := time.Now().UTC()
	seq := 3
	rec := &remote.InterventionRecord{
		Id:             "iv1",
		ClientName:     "Acme",
		SequenceNumber: &seq,
		Date:           "2026-01-02",
		Status:         "completed",
		CreatedAt:      now.Add(-time.Hour),
		UpdatedAt:      now,
		UserId:         "user-1",
	}

	iv := interventionFromRecord(rec, now)
	assert.True(t, iv.Synced)
	assert.Equal(t, "iv1", iv.Id)
	assert.Equal(t, &seq, iv.SequenceNumber)
	assert.Equal(t, now, iv.UpdatedAt)
	assert.Empty(t, iv.FeedItems)
}
