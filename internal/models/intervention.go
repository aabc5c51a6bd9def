// Package models defines the client-side records kept in the local store
// and exchanged with the backend. JSON tags match the backend column names
// and must not be renamed.
package models

import (
	"fmt"
	"time"
)

// Compliance is the tri-state verdict attached to a checklist-style feed item.
type Compliance string

const (
	ComplianceCompliant    Compliance = "compliant"
	ComplianceNotCompliant Compliance = "not_compliant"
	ComplianceNA           Compliance = "na"
)

// FeedItemType classifies a feed item.
type FeedItemType string

const (
	FeedItemText  FeedItemType = "text"
	FeedItemPhoto FeedItemType = "photo"
	FeedItemAudio FeedItemType = "audio"
)

// FeedItem is one timestamped entry in an intervention's feed. The feed
// replaces the old separate checklist_items and comments collections so the
// whole report syncs atomically.
type FeedItem struct {
	Id            string       `json:"id"`
	Type          FeedItemType `json:"type"`
	Text          string       `json:"text"`
	Compliance    Compliance   `json:"compliance,omitempty"`
	Category      string       `json:"category,omitempty"`
	PhotoId       string       `json:"photo_id,omitempty"`
	Transcription string       `json:"transcription,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	Status        string       `json:"status,omitempty"`
}

// Intervention is a field-visit report, the primary unit of work.
//
// Synced is local bookkeeping only: false whenever a local mutation has not
// been confirmed persisted remotely. It is never sent over the wire.
type Intervention struct {
	Id             string     `json:"id"`
	ClientName     string     `json:"client_name"`
	SequenceNumber *int       `json:"sequence_number"`
	Date           string     `json:"date"`
	Status         string     `json:"status"`
	Observations   string     `json:"observations"`
	Conclusion     string     `json:"conclusion"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	UserId         string     `json:"user_id"`
	FeedItems      []FeedItem `json:"feed_items"`
	Synced         bool       `json:"-"`
}

// FormatSequenceNumber renders a sequence number as "#001". Zero or negative
// values render as an empty string.
func FormatSequenceNumber(n int) string {
	if n < 1 {
		return ""
	}
	return fmt.Sprintf("#%03d", n)
}

// DisplayTitle is the human-facing title of an intervention: the client name
// followed by the formatted sequence number when one is assigned, e.g.
// "Acme #003".
func (i *Intervention) DisplayTitle() string {
	name := i.ClientName
	if name == "" {
		name = "Unnamed Client"
	}
	if i.SequenceNumber != nil && *i.SequenceNumber > 0 {
		return name + " " + FormatSequenceNumber(*i.SequenceNumber)
	}
	return name
}
