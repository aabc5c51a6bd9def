package models

import (
	"strings"
	"time"
)

// PendingAudio is a voice note captured while transcription could not
// complete (offline, rate-limited or erroring). Rows are consumed by the
// pending-audio processor and deleted after a successful transcription.
type PendingAudio struct {
	Id             string
	InterventionId string
	AudioBlob      []byte
	MimeType       string
	CreatedAt      time.Time
}

// FileName derives an upload file name from the record id and mime type.
func (a *PendingAudio) FileName() string {
	return "audio_" + a.Id + "." + extensionForMime(a.MimeType)
}

func extensionForMime(mime string) string {
	switch {
	case strings.Contains(mime, "mp4"):
		return "mp4"
	case strings.Contains(mime, "ogg"):
		return "ogg"
	case strings.Contains(mime, "wav"):
		return "wav"
	default:
		return "webm"
	}
}
