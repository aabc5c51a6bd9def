package models

import "time"

// Photo is a picture attached to an intervention. URLLocal points at the
// on-device file; URLCloud is set once the binary has been uploaded and is
// the signal that no further upload is needed.
type Photo struct {
	Id             string    `json:"id"`
	InterventionId string    `json:"intervention_id"`
	URLLocal       string    `json:"url_local"`
	URLCloud       string    `json:"url_cloud"`
	Description    string    `json:"description"`
	TakenAt        time.Time `json:"taken_at"`
}

// Uploaded reports whether the photo binary already lives in remote storage.
func (p *Photo) Uploaded() bool {
	return p.URLCloud != ""
}
