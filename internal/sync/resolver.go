package sync

import "time"

// justSyncedWindow suppresses remote overwrites of a local record whose
// timestamp trails the remote one by less than this. It guards against the
// race where a just-pushed local write is immediately re-pulled and would
// otherwise be treated as a foreign update. This is a heuristic, not a
// clock-skew-proof conflict protocol.
const justSyncedWindow = 2 * time.Second

// Outcome is the conflict resolver's verdict for one record pair.
type Outcome int

const (
	// RemoteWins: the remote copy replaces the local one.
	RemoteWins Outcome = iota
	// LocalWins: the local copy is kept and stays unsynced, so the push
	// engine will upload it.
	LocalWins
	// Skip: the local copy is kept as-is, nothing to push.
	Skip
)

// Resolve decides between a local record (nil when no local copy exists) and
// a remote record by their last-modified timestamps. Last write wins; a
// remote timestamp ahead of local by less than the guard window is treated
// as the echo of our own push and skipped. Exact ties fall inside the
// window.
func Resolve(localUpdatedAt *time.Time, remoteUpdatedAt time.Time) Outcome {
	if localUpdatedAt == nil {
		return RemoteWins
	}
	diff := remoteUpdatedAt.Sub(*localUpdatedAt)
	if diff < 0 {
		return LocalWins
	}
	if diff < justSyncedWindow {
		return Skip
	}
	return RemoteWins
}

// ResolvePhoto applies the photo rule: newer remote capture timestamp wins,
// with no guard window. An exact tie means the copies are the same version,
// so there is nothing to re-apply.
func ResolvePhoto(localTakenAt *time.Time, remoteTakenAt time.Time) Outcome {
	if localTakenAt == nil {
		return RemoteWins
	}
	if remoteTakenAt.After(*localTakenAt) {
		return RemoteWins
	}
	if remoteTakenAt.Equal(*localTakenAt) {
		return Skip
	}
	return LocalWins
}
