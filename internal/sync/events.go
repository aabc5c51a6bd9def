package sync

// PullResult is the outcome of one pull: how many records were applied
// locally.
type PullResult struct {
	Interventions int
	Photos        int
}

// Transcription is emitted when a queued voice note has been transcribed.
type Transcription struct {
	InterventionId string
	Text           string
}

// OnSyncCompleted registers a handler invoked after each sync cycle that
// applied remote changes (and always after the initial cycle), so
// presentation layers can refresh without polling.
func (c *Controller) OnSyncCompleted(handler func(PullResult)) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.syncHandlers = append(c.syncHandlers, handler)
}

// OnAudioTranscribed registers a handler invoked with each successful
// transcription, before the queue item is deleted.
func (c *Controller) OnAudioTranscribed(handler func(Transcription)) {
	c.handlersMu.Lock()
	defer c.handlersMu.Unlock()
	c.audioHandlers = append(c.audioHandlers, handler)
}

func (c *Controller) emitSyncCompleted(result PullResult) {
	c.handlersMu.RLock()
	handlers := c.syncHandlers
	c.handlersMu.RUnlock()
	for _, h := range handlers {
		h(result)
	}
}

func (c *Controller) emitAudioTranscribed(t Transcription) {
	c.handlersMu.RLock()
	handlers := c.audioHandlers
	c.handlersMu.RUnlock()
	for _, h := range handlers {
		h(t)
	}
}
