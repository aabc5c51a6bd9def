package sync

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/pvaillant/fieldreport/internal/models"
	"github.com/pvaillant/fieldreport/internal/remote"
)

// transcribeRetries is the number of retries after the initial attempt for a
// rate-limited item. With the default 2s base the waits are 2s, 4s, 8s.
const transcribeRetries = 3

var errEmptyTranscription = errors.New("empty transcription")

// ProcessPendingAudio drains the pending-audio queue strictly sequentially,
// pausing between items to respect upstream rate limits. A rate-limited item
// is retried with exponential backoff; once its retries are exhausted the
// remaining batch is abandoned, since further items would only amplify the
// limit. Any other failure leaves the item queued and moves on. Single-flight:
// a call while a drain is in progress is a silent no-op.
func (c *Controller) ProcessPendingAudio(ctx context.Context) error {
	if !c.processingAudio.CompareAndSwap(false, true) {
		return nil
	}
	defer c.processingAudio.Store(false)

	if !c.online.IsOnline() {
		return nil
	}

	queue, err := c.repos.PendingAudio.List(ctx)
	if err != nil {
		return fmt.Errorf("listing pending audio: %w", err)
	}
	if len(queue) == 0 {
		return nil
	}

	c.log.Info(ctx, "processing pending transcriptions", "count", len(queue))

	for i, item := range queue {
		if i > 0 {
			select {
			case <-time.After(c.audioItemDelay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := c.transcribePending(ctx, item)
		if err == nil {
			continue
		}
		if errors.Is(err, remote.ErrRateLimited) {
			c.log.Warn(ctx, "rate limited, abandoning pending audio batch", "id", item.Id)
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		// Item stays queued for the next run.
		c.log.Error(ctx, "failed to transcribe pending audio", "id", item.Id, "error", err)
	}
	return nil
}

func (c *Controller) transcribePending(ctx context.Context, item *models.PendingAudio) error {
	backoff := retry.WithMaxRetries(transcribeRetries, retry.NewExponential(c.backoffBase))

	var text string
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		transcript, err := c.gateway.Transcribe(ctx, item.AudioBlob, item.FileName(), item.MimeType)
		if err != nil {
			if errors.Is(err, remote.ErrRateLimited) {
				return retry.RetryableError(err)
			}
			return err
		}
		text = strings.TrimSpace(transcript)
		return nil
	})
	if err != nil {
		return err
	}
	if text == "" {
		return errEmptyTranscription
	}

	c.emitAudioTranscribed(Transcription{InterventionId: item.InterventionId, Text: text})

	if err := c.repos.PendingAudio.DeleteByID(ctx, item.Id); err != nil {
		return err
	}
	c.log.Info(ctx, "transcribed pending audio", "id", item.Id)
	return nil
}
