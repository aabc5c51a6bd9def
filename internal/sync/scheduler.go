package sync

import (
	"context"
	"strconv"
	"time"

	"github.com/pvaillant/fieldreport/internal/repositories/settings"
)

const (
	minSyncInterval     = 30 * time.Second
	maxSyncInterval     = time.Hour
	defaultSyncInterval = 5 * time.Minute
)

// StartAutoSync starts the periodic Pull-then-Push cycle: one cycle after a
// short startup delay, then one per configured interval. Does nothing when
// auto-sync is disabled in settings. A running scheduler is replaced.
func (c *Controller) StartAutoSync(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stopLocked()

	if !c.autoSyncEnabled(ctx) {
		c.log.Info(ctx, "auto sync disabled")
		return
	}

	interval := c.syncInterval(ctx)
	stop := make(chan struct{})
	c.stop = stop

	c.log.Info(ctx, "auto sync started", "interval", interval)
	go c.runLoop(ctx, interval, stop)
}

// StopAutoSync clears the periodic timer. Pending cycles finish on their own.
func (c *Controller) StopAutoSync() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopLocked()
}

// RestartAutoSync re-reads settings and reschedules. Call after the user
// changes the interval or the enable flag.
func (c *Controller) RestartAutoSync(ctx context.Context) {
	c.StopAutoSync()
	c.StartAutoSync(ctx)
}

func (c *Controller) stopLocked() {
	if c.stop != nil {
		close(c.stop)
		c.stop = nil
	}
}

func (c *Controller) runLoop(ctx context.Context, interval time.Duration, stop chan struct{}) {
	startup := time.NewTimer(c.startupDelay)
	defer startup.Stop()

	select {
	case <-startup.C:
		c.runCycle(ctx, true)
	case <-stop:
		return
	case <-ctx.Done():
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.runCycle(ctx, false)
		case <-stop:
			return
		case <-ctx.Done():
			return
		}
	}
}

// runCycle performs one Pull-then-Push. Pull always completes before Push
// starts, so freshly pulled remote state is visible when local records are
// evaluated for push. Failures are logged and retried on the next cycle,
// never surfaced to the user.
func (c *Controller) runCycle(ctx context.Context, announceAlways bool) {
	result, err := c.SyncFromCloud(ctx)
	if err != nil {
		c.log.Error(ctx, "pull failed", "error", err)
	}
	if err := c.PushToCloud(ctx); err != nil {
		c.log.Error(ctx, "push failed", "error", err)
	}

	if announceAlways || result.Interventions > 0 || result.Photos > 0 {
		c.emitSyncCompleted(result)
	}
}

// syncInterval reads the user-configured interval (milliseconds), clamped to
// [30s, 1h]. Missing or unparseable values fall back to the 5m default.
func (c *Controller) syncInterval(ctx context.Context) time.Duration {
	raw, err := c.repos.Settings.Get(ctx, settings.KeySyncInterval)
	if err != nil {
		c.log.Warn(ctx, "failed to read sync interval", "error", err)
		return defaultSyncInterval
	}
	if raw == "" {
		return defaultSyncInterval
	}
	ms, err := strconv.Atoi(raw)
	if err != nil {
		return defaultSyncInterval
	}

	interval := time.Duration(ms) * time.Millisecond
	if interval < minSyncInterval {
		return minSyncInterval
	}
	if interval > maxSyncInterval {
		return maxSyncInterval
	}
	return interval
}

// autoSyncEnabled defaults to true; only an explicit "false" disables it.
func (c *Controller) autoSyncEnabled(ctx context.Context) bool {
	raw, err := c.repos.Settings.Get(ctx, settings.KeyAutoSyncEnabled)
	if err != nil {
		c.log.Warn(ctx, "failed to read auto sync flag", "error", err)
		return true
	}
	return raw != "false"
}
