// Package sync implements the offline/online synchronization engine: the
// pull and push engines, the timestamp-based conflict resolver, the
// pending-audio transcription queue and the periodic auto-sync scheduler.
package sync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pvaillant/fieldreport/internal/logging"
	"github.com/pvaillant/fieldreport/internal/remote"
	"github.com/pvaillant/fieldreport/internal/repositories"
)

// OnlineSource reports device connectivity and fires registered handlers on
// every offline-to-online transition.
type OnlineSource interface {
	IsOnline() bool
	OnOnline(handler func(ctx context.Context))
}

// Controller owns all sync state for the process: the single-flight guards,
// the scheduler timer, the init-once flag and the observer registries.
// Construct one per process and share it by reference; there are no
// package-level globals.
type Controller struct {
	repos   *repositories.Repositories
	gateway remote.Gateway
	online  OnlineSource
	log     logging.Logger

	now func() time.Time

	// Tunables, fixed at construction. Tests shrink the delays.
	startupDelay   time.Duration
	audioItemDelay time.Duration
	backoffBase    time.Duration

	syncing         atomic.Bool
	processingAudio atomic.Bool

	mu          sync.Mutex
	initialized bool
	stop        chan struct{}

	handlersMu    sync.RWMutex
	syncHandlers  []func(PullResult)
	audioHandlers []func(Transcription)
}

// NewController wires the sync engine to the local store, the remote gateway
// and the connectivity source.
func NewController(repos *repositories.Repositories, gateway remote.Gateway, online OnlineSource, log logging.Logger) *Controller {
	return &Controller{
		repos:          repos,
		gateway:        gateway,
		online:         online,
		log:            log,
		now:            time.Now,
		startupDelay:   2 * time.Second,
		audioItemDelay: 2 * time.Second,
		backoffBase:    2 * time.Second,
	}
}

// Initialize wires the startup and online-transition triggers and starts the
// periodic scheduler. Safe to call more than once; only the first call has
// any effect for the life of the process.
func (c *Controller) Initialize(ctx context.Context) {
	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return
	}
	c.initialized = true
	c.mu.Unlock()

	c.online.OnOnline(func(ctx context.Context) {
		c.runCycle(ctx, true)
		if err := c.ProcessPendingAudio(ctx); err != nil {
			c.log.Error(ctx, "pending audio processing failed", "error", err)
		}
	})

	c.StartAutoSync(ctx)

	go func() {
		select {
		case <-time.After(c.startupDelay):
		case <-ctx.Done():
			return
		}
		if !c.online.IsOnline() {
			return
		}
		if err := c.ProcessPendingAudio(ctx); err != nil {
			c.log.Error(ctx, "pending audio processing failed", "error", err)
		}
	}()
}
