package sync

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pvaillant/fieldreport/internal/logging"
)

// Pinger is the connectivity probe, normally the remote gateway.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor polls the backend to track connectivity. It implements
// OnlineSource: handlers registered with OnOnline fire on every
// offline-to-online transition.
type Monitor struct {
	pinger   Pinger
	interval time.Duration
	log      logging.Logger

	online atomic.Bool

	mu       sync.Mutex
	handlers []func(ctx context.Context)
}

// NewMonitor builds a monitor that probes at the given interval. The device
// is considered offline until the first successful probe.
func NewMonitor(pinger Pinger, interval time.Duration, log logging.Logger) *Monitor {
	return &Monitor{pinger: pinger, interval: interval, log: log}
}

func (m *Monitor) IsOnline() bool {
	return m.online.Load()
}

func (m *Monitor) OnOnline(handler func(ctx context.Context)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers = append(m.handlers, handler)
}

// Run probes immediately, then at the configured interval, until ctx is
// cancelled.
func (m *Monitor) Run(ctx context.Context) {
	m.probe(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.probe(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) probe(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	err := m.pinger.Ping(probeCtx)
	cancel()

	wasOnline := m.online.Swap(err == nil)
	switch {
	case err != nil && wasOnline:
		m.log.Info(ctx, "connectivity lost", "error", err)
	case err == nil && !wasOnline:
		m.log.Info(ctx, "connectivity restored")
		m.mu.Lock()
		handlers := m.handlers
		m.mu.Unlock()
		for _, h := range handlers {
			h(ctx)
		}
	}
}
