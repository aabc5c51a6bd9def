package sync

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakePinger struct {
	err error
}

func (f *fakePinger) Ping(ctx context.Context) error { return f.err }

func TestMonitor_FiresOnEveryOfflineToOnlineEdge(t *testing.T) {
	p := &fakePinger{err: errors.New("unreachable")}
	m := NewMonitor(p, time.Minute, testLogger())
	ctx := context.Background()

	fired := 0
	m.OnOnline(func(ctx context.Context) { fired++ })

	assert.False(t, m.IsOnline(), "offline until the first successful probe")

	m.probe(ctx)
	assert.False(t, m.IsOnline())
	assert.Equal(t, 0, fired)

	p.err = nil
	m.probe(ctx)
	assert.True(t, m.IsOnline())
	assert.Equal(t, 1, fired)

	// staying online does not re-fire
	m.probe(ctx)
	assert.Equal(t, 1, fired)

	p.err = errors.New("unreachable")
	m.probe(ctx)
	assert.False(t, m.IsOnline())

	p.err = nil
	m.probe(ctx)
	assert.True(t, m.IsOnline())
	assert.Equal(t, 2, fired)
}
