package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestResolve(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name   string
		local  *time.Time
		remote time.Time
		want   Outcome
	}{
		{"no local copy", nil, base, RemoteWins},
		{"remote older", ptr(base), base.Add(-time.Minute), LocalWins},
		{"remote barely older", ptr(base), base.Add(-time.Nanosecond), LocalWins},
		{"exact tie", ptr(base), base, Skip},
		{"remote ahead inside window", ptr(base), base.Add(time.Second), Skip},
		{"remote ahead just under window", ptr(base), base.Add(2*time.Second - time.Nanosecond), Skip},
		{"remote ahead at window edge", ptr(base), base.Add(2 * time.Second), RemoteWins},
		{"remote clearly newer", ptr(base), base.Add(time.Hour), RemoteWins},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Resolve(tc.local, tc.remote))
			// same inputs, same verdict
			assert.Equal(t, tc.want, Resolve(tc.local, tc.remote))
		})
	}
}

func TestResolvePhoto(t *testing.T) {
	base := time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC)
	ptr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name   string
		local  *time.Time
		remote time.Time
		want   Outcome
	}{
		{"no local copy", nil, base, RemoteWins},
		{"remote newer", ptr(base), base.Add(time.Millisecond), RemoteWins},
		{"exact tie", ptr(base), base, Skip},
		{"remote older", ptr(base), base.Add(-time.Millisecond), LocalWins},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ResolvePhoto(tc.local, tc.remote))
		})
	}
}
