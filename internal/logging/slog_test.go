package logging

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlogLogger_EmitsStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))
	ctx := context.Background()

	log.Info(ctx, "pull complete", "interventions", 3)
	assert.Contains(t, buf.String(), `"msg":"pull complete"`)
	assert.Contains(t, buf.String(), `"interventions":3`)

	buf.Reset()
	log.Error(ctx, "push failed", "error", "boom")
	assert.Contains(t, buf.String(), `"level":"ERROR"`)
}

func TestSlogLogger_WithCarriesAttributes(t *testing.T) {
	var buf bytes.Buffer
	log := NewSlogLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	child := log.With("component", "sync")
	child.Warn(context.Background(), "rate limited")

	assert.Contains(t, buf.String(), `"component":"sync"`)
	assert.Contains(t, buf.String(), `"msg":"rate limited"`)
}
