// The agent daemon keeps the local field-report store in sync with the
// cloud backend: it pulls remote changes, pushes local ones, transcribes
// queued voice notes and reschedules itself on connectivity changes.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/pvaillant/fieldreport/internal/config"
	"github.com/pvaillant/fieldreport/internal/logging"
	"github.com/pvaillant/fieldreport/internal/remote"
	"github.com/pvaillant/fieldreport/internal/repositories"
	"github.com/pvaillant/fieldreport/internal/services"
	syncengine "github.com/pvaillant/fieldreport/internal/sync"
)

func main() {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error(ctx, "agent exited with error", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger logging.Logger) error {
	cfg := config.LoadConfig()

	repos, err := repositories.InitDatabase(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer repos.DB.Close()
	logStoreSummary(ctx, repos, logger)

	session := remote.NewSession(readAccessToken(ctx, cfg.AccessTokenFile, logger))

	objects, err := remote.NewS3ObjectStore(ctx, cfg.S3)
	if err != nil {
		return err
	}

	gateway := remote.NewRESTClient(cfg.BaseURL, cfg.APIKey, session, objects, nil, logger)

	monitor := syncengine.NewMonitor(gateway, cfg.OnlineCheckInterval, logger)
	controller := syncengine.NewController(repos, gateway, monitor, logger)
	service := services.NewInterventionService(repos, gateway, logger)

	controller.OnAudioTranscribed(func(t syncengine.Transcription) {
		if err := service.ApplyTranscription(ctx, t.InterventionId, t.Text); err != nil {
			logger.Error(ctx, "failed to apply transcription", "intervention_id", t.InterventionId, "error", err)
		}
	})
	controller.OnSyncCompleted(func(r syncengine.PullResult) {
		logger.Info(ctx, "sync completed", "interventions", r.Interventions, "photos", r.Photos)
	})

	go monitor.Run(ctx)
	controller.Initialize(ctx)

	logger.Info(ctx, "agent started", "db", cfg.DatabasePath, "backend", cfg.BaseURL)
	<-ctx.Done()
	controller.StopAutoSync()
	logger.Info(context.Background(), "agent stopped")
	return nil
}

// logStoreSummary logs what the local store holds at startup, mainly so a
// stuck queue or an unexpectedly empty store is visible in the first lines
// of output.
func logStoreSummary(ctx context.Context, repos *repositories.Repositories, logger logging.Logger) {
	interventions, err := repos.Interventions.Count(ctx)
	if err != nil {
		logger.Warn(ctx, "failed to count interventions", "error", err)
		return
	}
	photos, err := repos.Photos.Count(ctx)
	if err != nil {
		logger.Warn(ctx, "failed to count photos", "error", err)
		return
	}
	pending, err := repos.PendingAudio.Count(ctx)
	if err != nil {
		logger.Warn(ctx, "failed to count pending audio", "error", err)
		return
	}
	logger.Info(ctx, "local store opened",
		"interventions", interventions, "photos", photos, "pending_audio", pending)
}

// readAccessToken loads the session token written by the auth flow. A
// missing file just means we run unauthenticated until the next restart.
func readAccessToken(ctx context.Context, path string, logger logging.Logger) string {
	if path == "" {
		return ""
	}
	data, err := os.ReadFile(path)
	if err != nil {
		logger.Warn(ctx, "failed to read access token", "path", path, "error", err)
		return ""
	}
	return strings.TrimSpace(string(data))
}
