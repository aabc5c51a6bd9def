// Package repositories wires the local SQLite store: it opens the database,
// applies the embedded schema migrations and hands out one repository per
// table.
package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
	"github.com/pvaillant/fieldreport/internal/migrations"
	"github.com/pvaillant/fieldreport/internal/repositories/interventions"
	"github.com/pvaillant/fieldreport/internal/repositories/pendingaudio"
	"github.com/pvaillant/fieldreport/internal/repositories/photos"
	"github.com/pvaillant/fieldreport/internal/repositories/settings"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Interventions interventions.Repository
	Photos        photos.Repository
	PendingAudio  pendingaudio.Repository
	Settings      settings.Repository
	DB            *sql.DB
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	return goose.UpContext(ctx, db, ".")
}

// InitDatabase opens (or creates) the local store at dsn, migrates the
// schema and returns the repository set.
func InitDatabase(ctx context.Context, dsn string) (*Repositories, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}

	if err := RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &Repositories{
		Interventions: interventions.NewSQLiteRepository(db),
		Photos:        photos.NewSQLiteRepository(db),
		PendingAudio:  pendingaudio.NewSQLiteRepository(db),
		Settings:      settings.NewSQLiteRepository(db),
		DB:            db,
	}, nil
}
