package database

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/podium-picks/internal/config"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Initialize creates a database connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.Config, log *logrus.Logger) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	applied, err := db.Migrate(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"component":  "database",
		"migrations": applied,
		"host":       cfg.Database.Host,
		"database":   cfg.Database.Name,
	}).Info("Database ready")

	return db, nil
}

// Migrate applies embedded migrations in file name order. Every migration is
// written to be re-runnable, so applying them twice is harmless.
func (db *DB) Migrate(ctx context.Context) (int, error) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return 0, fmt.Errorf("failed to list migrations: %w", err)
	}
	sort.Strings(names)

	for _, name := range names {
		sql, err := migrationFiles.ReadFile(name)
		if err != nil {
			return 0, fmt.Errorf("failed to read migration %s: %w", name, err)
		}
		if _, err := db.pool.Exec(ctx, string(sql)); err != nil {
			return 0, fmt.Errorf("failed to apply migration %s: %w", name, err)
		}
	}
	return len(names), nil
}
