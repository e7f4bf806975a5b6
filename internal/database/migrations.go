package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/sirupsen/logrus"
)

// MigrationRunner applies the SQL migrations under migrations/ (reports,
// results, metrics and digital_profiles schema) to the analysis database.
type MigrationRunner struct {
	migrate *migrate.Migrate
	path    string
	log     *logrus.Logger
}

// NewMigrationRunner builds a runner over the file-based migration source.
// The migrations directory is validated up front so a misconfigured path
// fails at startup instead of surfacing as an empty migration run.
func NewMigrationRunner(databaseURL, migrationsPath string, logger *logrus.Logger) (*MigrationRunner, error) {
	absPath, err := filepath.Abs(migrationsPath)
	if err != nil {
		return nil, fmt.Errorf("resolving migrations path %q: %w", migrationsPath, err)
	}
	if err := validateMigrationsDir(absPath); err != nil {
		return nil, err
	}

	m, err := migrate.New(fmt.Sprintf("file://%s", absPath), databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating migration instance: %w", err)
	}

	return &MigrationRunner{
		migrate: m,
		path:    absPath,
		log:     logger,
	}, nil
}

// validateMigrationsDir checks the directory exists and holds at least one
// up migration.
func validateMigrationsDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("migrations path %q: %w", path, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("migrations path %q is not a directory", path)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("reading migrations path %q: %w", path, err)
	}
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			return nil
		}
	}
	return fmt.Errorf("migrations path %q contains no .up.sql files", path)
}

// Up applies all pending migrations.
func (mr *MigrationRunner) Up(ctx context.Context) error {
	mr.log.WithField("path", mr.path).Info("Applying schema migrations")

	if err := mr.migrate.Up(); err != nil {
		if err == migrate.ErrNoChange {
			mr.log.Info("Schema already up to date")
			return nil
		}
		return fmt.Errorf("applying migrations: %w", err)
	}

	mr.logVersion("Schema migrations applied")
	return nil
}

// Down rolls back the most recent migration.
func (mr *MigrationRunner) Down(ctx context.Context) error {
	mr.log.Info("Rolling back one schema migration")

	if err := mr.migrate.Steps(-1); err != nil {
		if err == migrate.ErrNoChange {
			mr.log.Info("No schema migrations to roll back")
			return nil
		}
		return fmt.Errorf("rolling back migration: %w", err)
	}

	mr.logVersion("Schema migration rolled back")
	return nil
}

func (mr *MigrationRunner) logVersion(msg string) {
	version, dirty, err := mr.migrate.Version()
	if err != nil {
		mr.log.WithError(err).Warn("Could not read schema version")
		return
	}
	mr.log.WithFields(logrus.Fields{
		"schema_version": version,
		"dirty":          dirty,
	}).Info(msg)
}

// Version returns the current schema version.
func (mr *MigrationRunner) Version() (uint, bool, error) {
	return mr.migrate.Version()
}

// Close releases the migration source and database handles.
func (mr *MigrationRunner) Close() error {
	sourceErr, dbErr := mr.migrate.Close()
	if sourceErr != nil {
		return fmt.Errorf("closing migration source: %w", sourceErr)
	}
	if dbErr != nil {
		return fmt.Errorf("closing migration database: %w", dbErr)
	}
	return nil
}
