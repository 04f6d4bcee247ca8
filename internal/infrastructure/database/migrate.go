package database

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// SourceURL returns the file:// source URL of a migrations directory
func SourceURL(migrationsPath string) (string, error) {
	abs, err := filepath.Abs(migrationsPath)
	if err != nil {
		return "", fmt.Errorf("error resolving migrations path: %w", err)
	}
	return "file://" + filepath.ToSlash(abs), nil
}

// NewMigrator creates a migrate instance for the migrations in migrationsPath
func NewMigrator(migrationsPath, databaseURL string) (*migrate.Migrate, error) {
	source, err := SourceURL(migrationsPath)
	if err != nil {
		return nil, err
	}

	m, err := migrate.New(source, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("error creating migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations runs all pending migrations
func (p *Postgres) RunMigrations() error {
	m, err := NewMigrator(p.migrationsPath, p.url)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("error running migrations: %w", err)
	}

	version, dirty, _ := m.Version()
	p.log.Info("Migrations completed successfully", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// ResetDatabase drops every table and re-applies all migrations, leaving the
// catalog with its seed data only.
func (p *Postgres) ResetDatabase() error {
	m, err := NewMigrator(p.migrationsPath, p.url)
	if err != nil {
		return err
	}
	if err := m.Drop(); err != nil {
		m.Close()
		return fmt.Errorf("error dropping database schema: %w", err)
	}
	m.Close()

	p.log.Warn("Dropped all tables")
	return p.RunMigrations()
}
