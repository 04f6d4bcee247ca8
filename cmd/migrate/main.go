package main

import (
	"errors"
	"flag"
	"log"
	"strconv"

	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/config"
	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/database"
	"github.com/golang-migrate/migrate/v4"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	up := flag.Bool("up", false, "Run migrations up")
	down := flag.Bool("down", false, "Run migrations down")
	reset := flag.Bool("reset", false, "Drop all tables and run migrations up")
	steps := flag.Int("steps", 0, "Number of steps to migrate (positive for up, negative for down)")
	force := flag.String("force", "", "Force migration to specific version")
	migrationDir := flag.String("dir", "", "Migration directory path (defaults to MIGRATIONS_PATH)")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *migrationDir != "" {
		cfg.MigrationsPath = *migrationDir
	}

	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	m, err := database.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL())
	if err != nil {
		logger.Fatal("Failed to create migration instance", zap.Error(err))
	}
	defer m.Close()

	logger.Info("Migration files found",
		zap.String("path", cfg.MigrationsPath),
		zap.String("host", cfg.DBHost),
		zap.String("database", cfg.DBName),
	)

	// Run migrations based on flags
	switch {
	case *force != "":
		version, err := strconv.Atoi(*force)
		if err != nil {
			logger.Fatal("Invalid version number", zap.Error(err))
		}
		if err := m.Force(version); err != nil {
			logger.Fatal("Failed to force migration version", zap.Error(err))
		}
		logger.Info("Forced migration version", zap.Int("version", version))
	case *reset:
		if err := m.Drop(); err != nil {
			logger.Fatal("Failed to drop database schema", zap.Error(err))
		}
		m.Close()
		logger.Info("Dropped all tables and reset migration state")

		m, err = database.NewMigrator(cfg.MigrationsPath, cfg.DatabaseURL())
		if err != nil {
			logger.Fatal("Failed to create migration instance", zap.Error(err))
		}
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal("Failed to run migrations up", zap.Error(err))
		}
		logger.Info("Database reset completed successfully")
	case *up:
		logger.Info("Running migrations up")
		if err := m.Up(); err != nil {
			if !errors.Is(err, migrate.ErrNoChange) {
				logger.Fatal("Failed to run migrations up", zap.Error(err))
			}
			logger.Info("No migrations to apply")
		}
		logger.Info("Migrations up completed successfully")
	case *down:
		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal("Failed to run migrations down", zap.Error(err))
		}
		logger.Info("Migrations down completed successfully")
	case *steps != 0:
		if err := m.Steps(*steps); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			logger.Fatal("Failed to run migrations steps", zap.Error(err))
		}
		logger.Info("Migrations steps completed successfully", zap.Int("steps", *steps))
	default:
		// Show current migration version
		version, dirty, err := m.Version()
		if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
			logger.Fatal("Failed to get migration version", zap.Error(err))
		}
		logger.Info("Current migration version",
			zap.Uint("version", version),
			zap.Bool("dirty", dirty),
		)
	}
}
