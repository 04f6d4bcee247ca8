package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Lecon-a/Coffee-Shop/internal/infrastructure/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// Postgres represents a PostgreSQL database connection
type Postgres struct {
	pool           *pgxpool.Pool
	db             *sql.DB
	url            string
	migrationsPath string
	log            *zap.Logger
}

// NewPostgres creates a new PostgreSQL connection pool
func NewPostgres(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Postgres, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("error parsing database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("error creating connection pool: %w", err)
	}

	// Test the connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error connecting to database: %w", err)
	}

	log.Info("Connected to database",
		zap.String("host", cfg.DBHost),
		zap.Int("port", cfg.DBPort),
		zap.String("database", cfg.DBName))

	return &Postgres{
		pool:           pool,
		db:             stdlib.OpenDBFromPool(pool),
		url:            cfg.DatabaseURL(),
		migrationsPath: cfg.MigrationsPath,
		log:            log,
	}, nil
}

// DB returns a database/sql handle backed by the pool
func (p *Postgres) DB() *sql.DB {
	return p.db
}

// Close closes the database connection
func (p *Postgres) Close() {
	p.db.Close()
	p.pool.Close()
}

// Ping checks if the database connection is alive
func (p *Postgres) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.pool.Ping(ctx)
}
