// Package postgres opens connection pools and applies the embedded schema.
package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
)

//go:embed migrations
var migrationFiles embed.FS

// Schema names one of the embedded migration sets.
type Schema string

const (
	SchemaStorage  Schema = "storage"
	SchemaAnalysis Schema = "analysis"
)

func Connect(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pgx ping: %w", err)
	}
	slog.Info("postgres connected")
	return pool, nil
}

// Migrate brings schema up to date. Each schema keeps its own version table
// so storage and analysis may share one database.
func Migrate(pool *pgxpool.Pool, schema Schema) error {
	sourceDriver, err := iofs.New(migrationFiles, "migrations/"+string(schema))
	if err != nil {
		return fmt.Errorf("read migration files: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	driver, err := migratepgx.WithInstance(db, &migratepgx.Config{
		MigrationsTable: "schema_migrations_" + string(schema),
	})
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "pgx5", driver)
	if err != nil {
		_ = driver.Close()
		return fmt.Errorf("init migration: %w", err)
	}
	// Close returns the driver's dedicated connection to the pool.
	defer func() {
		if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
			slog.Warn("close migrator", "schema", schema, "source_err", srcErr, "db_err", dbErr)
		}
	}()
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration failed: %w", err)
	}

	version, _, err := m.Version()
	if err == nil {
		slog.Info("schema migrated", "schema", schema, "version", version)
	}
	return nil
}
