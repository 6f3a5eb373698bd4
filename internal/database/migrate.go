package database

import (
	"embed"
	"errors"
	"fmt"
	"net/url"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	"github.com/golang-migrate/migrate/v4/source/iofs"

	dbconfig "github.com/sammenlign/pricefeed/internal/config/database"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// MigrateUp applies all pending schema migrations.
func MigrateUp(cfg *dbconfig.Config) error {
	m, err := newMigrator(cfg)
	if err != nil {
		return err
	}
	defer func() { _, _ = m.Close() }()

	if upErr := m.Up(); upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", upErr)
	}

	return nil
}

// newMigrator builds a migrate instance over the embedded SQL files.
func newMigrator(cfg *dbconfig.Config) (*migrate.Migrate, error) {
	source, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to load embedded migrations: %w", err)
	}

	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		url.QueryEscape(cfg.User),
		url.QueryEscape(cfg.Password),
		cfg.Host, cfg.Port, cfg.DBName, cfg.SSLMode,
	)

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}
