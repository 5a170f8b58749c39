package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var historyMigrations embed.FS

// RunMigrations brings the run history schema (runs, cell_writes) at dbPath
// up to the latest embedded version. An up to date database is not an error.
func RunMigrations(dbPath string, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	// The migrator owns this handle and closes it with m.Close.
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open history database for migration: %w", err)
	}
	defer db.Close()

	driver, err := sqlite.WithInstance(db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("history migration driver: %w", err)
	}

	src, err := iofs.New(historyMigrations, "migrations")
	if err != nil {
		return fmt.Errorf("embedded history migrations: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("history migrator: %w", err)
	}
	defer m.Close()

	err = m.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
	case err != nil:
		return fmt.Errorf("migrate history schema: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read history schema version: %w", err)
	}
	if dirty {
		return fmt.Errorf("history schema version %d is dirty, fix it by hand", version)
	}
	logger.Debug("History schema ready", "path", dbPath, "version", version)
	return nil
}
