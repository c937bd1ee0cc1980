package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationResult describes the schema versions before and after a migration run.
type MigrationResult struct {
	From    uint
	To      uint
	Changed bool
}

// Migrate runs the embedded schema migrations for backend.
// - If target < 0, it migrates to the latest version.
// - If target == 0, it rolls back all migrations.
// - If target > 0, it migrates to the specified version.
func Migrate(backend Backend, dsn string, target int) (MigrationResult, error) {
	var result MigrationResult

	connStr := dsn
	if backend == SQLiteBackend {
		connStr = sqliteWriterDSN(dsn)
	}
	db, err := sql.Open(backend.driverName(), connStr)
	if err != nil {
		return result, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return result, fmt.Errorf("failed to ping %s database: %w", backend, err)
	}

	var driver database.Driver
	switch backend {
	case SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case PostgresBackend:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	case MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if err != nil {
		_ = db.Close()
		return result, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	sub, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		_ = driver.Close()
		return result, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	source, err := iofs.New(sub, ".")
	if err != nil {
		_ = driver.Close()
		return result, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, string(backend), driver)
	if err != nil {
		_ = driver.Close()
		return result, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	// Close releases both the source and the database handle.
	defer func() { _, _ = m.Close() }()

	current, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return result, fmt.Errorf("database is in a dirty state at version %d", current)
	}
	result.From = current

	switch {
	case target < 0:
		err = m.Up()
	case target == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(target))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		result.To = current
		return result, nil
	}
	if err != nil {
		return result, fmt.Errorf("failed to migrate %s schema: %w", backend, err)
	}

	next, _, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return result, fmt.Errorf("failed to read migrated version: %w", err)
	}
	result.To = next
	result.Changed = true
	return result, nil
}
