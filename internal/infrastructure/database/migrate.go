package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations
var migrations embed.FS

// MigrateUp applies every pending migration.
func (db *DB) MigrateUp() error {
	m, err := db.migrator()
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate up: %w", err)
	}
	return nil
}

// MigrateDown reverts every applied migration.
func (db *DB) MigrateDown() error {
	m, err := db.migrator()
	if err != nil {
		return err
	}
	if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migrate down: %w", err)
	}
	return nil
}

// MigrationVersion returns the applied schema version. A database that was
// never migrated reports version 0.
func (db *DB) MigrationVersion() (version uint, dirty bool, err error) {
	m, err := db.migrator()
	if err != nil {
		return 0, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

// migrator builds a migrate instance on top of the open connection. The
// instance is never closed: closing the database driver closes the shared
// *sql.DB as well.
func (db *DB) migrator() (*migrate.Migrate, error) {
	src, err := iofs.New(migrations, "migrations/"+db.Driver())
	if err != nil {
		return nil, fmt.Errorf("load migrations: %w", err)
	}

	var driver migratedb.Driver
	switch db.Driver() {
	case DriverPostgres:
		driver, err = postgres.WithInstance(db.DB.DB, &postgres.Config{})
	case DriverSQLite:
		driver, err = migratesqlite.WithInstance(db.DB.DB, &migratesqlite.Config{})
	default:
		return nil, fmt.Errorf("unsupported database driver %q", db.Driver())
	}
	if err != nil {
		return nil, fmt.Errorf("create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.Driver(), driver)
	if err != nil {
		return nil, fmt.Errorf("create migration instance: %w", err)
	}
	return m, nil
}
