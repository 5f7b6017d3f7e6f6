package iocache

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrationSet names a group of tables migrated together.
type MigrationSet string

// Migration sets, one per store.
const (
	StatementMigrations MigrationSet = "statements"
	ReportMigrations    MigrationSet = "reports"
)

// migrationsTable keeps the version of each set apart when stores share a database.
func (s MigrationSet) migrationsTable() string {
	return "finscore_" + string(s) + "_migrations"
}

func (s MigrationSet) defaultDBPath() string {
	if s == ReportMigrations {
		return contract.GetReportDBFilePath()
	}
	return contract.GetStatementDBFilePath()
}

// newMigrator binds a migration set to an open connection. Closing the
// returned migrator also closes db.
func newMigrator(db *sql.DB, backend schema.DatabaseBackend, set MigrationSet) (*migrate.Migrate, error) {
	var (
		driver database.Driver
		err    error
	)
	table := set.migrationsTable()
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{MigrationsTable: table})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{MigrationsTable: table})
	case schema.PostgreSQLBackend:
		driver, err = pgxmigrate.WithInstance(db, &pgxmigrate.Config{MigrationsTable: table})
	default:
		return nil, fmt.Errorf("unsupported backend: %s", backend)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	sub, err := fs.Sub(migrationsFS, path.Join("migrations", string(set), string(backend)))
	if err != nil {
		return nil, fmt.Errorf("failed to access %s migrations: %w", set, err)
	}
	sourceDriver, err := iofs.New(sub, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", sourceDriver, "finscore", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// migrateUp brings a store's tables to the latest version on an open connection.
// The migrator is not closed so db stays usable.
func migrateUp(db *sql.DB, backend schema.DatabaseBackend, set MigrationSet) error {
	m, err := newMigrator(db, backend, set)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to migrate %s tables: %w", set, err)
	}
	return nil
}

// MigrateStore runs database migrations for one store and returns a summary line.
//   - If targetVersion < 0, it migrates to the latest version.
//   - If targetVersion == 0, it rolls back all migrations.
//   - If targetVersion > 0, it migrates to the specified version.
func MigrateStore(set MigrationSet, backend schema.DatabaseBackend, connStr string, targetVersion int) (string, error) {
	if backend == schema.NoneBackend || backend == "" {
		return "", errors.New("migrations are not supported for the none backend")
	}
	db, err := openDB(backend, connStr, set.defaultDBPath())
	if err != nil {
		return "", err
	}
	m, err := newMigrator(db, backend, set)
	if err != nil {
		_ = db.Close()
		return "", err
	}
	defer func() { _, _ = m.Close() }()

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return "", fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return "", fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
	case targetVersion == 0:
		err = m.Down()
	default:
		err = m.Migrate(uint(targetVersion))
	}
	if errors.Is(err, migrate.ErrNoChange) {
		return fmt.Sprintf("No migration needed for %s. Database is already at version %d.", set, currentVersion), nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to migrate %s: %w", set, err)
	}

	newVersion, _, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		newVersion = 0
	} else if err != nil {
		return "", fmt.Errorf("failed to read new migration version: %w", err)
	}
	return fmt.Sprintf("Successfully migrated %s from version %d to version %d.", set, currentVersion, newVersion), nil
}
