package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
)

// metricRowTable is the name of the table for metric-row caching.
const metricRowTable = "metric_row_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// StoreOptions selects the backend and connection of each store.
// An empty backend leaves that store uninitialized.
type StoreOptions struct {
	SourceBackend   schema.DatabaseBackend
	SourceDBConnect string
	CacheBackend    schema.DatabaseBackend
	CacheDBConnect  string
	ReportBackend   schema.DatabaseBackend
	ReportDBConnect string
}

// StoreOptionsFromConfig picks the store settings out of a validated config.
func StoreOptionsFromConfig(cfg *contract.Config) StoreOptions {
	return StoreOptions{
		SourceBackend:   cfg.SourceBackend,
		SourceDBConnect: cfg.SourceDBConnect,
		CacheBackend:    cfg.CacheBackend,
		CacheDBConnect:  cfg.CacheDBConnect,
		ReportBackend:   cfg.ReportBackend,
		ReportDBConnect: cfg.ReportDBConnect,
	}
}

// InitStores initializes the global manager. It runs once; later calls return
// the first result.
func InitStores(opts StoreOptions) error {
	var initErr error
	initOnce.Do(func() {
		statements, cache, reports, err := OpenStores(opts)
		if err != nil {
			initErr = err
			return
		}
		Manager.Lock()
		defer Manager.Unlock()
		Manager.statements = statements
		Manager.cache = cache
		Manager.reports = reports
	})
	return initErr
}

// OpenStores opens every configured store. On failure the stores already
// opened are closed.
func OpenStores(opts StoreOptions) (contract.StatementStore, contract.CacheStore, contract.ReportStore, error) {
	var (
		statements contract.StatementStore
		cache      contract.CacheStore
		reports    contract.ReportStore
		err        error
	)
	closeAll := func() {
		for _, c := range []interface{ Close() error }{statements, cache, reports} {
			if c != nil {
				_ = c.Close()
			}
		}
	}

	if opts.SourceBackend != "" {
		if statements, err = NewStatementStore(opts.SourceBackend, opts.SourceDBConnect); err != nil {
			return nil, nil, nil, fmt.Errorf("failed to initialize statement store: %w", err)
		}
	}
	if opts.CacheBackend != "" {
		if cache, err = NewCacheStore(metricRowTable, opts.CacheBackend, opts.CacheDBConnect); err != nil {
			closeAll()
			return nil, nil, nil, fmt.Errorf("failed to initialize metric cache: %w", err)
		}
	}
	if opts.ReportBackend != "" {
		if reports, err = NewReportStore(opts.ReportBackend, opts.ReportDBConnect); err != nil {
			closeAll()
			return nil, nil, nil, fmt.Errorf("failed to initialize report store: %w", err)
		}
	}
	return statements, cache, reports, nil
}

// CloseStores should be called on application shutdown.
func CloseStores() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.statements != nil {
			_ = Manager.statements.Close()
		}
		if Manager.cache != nil {
			_ = Manager.cache.Close()
		}
		if Manager.reports != nil {
			_ = Manager.reports.Close()
		}
	})
}

// ClearCache clears the metric-row cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStore(backend, dbFilePath, connStr, metricRowTable)
}

// ClearReports clears the report tables and their migration history.
func ClearReports(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearStore(backend, dbFilePath, connStr,
		companyScoresTable, reportRunsTable, ReportMigrations.migrationsTable())
}

func clearStore(backend schema.DatabaseBackend, dbFilePath, connStr string, tables ...string) error {
	switch backend {
	case schema.SQLiteBackend:
		if connStr != "" {
			dbFilePath = connStr
		}
		if dbFilePath == "" {
			return fmt.Errorf("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driver, _ := driverName(backend)
		for _, table := range tables {
			if err := clearSQLTable(driver, connStr, table, backend); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend, "":
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driver, connStr, tableName string, backend schema.DatabaseBackend) error {
	db, err := sql.Open(driver, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	if _, err := db.Exec("DROP TABLE IF EXISTS " + quoteTableName(tableName, backend)); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
