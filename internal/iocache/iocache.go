// Package iocache is for statement, cache and report persistence.
package iocache

import (
	"database/sql"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// CacheStoreManager manages the statement, cache and report stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	statements   contract.StatementStore
	cache        contract.CacheStore
	reports      contract.ReportStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// NewCacheStoreManager bundles already opened stores. Any of them may be nil.
func NewCacheStoreManager(statements contract.StatementStore, cache contract.CacheStore, reports contract.ReportStore) *CacheStoreManager {
	return &CacheStoreManager{statements: statements, cache: cache, reports: reports}
}

// GetStatementStore returns the statement store.
func (mgr *CacheStoreManager) GetStatementStore() contract.StatementStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.statements
}

// GetCacheStore returns the metric-row cache.
func (mgr *CacheStoreManager) GetCacheStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.cache
}

// GetReportStore returns the report store.
func (mgr *CacheStoreManager) GetReportStore() contract.ReportStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.reports
}

// driverName maps a backend to its database/sql driver.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s. Must be sqlite, mysql or postgresql", backend)
	}
}

// openDB opens and pings a connection. SQLite falls back to defaultPath when
// connStr is empty and is limited to one connection.
func openDB(backend schema.DatabaseBackend, connStr, defaultPath string) (*sql.DB, error) {
	driver, err := driverName(backend)
	if err != nil {
		return nil, err
	}
	dsn := connStr
	if backend == schema.SQLiteBackend && dsn == "" {
		dsn = defaultPath
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}
	if backend == schema.SQLiteBackend {
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database. Check that the server is running and connection parameters are valid: %w", backend, err)
	}
	return db, nil
}

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// validateTableName rejects names that cannot be used unquoted.
func validateTableName(name string) error {
	if !tableNamePattern.MatchString(name) || len(name) > 64 {
		return fmt.Errorf("invalid table name: %q", name)
	}
	return nil
}

// quoteTableName quotes a validated table name for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	if backend == schema.MySQLBackend {
		return "`" + name + "`"
	}
	return `"` + name + `"`
}

// rebind rewrites ? placeholders as $n for PostgreSQL.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// sqliteTimeFormat is fixed width so stored times sort as text.
const sqliteTimeFormat = "2006-01-02T15:04:05.000000000Z07:00"

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	if backend == schema.SQLiteBackend {
		return t.UTC().Format(sqliteTimeFormat)
	}
	return t
}

// timeScanner scans either an RFC3339 string (SQLite) or a native time.
type timeScanner struct {
	Time  time.Time
	Valid bool
}

// Scan implements sql.Scanner.
func (ts *timeScanner) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		ts.Time, ts.Valid = time.Time{}, false
		return nil
	case time.Time:
		ts.Time, ts.Valid = v, true
		return nil
	case string:
		return ts.parse(v)
	case []byte:
		return ts.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into time", src)
	}
}

func (ts *timeScanner) parse(s string) error {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("failed to parse time %q: %w", s, err)
	}
	ts.Time, ts.Valid = t, true
	return nil
}
