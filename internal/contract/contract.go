// Package contract provides interfaces and shared utilities for the finscore internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/finscore/schema"
)

// DataSource returns the raw statement data behind one metric family of one company-year.
// A nil row with a nil error means the data is absent.
type DataSource interface {
	FetchMetricRow(ctx context.Context, family schema.MetricKey, taxID string, fiscalYear int) (*schema.RawMetricRow, error)
}

// CacheManager defines the interface for managing the persistence stores.
// This allows the storage layer to be mocked for testing.
type CacheManager interface {
	GetStatementStore() StatementStore
	GetCacheStore() CacheStore
	GetReportStore() ReportStore
}

// StatementStore is a DataSource backed by persisted financial statements.
type StatementStore interface {
	DataSource

	// ImportStatements upserts statement rows and returns how many were written.
	ImportStatements(ctx context.Context, records []schema.StatementRecord) (int, error)

	// GetStatus returns status information about the statement store.
	GetStatus() (schema.StatementStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// ReportStore defines the interface for tracking report runs and storing company scores.
type ReportStore interface {
	// BeginRun creates a new run and returns its unique ID.
	BeginRun(kind string, startTime time.Time, configParams map[string]any) (string, error)

	// EndRun marks the run as complete.
	EndRun(runID string, endTime time.Time) error

	// RecordCompanyScore stores the scores of one company for a run.
	RecordCompanyScore(record schema.CompanyScoreRecord) error

	// GetStatus returns status information about the report store.
	GetStatus() (schema.ReportStatus, error)

	// GetAllRuns returns every recorded run, oldest first.
	GetAllRuns() ([]schema.ReportRunRecord, error)

	// GetAllCompanyScores returns every recorded company score, oldest first.
	GetAllCompanyScores() ([]schema.CompanyScoreRecord, error)

	// Close closes the underlying connection.
	Close() error
}
