package iocache

import (
	"context"
	"time"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
	"github.com/stretchr/testify/mock"
)

// MockDataSource is a mock implementation of DataSource for testing.
type MockDataSource struct {
	mock.Mock
}

var _ contract.DataSource = &MockDataSource{} // Compile-time check

// FetchMetricRow implements the DataSource interface.
func (m *MockDataSource) FetchMetricRow(ctx context.Context, family schema.MetricKey, taxID string, fiscalYear int) (*schema.RawMetricRow, error) {
	args := m.Called(ctx, family, taxID, fiscalYear)
	row, _ := args.Get(0).(*schema.RawMetricRow)
	return row, args.Error(1)
}

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetStatementStore implements the CacheManager interface.
func (m *MockCacheManager) GetStatementStore() contract.StatementStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.StatementStore)
	return store
}

// GetCacheStore implements the CacheManager interface.
func (m *MockCacheManager) GetCacheStore() contract.CacheStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetReportStore implements the CacheManager interface.
func (m *MockCacheManager) GetReportStore() contract.ReportStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.ReportStore)
	return store
}

// MockStatementStore is a mock implementation of StatementStore for testing.
type MockStatementStore struct {
	MockDataSource
}

var _ contract.StatementStore = &MockStatementStore{} // Compile-time check

// ImportStatements implements the StatementStore interface.
func (m *MockStatementStore) ImportStatements(ctx context.Context, records []schema.StatementRecord) (int, error) {
	args := m.Called(ctx, records)
	return args.Int(0), args.Error(1)
}

// GetStatus implements the StatementStore interface.
func (m *MockStatementStore) GetStatus() (schema.StatementStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.StatementStatus), args.Error(1)
}

// Close implements the StatementStore interface.
func (m *MockStatementStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockReportStore is a mock implementation of ReportStore for testing.
type MockReportStore struct {
	mock.Mock
}

var _ contract.ReportStore = &MockReportStore{} // Compile-time check

// BeginRun implements the ReportStore interface.
func (m *MockReportStore) BeginRun(kind string, startTime time.Time, configParams map[string]any) (string, error) {
	args := m.Called(kind, startTime, configParams)
	return args.String(0), args.Error(1)
}

// EndRun implements the ReportStore interface.
func (m *MockReportStore) EndRun(runID string, endTime time.Time) error {
	args := m.Called(runID, endTime)
	return args.Error(0)
}

// RecordCompanyScore implements the ReportStore interface.
func (m *MockReportStore) RecordCompanyScore(record schema.CompanyScoreRecord) error {
	args := m.Called(record)
	return args.Error(0)
}

// GetStatus implements the ReportStore interface.
func (m *MockReportStore) GetStatus() (schema.ReportStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.ReportStatus), args.Error(1)
}

// GetAllRuns implements the ReportStore interface.
func (m *MockReportStore) GetAllRuns() ([]schema.ReportRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.ReportRunRecord)
	return runs, args.Error(1)
}

// GetAllCompanyScores implements the ReportStore interface.
func (m *MockReportStore) GetAllCompanyScores() ([]schema.CompanyScoreRecord, error) {
	args := m.Called()
	scores, _ := args.Get(0).([]schema.CompanyScoreRecord)
	return scores, args.Error(1)
}

// Close implements the ReportStore interface.
func (m *MockReportStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
