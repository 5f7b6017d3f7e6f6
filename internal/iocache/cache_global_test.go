package iocache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/internal/parquet"
	"github.com/huangsam/finscore/schema"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resetGlobals(t *testing.T) {
	t.Helper()
	CloseStores()
	Manager = &CacheStoreManager{}
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	t.Cleanup(func() {
		CloseStores()
		Manager = &CacheStoreManager{}
		initOnce = sync.Once{}
		closeOnce = sync.Once{}
	})
}

func TestInitStores(t *testing.T) {
	resetGlobals(t)
	dir := t.TempDir()

	opts := StoreOptions{
		SourceBackend:   schema.SQLiteBackend,
		SourceDBConnect: filepath.Join(dir, "statements.db"),
		CacheBackend:    schema.SQLiteBackend,
		CacheDBConnect:  filepath.Join(dir, "cache.db"),
	}
	require.NoError(t, InitStores(opts))
	assert.NotNil(t, Manager.GetStatementStore())
	assert.NotNil(t, Manager.GetCacheStore())
	assert.Nil(t, Manager.GetReportStore())

	// later calls are no-ops
	require.NoError(t, InitStores(StoreOptions{SourceBackend: "bogus"}))
	assert.NotNil(t, Manager.GetStatementStore())
}

func TestOpenStores_FailureClosesOpened(t *testing.T) {
	dir := t.TempDir()
	_, _, _, err := OpenStores(StoreOptions{
		SourceBackend:   schema.SQLiteBackend,
		SourceDBConnect: filepath.Join(dir, "statements.db"),
		ReportBackend:   schema.SQLiteBackend,
		ReportDBConnect: filepath.Join(dir, "missing", "reports.db"),
	})
	assert.ErrorContains(t, err, "report store")
}

func TestStoreOptionsFromConfig(t *testing.T) {
	cfg := &contract.Config{
		SourceBackend:   schema.SQLiteBackend,
		SourceDBConnect: "a.db",
		CacheBackend:    schema.NoneBackend,
		ReportBackend:   schema.PostgreSQLBackend,
		ReportDBConnect: "postgres://localhost/x",
	}
	opts := StoreOptionsFromConfig(cfg)
	assert.Equal(t, StoreOptions{
		SourceBackend:   schema.SQLiteBackend,
		SourceDBConnect: "a.db",
		CacheBackend:    schema.NoneBackend,
		ReportBackend:   schema.PostgreSQLBackend,
		ReportDBConnect: "postgres://localhost/x",
	}, opts)
}

func TestClearCache(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.db")
	store, err := NewCacheStore(metricRowTable, schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", []byte("v"), 1, 1))
	require.NoError(t, store.Close())

	require.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	// clearing twice is fine
	assert.NoError(t, ClearCache(schema.SQLiteBackend, path, ""))
	assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	assert.Error(t, ClearCache("oracle", path, ""))
}

func TestClearReports(t *testing.T) {
	path := filepath.Join(t.TempDir(), "reports.db")
	store, err := NewReportStore(schema.SQLiteBackend, path)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	require.NoError(t, ClearReports(schema.SQLiteBackend, "", path))
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestCollectStatus(t *testing.T) {
	statements := &MockStatementStore{}
	statements.On("GetStatus").Return(schema.StatementStatus{Backend: "sqlite", Connected: true, TotalRows: 3, Companies: 1, EarliestYear: 2021, LatestYear: 2023}, nil)
	cache := &MockCacheStore{}
	cache.On("GetStatus").Return(schema.CacheStatus{Backend: "sqlite", Connected: true}, nil)

	status, err := CollectStatus(NewCacheStoreManager(statements, cache, nil))
	require.NoError(t, err)
	assert.Equal(t, 3, status.Statements.TotalRows)
	assert.Empty(t, status.Reports.Backend)

	var buf bytes.Buffer
	PrintStoreStatus(&buf, status)
	out := buf.String()
	assert.Contains(t, out, "Statement Backend: sqlite")
	assert.Contains(t, out, "Fiscal Years: 2021 - 2023")
	assert.Contains(t, out, "Cache Backend: sqlite")
	assert.Contains(t, out, "Report Backend: disabled")

	failing := &MockCacheStore{}
	failing.On("GetStatus").Return(schema.CacheStatus{}, errors.New("boom"))
	_, err = CollectStatus(NewCacheStoreManager(nil, failing, nil))
	assert.ErrorContains(t, err, "cache status")
}

func TestExecuteReportExport(t *testing.T) {
	store, err := NewReportStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	start := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	runID, err := store.BeginRun("report", start, map[string]any{"fiscal_year": 2023})
	require.NoError(t, err)
	require.NoError(t, store.RecordCompanyScore(schema.CompanyScoreRecord{
		RunID: runID, TaxID: "97179430", FiscalYear: 2023, OverallScore: 71, Tier: "Good", RecordedAt: start,
	}))
	require.NoError(t, store.EndRun(runID, start.Add(time.Second)))

	out := filepath.Join(t.TempDir(), "export")
	summary, err := ExecuteReportExport(store, out)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.RunCount)
	assert.Equal(t, 1, summary.ScoreCount)
	assert.Equal(t, "sqlite", summary.BackendName)

	scores, err := pq.ReadFile[parquet.CompanyScore](summary.ScoresFile)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "97179430", scores[0].TaxID)

	var buf bytes.Buffer
	PrintExportSummary(&buf, summary)
	assert.Contains(t, buf.String(), "Exported 1 report runs")
}

func TestExecuteReportExport_Errors(t *testing.T) {
	_, err := ExecuteReportExport(&MockReportStore{}, "")
	assert.ErrorContains(t, err, "--output-file")

	_, err = ExecuteReportExport(nil, "out")
	assert.ErrorContains(t, err, "no report store")

	empty := &MockReportStore{}
	empty.On("GetStatus").Return(schema.ReportStatus{Backend: "sqlite", Connected: true}, nil)
	_, err = ExecuteReportExport(empty, "out")
	assert.ErrorContains(t, err, "no report data")
}

func TestManagerServesImportedStatements(t *testing.T) {
	resetGlobals(t)
	path := filepath.Join(t.TempDir(), "statements.db")
	require.NoError(t, InitStores(StoreOptions{SourceBackend: schema.SQLiteBackend, SourceDBConnect: path}))

	store := Manager.GetStatementStore()
	_, err := store.ImportStatements(context.Background(), statementFixture())
	require.NoError(t, err)

	row, err := store.FetchMetricRow(context.Background(), schema.ReturnOnEquity, "24566673", 2023)
	require.NoError(t, err)
	require.NotNil(t, row)
	assert.Equal(t, "Beta Logistics", row.CompanyName)
}
