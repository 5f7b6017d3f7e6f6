package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/internal/iocache"
	"github.com/huangsam/finscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testConfig() *contract.Config {
	return &contract.Config{
		TaxIDs:     []string{strongTaxID, weakTaxID},
		FiscalYear: 2024,
		Registry:   schema.DefaultRegistry(),
		Thresholds: schema.DefaultRecommendationThresholds(),
		Output:     schema.JSONOut,
	}
}

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	assert.False(t, shouldSuppressHeader(ctx))
	assert.True(t, shouldSuppressHeader(withSuppressHeader(ctx)))

	_, ok := getRunID(ctx)
	assert.False(t, ok)
	_, ok = getRunID(withRunID(ctx, ""))
	assert.False(t, ok)
	runID, ok := getRunID(withRunID(ctx, "run-7"))
	assert.True(t, ok)
	assert.Equal(t, "run-7", runID)
}

func TestNewProcessorFromConfig(t *testing.T) {
	cfg := testConfig()

	empty := &iocache.MockCacheManager{}
	empty.On("GetStatementStore").Return(nil)
	_, err := NewProcessorFromConfig(cfg, empty)
	assert.Error(t, err)

	statements := &iocache.MockStatementStore{}
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetStatementStore").Return(statements)
	mgr.On("GetCacheStore").Return(nil)
	p, err := NewProcessorFromConfig(cfg, mgr)
	require.NoError(t, err)
	assert.Same(t, statements, p.source, "no cache store means no decorator")
}

func TestBeginRun(t *testing.T) {
	cfg := testConfig()

	reports := &iocache.MockReportStore{}
	reports.On("BeginRun", compareRunKind, mock.AnythingOfType("time.Time"), mock.MatchedBy(func(params map[string]any) bool {
		return params["fiscal_year"] == 2024 && params["tax_ids"] != nil && params["thresholds"] != nil
	})).Return("run-1", nil)
	reports.On("EndRun", "run-1", mock.AnythingOfType("time.Time")).Return(nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetReportStore").Return(reports)

	ctx, finish := beginRun(context.Background(), cfg, mgr, compareRunKind)
	runID, ok := getRunID(ctx)
	assert.True(t, ok)
	assert.Equal(t, "run-1", runID)
	finish()
	reports.AssertExpectations(t)
}

func TestBeginRun_NoStore(t *testing.T) {
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetReportStore").Return(nil)

	ctx, finish := beginRun(context.Background(), testConfig(), mgr, reportRunKind)
	_, ok := getRunID(ctx)
	assert.False(t, ok)
	finish()
}

func TestBeginRun_FailureIsNotFatal(t *testing.T) {
	reports := &iocache.MockReportStore{}
	reports.On("BeginRun", reportRunKind, mock.Anything, mock.Anything).Return("", errors.New("db down"))
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetReportStore").Return(reports)

	ctx, finish := beginRun(context.Background(), testConfig(), mgr, reportRunKind)
	_, ok := getRunID(ctx)
	assert.False(t, ok)
	finish()
	reports.AssertNotCalled(t, "EndRun", mock.Anything, mock.Anything)
}

func TestRecordReport(t *testing.T) {
	p := newTestProcessor(t, newMemorySource())
	report, err := p.ProcessCompanyMetrics(context.Background(), strongTaxID, 2024)
	require.NoError(t, err)

	reports := &iocache.MockReportStore{}
	reports.On("RecordCompanyScore", mock.MatchedBy(func(r schema.CompanyScoreRecord) bool {
		return r.RunID == "run-9" && r.TaxID == strongTaxID && r.FiscalYear == 2024 &&
			r.CompanyName == "Acme Manufacturing" && r.Tier == string(schema.TierAverage) &&
			r.ScoreESG == 70 && !r.RecordedAt.IsZero()
	})).Return(nil).Once()
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetReportStore").Return(reports)

	// no run id, nothing recorded
	recordReport(context.Background(), mgr, *report)
	recordReport(withRunID(context.Background(), "run-9"), mgr, *report)
	reports.AssertExpectations(t)
}

func TestExecuteCompare_Validation(t *testing.T) {
	mgr := &iocache.MockCacheManager{}
	cfg := testConfig()

	cfg.TaxIDs = []string{strongTaxID}
	assert.ErrorContains(t, ExecuteCompare(context.Background(), cfg, mgr), "exactly two")

	cfg.TaxIDs = []string{strongTaxID, strongTaxID}
	assert.ErrorContains(t, ExecuteCompare(context.Background(), cfg, mgr), "with itself")
}

func TestExecuteReport_Validation(t *testing.T) {
	cfg := testConfig()
	cfg.TaxIDs = nil
	assert.Error(t, ExecuteReport(context.Background(), cfg, &iocache.MockCacheManager{}))

	mgr := &iocache.MockCacheManager{}
	mgr.On("GetStatementStore").Return(nil)
	assert.ErrorContains(t, ExecuteReport(context.Background(), testConfig(), mgr), "no statement store")
}

func TestExecuteReport_NotFound(t *testing.T) {
	statements := &iocache.MockStatementStore{}
	statements.On("FetchMetricRow", mock.Anything, mock.Anything, mock.Anything, 2024).Return(nil, nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetStatementStore").Return(statements)
	mgr.On("GetCacheStore").Return(nil)
	mgr.On("GetReportStore").Return(nil)

	err := ExecuteReport(context.Background(), testConfig(), mgr)
	assert.ErrorIs(t, err, ErrCompanyNotFound)
}

func TestRunTrackingTimes(t *testing.T) {
	reports := &iocache.MockReportStore{}
	var began, ended time.Time
	reports.On("BeginRun", reportRunKind, mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		began = args.Get(1).(time.Time)
	}).Return("run-2", nil)
	reports.On("EndRun", "run-2", mock.Anything).Run(func(args mock.Arguments) {
		ended = args.Get(1).(time.Time)
	}).Return(nil)
	mgr := &iocache.MockCacheManager{}
	mgr.On("GetReportStore").Return(reports)

	_, finish := beginRun(context.Background(), testConfig(), mgr, reportRunKind)
	finish()
	assert.False(t, ended.Before(began))
}
