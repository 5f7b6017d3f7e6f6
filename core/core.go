// Package core has core logic for scoring, comparison and recommendations.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/internal/outwriter"
	"github.com/huangsam/finscore/schema"
)

// ExecutorFunc defines the function signature for executing the different commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// Report run kinds recorded in the report store.
const (
	reportRunKind  = "report"
	compareRunKind = "compare"
)

// NewProcessorFromConfig builds a processor reading statements through the cache.
func NewProcessorFromConfig(cfg *contract.Config, mgr contract.CacheManager) (*Processor, error) {
	statements := mgr.GetStatementStore()
	if statements == nil {
		return nil, errors.New("no statement store configured")
	}
	source := NewCachedSource(statements, mgr.GetCacheStore())
	return NewProcessor(cfg.Registry, source,
		WithPlaceholders(cfg.Placeholders),
		WithThresholds(cfg.Thresholds),
	)
}

// ExecuteReport scores every configured company and prints one report per company.
// It serves as the main entry point for the 'report' command.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	if len(cfg.TaxIDs) == 0 {
		return errors.New("at least one tax id is required")
	}
	proc, err := NewProcessorFromConfig(cfg, mgr)
	if err != nil {
		return err
	}
	if cfg.Output != schema.TextOut {
		ctx = withSuppressHeader(ctx)
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogReportHeader(cfg)
	}

	ctx, finish := beginRun(ctx, cfg, mgr, reportRunKind)
	defer finish()

	reports := make([]schema.CompanyReport, 0, len(cfg.TaxIDs))
	for _, taxID := range cfg.TaxIDs {
		report, err := proc.GenerateCompanyReport(ctx, taxID, cfg.FiscalYear)
		if err != nil {
			return err
		}
		for _, issue := range report.ValidationErrors {
			contract.LogWarn("Score validation", errors.New(issue.Message))
		}
		recordReport(ctx, mgr, report.Report)
		reports = append(reports, *report)
	}
	return outwriter.NewOutWriter().WriteReports(reports, cfg, time.Since(start))
}

// ExecuteCompare scores the two configured companies and prints their comparison.
// The first tax id is the primary company.
func ExecuteCompare(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	if len(cfg.TaxIDs) != 2 {
		return fmt.Errorf("compare needs exactly two tax ids, got %d", len(cfg.TaxIDs))
	}
	if cfg.TaxIDs[0] == cfg.TaxIDs[1] {
		return fmt.Errorf("cannot compare %s with itself", cfg.TaxIDs[0])
	}
	proc, err := NewProcessorFromConfig(cfg, mgr)
	if err != nil {
		return err
	}
	if cfg.Output != schema.TextOut {
		ctx = withSuppressHeader(ctx)
	}
	if !shouldSuppressHeader(ctx) {
		outwriter.LogCompareHeader(cfg)
	}

	ctx, finish := beginRun(ctx, cfg, mgr, compareRunKind)
	defer finish()

	result, err := proc.ProcessComparisonData(ctx, cfg.TaxIDs[0], cfg.TaxIDs[1], cfg.FiscalYear)
	if err != nil {
		return err
	}
	recordReport(ctx, mgr, result.Primary)
	recordReport(ctx, mgr, result.Compare)
	return outwriter.NewOutWriter().WriteComparison(*result, cfg, time.Since(start))
}

// ExecuteMetrics displays the metric registry in effect.
// This is a static display that does not read any statements.
func ExecuteMetrics(_ context.Context, cfg *contract.Config, _ contract.CacheManager) error {
	return outwriter.NewOutWriter().WriteMetrics(cfg.Registry, cfg)
}

// beginRun opens a report-store run when one is configured. The returned function
// closes it. Tracking failures are logged and never fail the command.
func beginRun(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, kind string) (context.Context, func()) {
	store := mgr.GetReportStore()
	if store == nil {
		return ctx, func() {}
	}
	configParams := map[string]any{
		"tax_ids":     cfg.TaxIDs,
		"fiscal_year": cfg.FiscalYear,
		"weights":     cfg.Registry.DimensionWeights(),
		"thresholds":  cfg.Thresholds,
	}
	runID, err := store.BeginRun(kind, time.Now(), configParams)
	if err != nil {
		contract.LogWarn("Report tracking initialization failed", err)
		return ctx, func() {}
	}
	return withRunID(ctx, runID), func() {
		if err := store.EndRun(runID, time.Now()); err != nil {
			contract.LogWarn("Failed to finalize report tracking", err)
		}
	}
}

// recordReport stores a company's scores under the run id in ctx.
func recordReport(ctx context.Context, mgr contract.CacheManager, report schema.CompanyMetricsReport) {
	runID, ok := getRunID(ctx)
	if !ok {
		return
	}
	store := mgr.GetReportStore()
	if store == nil {
		return
	}
	record := schema.NewCompanyScoreRecord(runID, report, time.Now())
	if err := store.RecordCompanyScore(record); err != nil {
		contract.LogWarn("Failed to record company scores", err)
	}
}
