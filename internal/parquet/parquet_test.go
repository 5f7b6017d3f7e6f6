package parquet

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/finscore/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{"report runs", new(ReportRun), []string{"run_id", "kind", "start_time", "end_time", "run_duration_ms", "config_params"}},
		{"company scores", new(CompanyScore), []string{"run_id", "tax_id", "fiscal_year", "score_ai_digital", "overall_score", "tier", "recorded_at"}},
		{"metric rows", new(MetricRow), []string{"report_id", "metric", "raw_value", "score", "undefined_reason", "dimension_score"}},
		{"delta rows", new(DeltaRow), []string{"primary_tax_id", "compare_tax_id", "level", "key", "difference", "verdict"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			for _, col := range tt.columns {
				_, ok := s.Lookup(col)
				assert.True(t, ok, "column %s should exist", col)
			}
		})
	}
}

func TestWriteFileRoundTrip(t *testing.T) {
	end := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	duration := int32(1500)
	params := `{"fiscal_year":2024}`
	runs := []ReportRun{
		{RunID: "a", Kind: "report", StartTime: end.Add(-time.Second), EndTime: &end, DurationMs: &duration, ConfigParams: &params},
		{RunID: "b", Kind: "compare", StartTime: end},
	}

	path := filepath.Join(t.TempDir(), "runs.parquet")
	require.NoError(t, WriteFile(runs, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	got, err := parquet.ReadFile[ReportRun](path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].RunID)
	require.NotNil(t, got[0].DurationMs)
	assert.Equal(t, int32(1500), *got[0].DurationMs)
	assert.Nil(t, got[1].EndTime)
	assert.Nil(t, got[1].ConfigParams)
}

func TestWriteFileBadPath(t *testing.T) {
	err := WriteFile([]ReportRun{}, filepath.Join(t.TempDir(), "missing", "runs.parquet"))
	assert.ErrorContains(t, err, "failed to create output file")
}

func TestConvertCompanyScoreRecords(t *testing.T) {
	at := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	recs := []schema.CompanyScoreRecord{{RunID: "r", TaxID: "97179430", FiscalYear: 2024, OverallScore: 71.5, Tier: "Average", RecordedAt: at}}
	got := ConvertCompanyScoreRecords(recs)
	require.Len(t, got, 1)
	assert.Equal(t, "97179430", got[0].TaxID)
	assert.Equal(t, 71.5, got[0].OverallScore)
	assert.Equal(t, at, got[0].RecordedAt)

	runs := ConvertReportRunRecords([]schema.ReportRunRecord{{RunID: "r", Kind: "compare"}})
	assert.Equal(t, "compare", runs[0].Kind)
}

func TestConvertCompanyReport(t *testing.T) {
	score := 81.03
	report := schema.CompanyReport{
		ReportID: "id-1",
		Report: schema.CompanyMetricsReport{
			Company:         schema.CompanyInfo{TaxID: "97179430", FiscalYear: 2024, Name: "Acme"},
			DimensionScores: map[schema.DimensionKey]float64{schema.FinancialDimension: 60},
			Metrics: map[schema.MetricKey]schema.MetricResult{
				schema.ReturnOnEquity: {Metric: schema.ReturnOnEquity, Dimension: schema.FinancialDimension, RawValue: schema.Float64Ptr(0.12), Score: &score},
				schema.RevenueCAGR:    {Metric: schema.RevenueCAGR, Dimension: schema.FutureDimension, Undefined: "short_history"},
			},
			OverallScore: 65,
			Tier:         schema.TierAverage,
		},
	}
	rows := ConvertCompanyReport(report, []schema.MetricKey{schema.InventoryTurnover, schema.ReturnOnEquity, schema.RevenueCAGR})
	require.Len(t, rows, 2)
	assert.Equal(t, "roe", rows[0].Metric)
	assert.Equal(t, 60.0, rows[0].DimensionScore)
	assert.Nil(t, rows[1].Score)
	assert.Equal(t, "short_history", rows[1].UndefinedReason)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))
	assert.NotZero(t, buf.Len())
}

func TestConvertComparison(t *testing.T) {
	c := schema.ComparisonResult{
		Primary: schema.CompanyMetricsReport{Company: schema.CompanyInfo{TaxID: "1", FiscalYear: 2024}},
		Compare: schema.CompanyMetricsReport{Company: schema.CompanyInfo{TaxID: "2", FiscalYear: 2024}},
		Analysis: schema.ComparisonAnalysis{
			OverallDelta: schema.Delta{Primary: 60, Compare: 70, Difference: -10, Verdict: schema.Underperforms},
			DimensionDeltas: map[schema.DimensionKey]schema.Delta{
				schema.ESGDimension:         {Verdict: schema.Parity},
				schema.OperationalDimension: {Difference: 3, Verdict: schema.Outperforms},
			},
			MetricDeltas: map[schema.MetricKey]schema.Delta{schema.CurrentRatio: {Difference: -12}},
		},
	}
	rows := ConvertComparison(c, schema.AllMetrics)
	require.Len(t, rows, 4)
	assert.Equal(t, "overall", rows[0].Level)
	assert.Equal(t, "operational", rows[1].Key)
	assert.Equal(t, "esg", rows[2].Key)
	assert.Equal(t, "metric", rows[3].Level)
	assert.Equal(t, "2", rows[3].CompareTaxID)
}
