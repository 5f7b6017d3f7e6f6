package outwriter

import (
	"testing"
	"time"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
	"github.com/stretchr/testify/assert"
)

var generatedAt = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		TaxIDs:        []string{"97179430", "24566673"},
		FiscalYear:    2024,
		Precision:     1,
		Output:        output,
		Width:         120,
		Registry:      schema.DefaultRegistry(),
		SourceBackend: schema.SQLiteBackend,
	}
}

func metric(key schema.MetricKey, dim schema.DimensionKey, name string, weight float64, raw, score *float64) schema.MetricResult {
	return schema.MetricResult{Metric: key, Dimension: dim, DisplayName: name, Weight: weight, RawValue: raw, Score: score}
}

// sampleReport is a trimmed report with one defined, one excluded and one defaulted metric.
func sampleReport() schema.CompanyReport {
	roe := metric(schema.ReturnOnEquity, schema.FinancialDimension, "Return on Equity", 0.5, schema.Float64Ptr(0.12), schema.Float64Ptr(76.4))
	roe.Aux = map[string]float64{"avg_equity": 1000}
	cagr := metric(schema.RevenueCAGR, schema.FutureDimension, "Revenue CAGR", 0.4, nil, nil)
	cagr.Undefined = "fewer than two years of revenue"
	inv := metric(schema.InventoryTurnover, schema.OperationalDimension, "Inventory Turnover", 0.3, schema.Float64Ptr(7.06), schema.Float64Ptr(88.25))

	return schema.CompanyReport{
		ReportID:    "4b7e1c2a-0000-4000-8000-000000000001",
		GeneratedAt: generatedAt,
		Report: schema.CompanyMetricsReport{
			Company: schema.CompanyInfo{TaxID: "97179430", FiscalYear: 2024, Name: "Acme Manufacturing"},
			DimensionScores: map[schema.DimensionKey]float64{
				schema.OperationalDimension: 86.75,
				schema.FinancialDimension:   75.84,
				schema.ESGDimension:         70,
			},
			Dimensions: []schema.DimensionScore{
				{Dimension: schema.OperationalDimension, Score: 86.75, Weight: 0.2, Provenance: schema.ComputedProvenance},
				{Dimension: schema.FinancialDimension, Score: 75.84, Weight: 0.2, Provenance: schema.ComputedProvenance},
				{Dimension: schema.ESGDimension, Score: 70, Weight: 0.15, Provenance: schema.ProvidedProvenance},
			},
			Metrics: map[schema.MetricKey]schema.MetricResult{
				schema.ReturnOnEquity:    roe,
				schema.RevenueCAGR:       cagr,
				schema.InventoryTurnover: inv,
			},
			OverallScore: 70.56,
			Tier:         schema.TierAverage,
		},
		RadarSeries:      []schema.RadarPoint{{Dimension: schema.OperationalDimension, Score: 86.75}},
		ValidationErrors: []schema.ValidationIssue{},
	}
}

func TestOutWriterDelegates(t *testing.T) {
	ow := NewOutWriter()
	cfg := testConfig(schema.ParquetOut)

	// Parquet without a file fails before anything is written to stdout.
	assert.ErrorIs(t, ow.WriteReports([]schema.CompanyReport{sampleReport()}, cfg, time.Second), errParquetNeedsFile)
	assert.ErrorIs(t, ow.WriteComparison(sampleComparison(), cfg, time.Second), errParquetNeedsFile)
	assert.ErrorContains(t, ow.WriteMetrics(nil, cfg), "not supported")
}

func TestGetMaxNameWidth(t *testing.T) {
	tests := []struct {
		name     string
		width    int
		detail   bool
		expected int
	}{
		{"wide terminal is capped", 200, false, 40},
		{"normal terminal", 80, false, 30},
		{"detail reserves room", 100, true, 20},
		{"narrow terminal has a floor", 40, true, 12},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &contract.Config{Width: tt.width, Detail: tt.detail}
			assert.Equal(t, tt.expected, getMaxNameWidth(cfg))
		})
	}
}

func TestBackendLabel(t *testing.T) {
	assert.Equal(t, "sqlite", backendLabel(""))
	assert.Equal(t, "mysql", backendLabel(schema.MySQLBackend))
}
