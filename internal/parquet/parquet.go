// Package parquet provides data structures and functions for exporting finscore
// reports and store contents to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/finscore/schema"
	"github.com/parquet-go/parquet-go"
)

// ReportRun maps to the report_runs database table.
type ReportRun struct {
	RunID string `parquet:"run_id,snappy"`

	// Kind is report or compare
	Kind string `parquet:"kind,snappy"`

	StartTime    time.Time  `parquet:"start_time,snappy"`
	EndTime      *time.Time `parquet:"end_time,optional,snappy"`
	DurationMs   *int32     `parquet:"run_duration_ms,optional,snappy"`
	ConfigParams *string    `parquet:"config_params,optional,snappy"`
}

// CompanyScore maps to the company_scores database table.
type CompanyScore struct {
	RunID            string    `parquet:"run_id,snappy"`
	TaxID            string    `parquet:"tax_id,snappy"`
	FiscalYear       int32     `parquet:"fiscal_year,snappy"`
	CompanyName      string    `parquet:"company_name,snappy"`
	ScoreOperational float64   `parquet:"score_operational,snappy"`
	ScoreFinancial   float64   `parquet:"score_financial,snappy"`
	ScoreFuture      float64   `parquet:"score_future,snappy"`
	ScoreAIDigital   float64   `parquet:"score_ai_digital,snappy"`
	ScoreESG         float64   `parquet:"score_esg,snappy"`
	ScoreInnovation  float64   `parquet:"score_innovation,snappy"`
	OverallScore     float64   `parquet:"overall_score,snappy"`
	Tier             string    `parquet:"tier,snappy"`
	RecordedAt       time.Time `parquet:"recorded_at,snappy"`
}

// MetricRow is one metric of one company report.
type MetricRow struct {
	ReportID    string `parquet:"report_id,snappy"`
	TaxID       string `parquet:"tax_id,snappy"`
	FiscalYear  int32  `parquet:"fiscal_year,snappy"`
	CompanyName string `parquet:"company_name,snappy"`
	Dimension   string `parquet:"dimension,snappy"`
	Metric      string `parquet:"metric,snappy"`

	// RawValue and Score are null when the ratio is undefined
	RawValue *float64 `parquet:"raw_value,optional,snappy"`
	Score    *float64 `parquet:"score,optional,snappy"`

	Weight          float64   `parquet:"weight,snappy"`
	UndefinedReason string    `parquet:"undefined_reason,snappy"`
	DimensionScore  float64   `parquet:"dimension_score,snappy"`
	OverallScore    float64   `parquet:"overall_score,snappy"`
	Tier            string    `parquet:"tier,snappy"`
	GeneratedAt     time.Time `parquet:"generated_at,snappy"`
}

// DeltaRow is one line of a comparison: the overall score, a dimension or a metric.
type DeltaRow struct {
	PrimaryTaxID string  `parquet:"primary_tax_id,snappy"`
	CompareTaxID string  `parquet:"compare_tax_id,snappy"`
	FiscalYear   int32   `parquet:"fiscal_year,snappy"`
	Level        string  `parquet:"level,snappy"`
	Key          string  `parquet:"key,snappy"`
	Primary      float64 `parquet:"primary_score,snappy"`
	Compare      float64 `parquet:"compare_score,snappy"`
	Difference   float64 `parquet:"difference,snappy"`
	Verdict      string  `parquet:"verdict,snappy"`
}

// Write encodes rows to w with a schema inferred from the struct tags of T.
func Write[T any](w io.Writer, data []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(data); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, data); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// ConvertReportRunRecords converts store runs for Parquet export.
func ConvertReportRunRecords(records []schema.ReportRunRecord) []ReportRun {
	result := make([]ReportRun, len(records))
	for i, r := range records {
		result[i] = ReportRun{
			RunID:        r.RunID,
			Kind:         r.Kind,
			StartTime:    r.StartTime,
			EndTime:      r.EndTime,
			DurationMs:   r.DurationMs,
			ConfigParams: r.ConfigParams,
		}
	}
	return result
}

// ConvertCompanyScoreRecords converts store company scores for Parquet export.
func ConvertCompanyScoreRecords(records []schema.CompanyScoreRecord) []CompanyScore {
	result := make([]CompanyScore, len(records))
	for i, r := range records {
		result[i] = CompanyScore(r)
	}
	return result
}

// ConvertCompanyReport flattens a report into one row per metric, in registry order.
func ConvertCompanyReport(r schema.CompanyReport, order []schema.MetricKey) []MetricRow {
	rows := make([]MetricRow, 0, len(order))
	for _, key := range order {
		m, ok := r.Report.Metrics[key]
		if !ok {
			continue
		}
		rows = append(rows, MetricRow{
			ReportID:        r.ReportID,
			TaxID:           r.Report.Company.TaxID,
			FiscalYear:      int32(r.Report.Company.FiscalYear),
			CompanyName:     r.Report.Company.Name,
			Dimension:       string(m.Dimension),
			Metric:          string(m.Metric),
			RawValue:        m.RawValue,
			Score:           m.Score,
			Weight:          m.Weight,
			UndefinedReason: m.Undefined,
			DimensionScore:  r.Report.DimensionScores[m.Dimension],
			OverallScore:    r.Report.OverallScore,
			Tier:            string(r.Report.Tier),
			GeneratedAt:     r.GeneratedAt,
		})
	}
	return rows
}

// ConvertComparison flattens a comparison into the overall delta, then dimension
// deltas in canonical order, then metric deltas in registry order.
func ConvertComparison(c schema.ComparisonResult, order []schema.MetricKey) []DeltaRow {
	base := DeltaRow{
		PrimaryTaxID: c.Primary.Company.TaxID,
		CompareTaxID: c.Compare.Company.TaxID,
		FiscalYear:   int32(c.Primary.Company.FiscalYear),
	}
	row := func(level, key string, d schema.Delta) DeltaRow {
		r := base
		r.Level, r.Key = level, key
		r.Primary, r.Compare, r.Difference, r.Verdict = d.Primary, d.Compare, d.Difference, string(d.Verdict)
		return r
	}

	rows := []DeltaRow{row("overall", "overall", c.Analysis.OverallDelta)}
	for _, dim := range schema.AllDimensions {
		if d, ok := c.Analysis.DimensionDeltas[dim]; ok {
			rows = append(rows, row("dimension", string(dim), d))
		}
	}
	for _, key := range order {
		if d, ok := c.Analysis.MetricDeltas[key]; ok {
			rows = append(rows, row("metric", string(key), d))
		}
	}
	return rows
}
