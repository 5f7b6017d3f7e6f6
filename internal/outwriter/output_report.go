package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/internal/parquet"
	"github.com/huangsam/finscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// reportCSVHeader lists one column per field of a flattened metric row.
var reportCSVHeader = []string{
	"report_id",
	"tax_id",
	"fiscal_year",
	"company_name",
	"dimension",
	"metric",
	"raw_value",
	"score",
	"weight",
	"undefined_reason",
	"dimension_score",
	"overall_score",
	"tier",
}

// PrintCompanyReports writes company reports to the configured output.
func PrintCompanyReports(reports []schema.CompanyReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, reports)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVReports(w, reports, cfg)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquet(cfg.OutputFile, flattenReports(reports, cfg.Registry))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportTables(w, reports, cfg, duration)
		}, "Wrote text")
	}
}

func flattenReports(reports []schema.CompanyReport, reg *schema.Registry) []parquet.MetricRow {
	order := metricOrder(reg)
	var rows []parquet.MetricRow
	for _, r := range reports {
		rows = append(rows, parquet.ConvertCompanyReport(r, order)...)
	}
	return rows
}

// writeCSVReports writes one CSV line per metric per report.
func writeCSVReports(w io.Writer, reports []schema.CompanyReport, cfg *contract.Config) error {
	fmtFloat, fmtRatio := createFormatters(cfg.Precision)
	return writeCSVWithHeader(w, reportCSVHeader, func(cw *csv.Writer) error {
		for _, r := range flattenReports(reports, cfg.Registry) {
			row := []string{
				r.ReportID,
				r.TaxID,
				strconv.Itoa(int(r.FiscalYear)),
				r.CompanyName,
				r.Dimension,
				r.Metric,
				fmtRatio(r.RawValue),
				fmtScore(fmtFloat, r.Score, ""),
				strconv.FormatFloat(r.Weight, 'f', -1, 64),
				r.UndefinedReason,
				fmtFloat(r.DimensionScore),
				fmtFloat(r.OverallScore),
				r.Tier,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeReportTables renders each report as a metric table and a dimension table.
func writeReportTables(w io.Writer, reports []schema.CompanyReport, cfg *contract.Config, duration time.Duration) error {
	for _, r := range reports {
		if err := writeReportTable(w, r, cfg); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Scored %d companies in %v. Source backend: %s\n", len(reports), duration, backendLabel(cfg.SourceBackend))
	return err
}

func writeReportTable(w io.Writer, r schema.CompanyReport, cfg *contract.Config) error {
	fmtFloat, fmtRatio := createFormatters(cfg.Precision)
	company := r.Report.Company
	if _, err := fmt.Fprintf(w, "🏢 %s (%s) FY%d\n", company.Name, company.TaxID, company.FiscalYear); err != nil {
		return err
	}

	nameWidth := getMaxNameWidth(cfg)
	metrics := tablewriter.NewWriter(w)
	headers := []string{"Metric", "Dimension", "Raw", "Score", "Weight"}
	if cfg.Detail {
		headers = append(headers, "Note")
	}
	metrics.Header(headers)
	metrics.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, key := range metricOrder(cfg.Registry) {
		m, ok := r.Report.Metrics[key]
		if !ok {
			continue
		}
		raw := fmtRatio(m.RawValue)
		if raw == "" {
			raw = "n/a"
		}
		row := []string{
			contract.TruncateName(m.DisplayName, nameWidth),
			string(m.Dimension),
			raw,
			fmtScore(fmtFloat, m.Score, "excluded"),
			fmtFloat(m.Weight),
		}
		if cfg.Detail {
			row = append(row, metricNote(m))
		}
		data = append(data, row)
	}
	if err := metrics.Bulk(data); err != nil {
		return err
	}
	if err := metrics.Render(); err != nil {
		return err
	}

	dims := tablewriter.NewWriter(w)
	dims.Header([]string{"Dimension", "Score", "Weight", "Source", "Label"})
	dims.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})
	data = data[:0]
	for _, d := range r.Report.Dimensions {
		label := contract.GetPlainLabel(d.Score)
		if cfg.UseColors {
			label = contract.GetColorLabel(d.Score)
		}
		data = append(data, []string{
			contract.TruncateName(d.Dimension.DisplayName(), nameWidth),
			fmtFloat(d.Score),
			fmtFloat(d.Weight),
			string(d.Provenance),
			label,
		})
	}
	if err := dims.Bulk(data); err != nil {
		return err
	}
	if err := dims.Render(); err != nil {
		return err
	}

	tier := string(r.Report.Tier)
	if cfg.UseColors {
		tier = contract.ColorTier(r.Report.Tier)
	}
	if _, err := fmt.Fprintf(w, "Overall: %s (%s)\n", fmtFloat(r.Report.OverallScore), tier); err != nil {
		return err
	}
	for _, issue := range r.ValidationErrors {
		if _, err := fmt.Fprintf(w, "⚠️  %s\n", issue.Message); err != nil {
			return err
		}
	}
	if cfg.Detail {
		if _, err := fmt.Fprintf(w, "Report %s generated at %s\n", r.ReportID, r.GeneratedAt.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// fmtScore formats an optional score, using missing when it is nil.
func fmtScore(fmtFloat func(float64) string, score *float64, missing string) string {
	if score == nil {
		return missing
	}
	return fmtFloat(*score)
}

// metricNote explains an undefined ratio or lists the intermediates of a defined one.
func metricNote(m schema.MetricResult) string {
	if m.Undefined != "" {
		return m.Undefined
	}
	keys := make([]string, 0, len(m.Aux))
	for k := range m.Aux {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + strconv.FormatFloat(m.Aux[k], 'f', -1, 64)
	}
	return strings.Join(parts, " ")
}
