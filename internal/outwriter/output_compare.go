package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/huangsam/finscore/core/algo"
	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/internal/parquet"
	"github.com/huangsam/finscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// comparisonCSVHeader matches the fields of a flattened delta row.
var comparisonCSVHeader = []string{
	"primary_tax_id",
	"compare_tax_id",
	"fiscal_year",
	"level",
	"key",
	"primary_score",
	"compare_score",
	"difference",
	"verdict",
}

// PrintComparisonResult writes a comparison to the configured output.
func PrintComparisonResult(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, result)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVComparison(w, result, cfg)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return writeParquet(cfg.OutputFile, parquet.ConvertComparison(result, metricOrder(cfg.Registry)))
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeComparisonTable(w, result, cfg, duration)
		}, "Wrote text")
	}
}

// writeCSVComparison writes the overall, dimension and metric deltas as CSV lines.
func writeCSVComparison(w io.Writer, result schema.ComparisonResult, cfg *contract.Config) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	return writeCSVWithHeader(w, comparisonCSVHeader, func(cw *csv.Writer) error {
		for _, r := range parquet.ConvertComparison(result, metricOrder(cfg.Registry)) {
			row := []string{
				r.PrimaryTaxID,
				r.CompareTaxID,
				strconv.Itoa(int(r.FiscalYear)),
				r.Level,
				r.Key,
				fmtFloat(r.Primary),
				fmtFloat(r.Compare),
				fmtFloat(r.Difference),
				r.Verdict,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// writeComparisonTable renders the deltas as a table followed by the recommendations.
func writeComparisonTable(w io.Writer, result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat, _ := createFormatters(cfg.Precision)
	primary, compare := result.Primary.Company, result.Compare.Company
	if _, err := fmt.Fprintf(w, "🏢 %s (%s) vs %s (%s) FY%d\n",
		primary.Name, primary.TaxID, compare.Name, compare.TaxID, primary.FiscalYear); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Item", "Level", "Primary", "Compare", "Delta", "Verdict"})
	table.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignRight
	})

	var red, green, yellow func(...any) string
	if cfg.UseColors {
		red = color.New(color.FgRed).SprintFunc()
		green = color.New(color.FgGreen).SprintFunc()
		yellow = color.New(color.FgYellow).SprintFunc()
	} else {
		red = fmt.Sprint
		green = fmt.Sprint
		yellow = fmt.Sprint
	}
	fmtDelta := func(d float64) string {
		switch {
		case d > 0:
			return green(fmt.Sprintf("+%s ▲", fmtFloat(d)))
		case d < 0:
			return red(fmt.Sprintf("%s ▼", fmtFloat(d)))
		default:
			return yellow(fmtFloat(0))
		}
	}
	fmtVerdict := func(v schema.Verdict) string {
		if cfg.UseColors {
			return contract.ColorVerdict(v)
		}
		return string(v)
	}

	nameWidth := getMaxNameWidth(cfg)
	row := func(name, level string, d schema.Delta) []string {
		return []string{
			contract.TruncateName(name, nameWidth),
			level,
			fmtFloat(d.Primary),
			fmtFloat(d.Compare),
			fmtDelta(d.Difference),
			fmtVerdict(d.Verdict),
		}
	}

	a := result.Analysis
	data := [][]string{row("Overall", "overall", a.OverallDelta)}
	for _, dim := range schema.AllDimensions {
		if d, ok := a.DimensionDeltas[dim]; ok {
			data = append(data, row(dim.DisplayName(), "dimension", d))
		}
	}
	for _, key := range metricOrder(cfg.Registry) {
		if d, ok := a.MetricDeltas[key]; ok {
			data = append(data, row(metricName(cfg.Registry, key), "metric", d))
		}
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if cfg.Detail {
		if err := writeLargestGaps(w, a.MetricDeltas, cfg, fmtFloat); err != nil {
			return err
		}
	}
	if err := writeRecommendations(w, a.Recommendations, cfg); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Comparison completed in %v. Source backend: %s\n", duration, backendLabel(cfg.SourceBackend))
	return err
}

// largestGapCount caps the detail listing of metric shortfalls.
const largestGapCount = 3

// writeLargestGaps lists the metrics where the primary company trails the most.
func writeLargestGaps(w io.Writer, deltas map[schema.MetricKey]schema.Delta, cfg *contract.Config, fmtFloat func(float64) string) error {
	var gaps []algo.RankedDelta[schema.MetricKey]
	for _, g := range algo.RankGaps(deltas, largestGapCount) {
		if g.Delta.Difference < 0 {
			gaps = append(gaps, g)
		}
	}
	if len(gaps) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "📉 Largest gaps"); err != nil {
		return err
	}
	for i, g := range gaps {
		if _, err := fmt.Fprintf(w, "  %d. %s %s\n", i+1, metricName(cfg.Registry, g.Key), fmtFloat(g.Delta.Difference)); err != nil {
			return err
		}
	}
	return nil
}

func writeRecommendations(w io.Writer, recs []schema.Recommendation, cfg *contract.Config) error {
	if len(recs) == 0 {
		_, err := fmt.Fprintln(w, "✅ No recommendations: the primary company is not behind on any threshold")
		return err
	}
	if _, err := fmt.Fprintf(w, "💡 Recommendations (%d)\n", len(recs)); err != nil {
		return err
	}
	for _, r := range recs {
		priority := string(r.Priority)
		if cfg.UseColors {
			priority = contract.ColorPriority(r.Priority)
		}
		if _, err := fmt.Fprintf(w, "  [%s] %s\n", priority, r.Message); err != nil {
			return err
		}
	}
	return nil
}
