package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/internal/parquet"
)

// ExportSummary reports what ExecuteReportExport wrote.
type ExportSummary struct {
	RunsFile    string
	ScoresFile  string
	RunCount    int
	ScoreCount  int
	BackendName string
}

// ExecuteReportExport exports the report store to two Parquet files named
// after outputFile.
func ExecuteReportExport(store contract.ReportStore, outputFile string) (ExportSummary, error) {
	var summary ExportSummary
	if outputFile == "" {
		return summary, errors.New("--output-file is required for export command")
	}
	if store == nil {
		return summary, errors.New("no report store configured. Set --report-backend")
	}

	status, err := store.GetStatus()
	if err != nil {
		return summary, fmt.Errorf("failed to get report status: %w", err)
	}
	if status.TotalRuns == 0 {
		return summary, errors.New("no report data found to export")
	}
	summary.BackendName = status.Backend

	runs, err := store.GetAllRuns()
	if err != nil {
		return summary, fmt.Errorf("failed to retrieve report runs: %w", err)
	}
	scores, err := store.GetAllCompanyScores()
	if err != nil {
		return summary, fmt.Errorf("failed to retrieve company scores: %w", err)
	}

	summary.RunsFile = outputFile + ".report_runs.parquet"
	if err := parquet.WriteFile(parquet.ConvertReportRunRecords(runs), summary.RunsFile); err != nil {
		return summary, fmt.Errorf("failed to write report runs: %w", err)
	}
	summary.RunCount = len(runs)

	summary.ScoresFile = outputFile + ".company_scores.parquet"
	if err := parquet.WriteFile(parquet.ConvertCompanyScoreRecords(scores), summary.ScoresFile); err != nil {
		return summary, fmt.Errorf("failed to write company scores: %w", err)
	}
	summary.ScoreCount = len(scores)
	return summary, nil
}

// PrintExportSummary prints the outcome of an export.
func PrintExportSummary(w io.Writer, s ExportSummary) {
	_, _ = fmt.Fprintf(w, "Exported data from %s backend.\n", s.BackendName)
	_, _ = fmt.Fprintf(w, "Exported %d report runs to: %s\n", s.RunCount, s.RunsFile)
	_, _ = fmt.Fprintf(w, "Exported %d company score records to: %s\n", s.ScoreCount, s.ScoresFile)
	_, _ = fmt.Fprintln(w, "\nThe Parquet files can be read with DuckDB, Pandas (via pyarrow), Spark or Arrow.")
}
