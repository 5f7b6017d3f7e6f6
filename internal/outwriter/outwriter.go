// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteReports prints company reports using the configured output format.
func (ow *OutWriter) WriteReports(reports []schema.CompanyReport, cfg *contract.Config, duration time.Duration) error {
	return PrintCompanyReports(reports, cfg, duration)
}

// WriteComparison prints a two-company comparison using the configured output format.
func (ow *OutWriter) WriteComparison(result schema.ComparisonResult, cfg *contract.Config, duration time.Duration) error {
	return PrintComparisonResult(result, cfg, duration)
}

// WriteMetrics prints the metric registry using the configured output format.
func (ow *OutWriter) WriteMetrics(reg *schema.Registry, cfg *contract.Config) error {
	return PrintMetricsDefinitions(reg, cfg)
}

// LogReportHeader prints a concise, 2-line header before scoring.
func LogReportHeader(cfg *contract.Config) {
	fmt.Printf("🔎 Companies: %s (FY%d)\n", strings.Join(cfg.TaxIDs, ", "), cfg.FiscalYear)
	fmt.Printf("🗄️  Source: %s\n", backendLabel(cfg.SourceBackend))
}

// LogCompareHeader prints a header for comparison analysis.
func LogCompareHeader(cfg *contract.Config) {
	primary, compare := "?", "?"
	if len(cfg.TaxIDs) > 0 {
		primary = cfg.TaxIDs[0]
	}
	if len(cfg.TaxIDs) > 1 {
		compare = cfg.TaxIDs[1]
	}
	fmt.Printf("📊 Comparing: %s ↔ %s (FY%d)\n", primary, compare, cfg.FiscalYear)
	fmt.Printf("🗄️  Source: %s\n", backendLabel(cfg.SourceBackend))
}

func backendLabel(b schema.DatabaseBackend) string {
	if b == "" {
		return string(schema.SQLiteBackend)
	}
	return string(b)
}

// getMaxNameWidth calculates the maximum width for metric and dimension names in
// table output based on terminal width and table configuration.
func getMaxNameWidth(cfg *contract.Config) int {
	termWidth := cfg.Width
	if termWidth == 0 {
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			termWidth = 80 // conservative default for CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Dimension + Raw + Score + Weight with borders/padding
	baseWidth := 50
	if cfg.Detail {
		baseWidth += 30 // note column
	}

	available := termWidth - baseWidth
	if available < 12 {
		return 12
	}
	if available > 40 {
		return 40
	}
	return available
}
