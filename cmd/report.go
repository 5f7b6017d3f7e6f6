package cmd

import (
	"github.com/huangsam/finscore/core"
	"github.com/huangsam/finscore/internal/contract"
	"github.com/spf13/cobra"
)

// reportCmd scores one or more companies.
var reportCmd = &cobra.Command{
	Use:   "report <tax-id> [tax-id...]",
	Short: "Score companies for one fiscal year",
	Long: `Score each company from its financial statements.

For every company the report shows:
- Seven metric ratios and their 0-100 scores
- Six dimension scores (three computed, three provided)
- The weighted overall score and its tier

Statements are read from the statement store and cached per metric family.

Examples:
  # Score one company for the last closed fiscal year
  finscore report 97179430

  # Score two companies for 2023 with ratio details
  finscore report 97179430 24566673 --year 2023 --detail

  # Export metric rows to Parquet
  finscore report 97179430 --output parquet --output-file report.parquet`,
	Args:    cobra.MinimumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteReport(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot build report", err)
		}
	},
}
