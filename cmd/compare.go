package cmd

import (
	"github.com/huangsam/finscore/core"
	"github.com/huangsam/finscore/internal/contract"
	"github.com/spf13/cobra"
)

// compareCmd benchmarks one company against another.
var compareCmd = &cobra.Command{
	Use:   "compare <primary-tax-id> <compare-tax-id>",
	Short: "Compare two companies and recommend improvements",
	Long: `Compare the primary company against a benchmark company for one fiscal year.

The comparison shows the overall, dimension and metric score deltas
(primary minus compare) with a verdict for each, followed by
recommendations wherever the primary company trails past a threshold.

Thresholds default to -10 (overall), -5 (dimension) and -10 (metric)
and can be changed in the thresholds section of .finscore.yaml.

Examples:
  # Compare a company against a peer
  finscore compare 24566673 97179430

  # Compare for a specific year and export deltas as CSV
  finscore compare 24566673 97179430 --year 2023 --output csv --output-file deltas.csv`,
	Args:    cobra.ExactArgs(2),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteCompare(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot run comparison", err)
		}
	},
}
