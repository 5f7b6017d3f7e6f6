package cmd

import (
	"github.com/huangsam/finscore/core"
	"github.com/huangsam/finscore/internal/contract"
	"github.com/spf13/cobra"
)

// metricsCmd displays the metric registry in effect.
var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Display metric formulas, scoring policies and weights",
	Long: `Show the metric registry used for scoring.

Provides complete transparency into how companies are scored, including:
- Ratio formula of each metric
- Scoring policy that maps the ratio to 0-100
- Metric and dimension weights
- Custom weights if configured via .finscore.yaml
- Tier bands of the overall score

No statements are read - this is purely informational.

Examples:
  # Show default definitions
  finscore metrics

  # View with custom weights from config file
  finscore metrics --config .finscore.yaml --output json`,
	PreRunE: configSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteMetrics(rootCtx, cfg, cacheManager); err != nil {
			contract.LogFatal("Cannot display metrics", err)
		}
	},
}
