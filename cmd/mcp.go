package cmd

import (
	"github.com/huangsam/finscore/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the finscore MCP server",
	Long: `Launch an MCP server on stdio that lets AI agents score and compare companies
through the get_company_metrics, compare_companies, generate_company_report
and get_metric_definitions tools.`,
	PreRunE: sharedSetupWrapper,
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg, cacheManager, version)
	},
}
