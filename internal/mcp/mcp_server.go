// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the finscore MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.CacheManager, version string) *server.MCPServer {
	s := server.NewMCPServer(
		"Finscore Sustainability Server",
		version,
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_company_metrics ---
	s.AddTool(mcp.NewTool("get_company_metrics",
		mcp.WithDescription("Score one company-year: every metric, the six dimension scores, the overall score and its tier."),
		mcp.WithString("tax_id", mcp.Description("Numeric tax id of the company."), mcp.Required()),
		mcp.WithNumber("fiscal_year", mcp.Description("Fiscal year to score (defaults to the last closed year).")),
	), h.handleGetCompanyMetrics)

	// --- 2. Tool: compare_companies ---
	s.AddTool(mcp.NewTool("compare_companies",
		mcp.WithDescription("Compare two companies for one fiscal year and return score deltas with improvement recommendations for the primary company."),
		mcp.WithString("primary_tax_id", mcp.Description("Tax id of the company receiving recommendations."), mcp.Required()),
		mcp.WithString("compare_tax_id", mcp.Description("Tax id of the benchmark company."), mcp.Required()),
		mcp.WithNumber("fiscal_year", mcp.Description("Fiscal year to compare.")),
	), h.handleCompareCompanies)

	// --- 3. Tool: generate_company_report ---
	s.AddTool(mcp.NewTool("generate_company_report",
		mcp.WithDescription("Build a full company report with a report id, radar-chart series and validation warnings."),
		mcp.WithString("tax_id", mcp.Description("Numeric tax id of the company."), mcp.Required()),
		mcp.WithNumber("fiscal_year", mcp.Description("Fiscal year to report on.")),
	), h.handleGenerateCompanyReport)

	// --- 4. Tool: get_metric_definitions ---
	s.AddTool(mcp.NewTool("get_metric_definitions",
		mcp.WithDescription("List the metric registry in effect: formulas, scoring policies, weights and tier bands."),
	), h.handleGetMetricDefinitions)

	return s
}

// StartMCPServer starts the finscore MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.CacheManager, version string) error {
	s := NewMCPServer(baseCfg, mgr, version)
	return server.ServeStdio(s)
}
