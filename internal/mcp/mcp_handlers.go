package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/huangsam/finscore/core"
	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.CacheManager
}

// companyRequest is the validated input of the single-company tools.
type companyRequest struct {
	TaxID      string `validate:"required,numeric,min=6,max=20"`
	FiscalYear int    `validate:"gte=1900,lte=2200"`
}

// compareRequest is the validated input of compare_companies.
type compareRequest struct {
	PrimaryTaxID string `validate:"required,numeric,min=6,max=20"`
	CompareTaxID string `validate:"required,numeric,min=6,max=20,nefield=PrimaryTaxID"`
	FiscalYear   int    `validate:"gte=1900,lte=2200"`
}

func (h *toolHandler) fiscalYear(request mcp.CallToolRequest) int {
	fallback := h.baseCfg.FiscalYear
	if fallback == 0 {
		fallback = contract.DefaultFiscalYear()
	}
	return request.GetInt("fiscal_year", fallback)
}

func (h *toolHandler) companyRequest(request mcp.CallToolRequest) (companyRequest, error) {
	req := companyRequest{
		TaxID:      request.GetString("tax_id", ""),
		FiscalYear: h.fiscalYear(request),
	}
	return req, contract.ValidateStruct(req)
}

func (h *toolHandler) processor() (*core.Processor, error) {
	if h.mgr == nil {
		return nil, errors.New("no statement store configured")
	}
	return core.NewProcessorFromConfig(h.baseCfg, h.mgr)
}

// resultJSON renders v as indented JSON text content.
func resultJSON(v any) (*mcp.CallToolResult, error) {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetCompanyMetrics(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := h.companyRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	proc, err := h.processor()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := proc.ProcessCompanyMetrics(ctx, req.TaxID, req.FiscalYear)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("scoring failed: %v", err)), nil
	}
	return resultJSON(report)
}

func (h *toolHandler) handleCompareCompanies(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := compareRequest{
		PrimaryTaxID: request.GetString("primary_tax_id", ""),
		CompareTaxID: request.GetString("compare_tax_id", ""),
		FiscalYear:   h.fiscalYear(request),
	}
	if err := contract.ValidateStruct(req); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid comparison parameters: %v", err)), nil
	}
	proc, err := h.processor()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result, err := proc.ProcessComparisonData(ctx, req.PrimaryTaxID, req.CompareTaxID, req.FiscalYear)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("comparison failed: %v", err)), nil
	}
	return resultJSON(result)
}

func (h *toolHandler) handleGenerateCompanyReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req, err := h.companyRequest(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	proc, err := h.processor()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	report, err := proc.GenerateCompanyReport(ctx, req.TaxID, req.FiscalYear)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}
	return resultJSON(report)
}

func (h *toolHandler) handleGetMetricDefinitions(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return resultJSON(schema.BuildMetricsRenderModel(h.baseCfg.Registry))
}
