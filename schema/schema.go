// Package schema has models, enums and the metric registry for all parts of finscore.
package schema

import "time"

// RawStatementYear holds the raw financial-statement fields of one company for one fiscal year.
// Amounts are currency units; a field missing upstream is zero.
type RawStatementYear struct {
	FiscalYear         int     `json:"fiscal_year" validate:"required,gte=1900,lte=2200"`
	Revenue            float64 `json:"revenue"`
	CostOfGoodsSold    float64 `json:"cost_of_goods_sold"`
	NetIncome          float64 `json:"net_income"`
	Inventory          float64 `json:"inventory"`
	AccountsReceivable float64 `json:"accounts_receivable"`
	TotalAssets        float64 `json:"total_assets"`
	TotalEquity        float64 `json:"total_equity"`
	CurrentAssets      float64 `json:"current_assets"`
	CurrentLiabilities float64 `json:"current_liabilities"`
}

// Field returns the value of a statement field by name. Unknown fields read as zero.
func (y RawStatementYear) Field(f StatementField) float64 {
	switch f {
	case FieldRevenue:
		return y.Revenue
	case FieldCostOfGoodsSold:
		return y.CostOfGoodsSold
	case FieldNetIncome:
		return y.NetIncome
	case FieldInventory:
		return y.Inventory
	case FieldAccountsReceivable:
		return y.AccountsReceivable
	case FieldTotalAssets:
		return y.TotalAssets
	case FieldTotalEquity:
		return y.TotalEquity
	case FieldCurrentAssets:
		return y.CurrentAssets
	case FieldCurrentLiabilities:
		return y.CurrentLiabilities
	default:
		return 0
	}
}

// RawMetricRow is what a data source returns for one metric family of one company-year.
// Prior is nil when the previous year is unknown. History is ascending by fiscal year
// and only populated for the revenue CAGR family.
type RawMetricRow struct {
	TaxID       string             `json:"tax_id"`
	FiscalYear  int                `json:"fiscal_year"`
	CompanyName string             `json:"company_name"`
	Current     RawStatementYear   `json:"current"`
	Prior       *RawStatementYear  `json:"prior,omitempty"`
	History     []RawStatementYear `json:"history,omitempty"`
}

// CompanyInfo identifies the company-year a report was built for.
type CompanyInfo struct {
	TaxID      string `json:"tax_id"`
	FiscalYear int    `json:"fiscal_year"`
	Name       string `json:"name"`
}

// MetricResult is the outcome of scoring one metric.
// RawValue is nil when the ratio is undefined. Score is nil only when the
// metric's undefined rule excludes it; otherwise it lies in [0, 100].
type MetricResult struct {
	Metric      MetricKey          `json:"metric"`
	Dimension   DimensionKey       `json:"dimension"`
	DisplayName string             `json:"display_name"`
	Weight      float64            `json:"weight"`
	RawValue    *float64           `json:"raw_value"`
	Score       *float64           `json:"score"`
	Undefined   string             `json:"undefined_reason,omitempty"`
	Aux         map[string]float64 `json:"aux,omitempty"` // intermediates such as averages
}

// DimensionScore is the aggregated score of one capability dimension.
type DimensionScore struct {
	Dimension  DimensionKey   `json:"dimension"`
	Score      float64        `json:"score"`
	Weight     float64        `json:"weight"`
	Provenance Provenance     `json:"provenance"`
	Metrics    []MetricResult `json:"metrics,omitempty"`
}

// CompanyMetricsReport is the full scoring of one company-year.
type CompanyMetricsReport struct {
	Company         CompanyInfo                `json:"company"`
	DimensionScores map[DimensionKey]float64   `json:"dimension_scores"`
	Dimensions      []DimensionScore           `json:"dimensions"`
	Metrics         map[MetricKey]MetricResult `json:"metrics"`
	OverallScore    float64                    `json:"overall_score"`
	Tier            ScoreTier                  `json:"tier"`
}

// RadarPoint is one axis of the radar chart series.
type RadarPoint struct {
	Dimension DimensionKey `json:"dimension"`
	Score     float64      `json:"score"`
}

// ValidationIssue is a non-fatal warning raised after scoring.
type ValidationIssue struct {
	Field   string  `json:"field"`
	Value   float64 `json:"value"`
	Message string  `json:"message"`
}

// CompanyReport wraps a metrics report with presentation data.
type CompanyReport struct {
	ReportID         string               `json:"report_id"`
	GeneratedAt      time.Time            `json:"generated_at"`
	Report           CompanyMetricsReport `json:"report"`
	RadarSeries      []RadarPoint         `json:"radar_series"`
	ValidationErrors []ValidationIssue    `json:"validation_errors"`
}
