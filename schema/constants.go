package schema

// Custom string types for type safety.
type (
	// MetricKey identifies one ratio metric.
	MetricKey string

	// DimensionKey identifies one of the six capability dimensions.
	DimensionKey string

	// PolicyKind selects the scoring policy applied to a ratio.
	PolicyKind string

	// RatioFormula selects how a ratio is derived from raw statement fields.
	RatioFormula string

	// StatementField names a raw financial-statement field.
	StatementField string

	// UndefinedKind selects what happens to a metric whose ratio is undefined.
	UndefinedKind string

	// ScoreTier represents the qualitative band of an overall score.
	ScoreTier string

	// Verdict represents the outcome of comparing two scores.
	Verdict string

	// Provenance marks whether a dimension score was computed or supplied externally.
	Provenance string

	// Priority represents the urgency of a recommendation.
	Priority string

	// RecommendationType represents what a recommendation is about.
	RecommendationType string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for a store.
	DatabaseBackend string
)

// All metrics supported.
const (
	InventoryTurnover   MetricKey = "inventory_turnover"
	ReceivablesTurnover MetricKey = "receivables_turnover"
	TotalAssetsTurnover MetricKey = "total_assets_turnover"
	ReturnOnEquity      MetricKey = "roe"
	CurrentRatio        MetricKey = "current_ratio"
	RevenueGrowth       MetricKey = "revenue_growth"
	RevenueCAGR         MetricKey = "revenue_cagr"
)

// All dimensions supported.
const (
	OperationalDimension DimensionKey = "operational"
	FinancialDimension   DimensionKey = "financial"
	FutureDimension      DimensionKey = "future"
	AIDigitalDimension   DimensionKey = "ai_digital"
	ESGDimension         DimensionKey = "esg"
	InnovationDimension  DimensionKey = "innovation"
)

// All scoring policies supported.
const (
	LinearBenchmarkPolicy    PolicyKind = "linear_benchmark"
	SegmentedPiecewisePolicy PolicyKind = "segmented_piecewise"
	LinearRangePolicy        PolicyKind = "linear_range"
)

// All ratio formulas supported.
const (
	TurnoverFormula   RatioFormula = "turnover"    // flow / avg(balance)
	ReturnFormula     RatioFormula = "return"      // income / avg(balance), avg <= 0 undefined
	GrowthFormula     RatioFormula = "growth"      // (cur - prior) / prior
	CAGRFormula       RatioFormula = "cagr"        // (end/begin)^(1/n) - 1
	PointRatioFormula RatioFormula = "point_ratio" // single-year numerator / denominator
)

// Raw statement fields.
const (
	FieldRevenue            StatementField = "revenue"
	FieldCostOfGoodsSold    StatementField = "cost_of_goods_sold"
	FieldNetIncome          StatementField = "net_income"
	FieldInventory          StatementField = "inventory"
	FieldAccountsReceivable StatementField = "accounts_receivable"
	FieldTotalAssets        StatementField = "total_assets"
	FieldTotalEquity        StatementField = "total_equity"
	FieldCurrentAssets      StatementField = "current_assets"
	FieldCurrentLiabilities StatementField = "current_liabilities"
)

// Undefined ratio handling.
const (
	UndefinedExcluded UndefinedKind = "excluded" // score is nil and skipped by aggregation
	UndefinedDefault  UndefinedKind = "default"  // score falls back to a fixed value
)

// All score tiers, best first.
const (
	TierExcellent        ScoreTier = "Excellent"
	TierGood             ScoreTier = "Good"
	TierAverage          ScoreTier = "Average"
	TierNeedsImprovement ScoreTier = "NeedsImprovement"
	TierRisk             ScoreTier = "Risk"
)

// All verdicts supported.
const (
	Outperforms   Verdict = "outperforms"
	Underperforms Verdict = "underperforms"
	Parity        Verdict = "parity"
)

// All provenances supported.
const (
	ComputedProvenance Provenance = "computed"
	ProvidedProvenance Provenance = "provided"
)

// Recommendation priorities and types.
const (
	HighPriority   Priority = "high"
	MediumPriority Priority = "medium"

	OverallRecommendation   RecommendationType = "overall"
	DimensionRecommendation RecommendationType = "dimension"
	MetricRecommendation    RecommendationType = "metric"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All database backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllMetrics lists every metric in registry order.
var AllMetrics = []MetricKey{
	InventoryTurnover,
	ReceivablesTurnover,
	TotalAssetsTurnover,
	ReturnOnEquity,
	CurrentRatio,
	RevenueGrowth,
	RevenueCAGR,
}

// AllDimensions lists the six dimensions in canonical order.
var AllDimensions = []DimensionKey{
	OperationalDimension,
	FinancialDimension,
	FutureDimension,
	AIDigitalDimension,
	ESGDimension,
	InnovationDimension,
}

// ComputedDimensions are derived from statement data.
var ComputedDimensions = []DimensionKey{OperationalDimension, FinancialDimension, FutureDimension}

// MetricComparedDimensions are the dimensions whose metrics are diffed one by one
// in a comparison. Future metrics only count through their dimension score.
var MetricComparedDimensions = []DimensionKey{OperationalDimension, FinancialDimension}

// ProvidedDimensions are seeded externally per company.
var ProvidedDimensions = []DimensionKey{AIDigitalDimension, ESGDimension, InnovationDimension}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid database backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// ValidDimensions lists all valid dimensions.
var ValidDimensions = map[DimensionKey]struct{}{
	OperationalDimension: {},
	FinancialDimension:   {},
	FutureDimension:      {},
	AIDigitalDimension:   {},
	ESGDimension:         {},
	InnovationDimension:  {},
}

// TierBand is the published score range of one tier.
type TierBand struct {
	Tier ScoreTier `json:"tier"`
	Min  float64   `json:"min"`
	Max  float64   `json:"max"`
}

// TierBands lists the tiers best first. Lookup compares against Min only, so
// fractional scores between two published ranges (e.g. 89.5) land in the lower band.
var TierBands = []TierBand{
	{Tier: TierExcellent, Min: 90, Max: 100},
	{Tier: TierGood, Min: 75, Max: 89},
	{Tier: TierAverage, Min: 60, Max: 74},
	{Tier: TierNeedsImprovement, Min: 40, Max: 59},
	{Tier: TierRisk, Min: 0, Max: 39},
}

// GetDefaultDimensionWeights returns the published overall weights of the six dimensions.
func GetDefaultDimensionWeights() map[DimensionKey]float64 {
	return map[DimensionKey]float64{
		OperationalDimension: 0.20,
		FinancialDimension:   0.25,
		FutureDimension:      0.15,
		AIDigitalDimension:   0.15,
		ESGDimension:         0.15,
		InnovationDimension:  0.10,
	}
}

// GetDefaultPlaceholderScores returns the seed used for provided dimensions
// when no company-specific value is configured.
func GetDefaultPlaceholderScores() map[DimensionKey]float64 {
	return map[DimensionKey]float64{
		AIDigitalDimension:  70,
		ESGDimension:        70,
		InnovationDimension: 70,
	}
}
