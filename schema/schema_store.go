package schema

import "time"

// CacheStatus represents the status of the metric-row cache.
type CacheStatus struct {
	Backend         string    `json:"backend"`
	Connected       bool      `json:"connected"`
	TotalEntries    int       `json:"total_entries"`
	LastEntryTime   time.Time `json:"last_entry_time"`
	OldestEntryTime time.Time `json:"oldest_entry_time"`
	TableSizeBytes  int64     `json:"table_size_bytes"`
}

// StatementStatus represents the status of the statement store.
type StatementStatus struct {
	Backend      string `json:"backend"`
	Connected    bool   `json:"connected"`
	TotalRows    int    `json:"total_rows"`
	Companies    int    `json:"companies"`
	EarliestYear int    `json:"earliest_year"`
	LatestYear   int    `json:"latest_year"`
}

// ReportStatus represents the status of the report store.
type ReportStatus struct {
	Backend       string           `json:"backend"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     string           `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// StoreStatus bundles the status of every store.
type StoreStatus struct {
	Statements StatementStatus `json:"statements"`
	Cache      CacheStatus     `json:"cache"`
	Reports    ReportStatus    `json:"reports"`
}

// ReportRunRecord represents a row from the report_runs table.
type ReportRunRecord struct {
	RunID        string
	Kind         string // report or compare
	StartTime    time.Time
	EndTime      *time.Time
	DurationMs   *int32
	ConfigParams *string
}

// CompanyScoreRecord represents a row from the company_scores table.
type CompanyScoreRecord struct {
	RunID            string
	TaxID            string
	FiscalYear       int32
	CompanyName      string
	ScoreOperational float64
	ScoreFinancial   float64
	ScoreFuture      float64
	ScoreAIDigital   float64
	ScoreESG         float64
	ScoreInnovation  float64
	OverallScore     float64
	Tier             string
	RecordedAt       time.Time
}

// NewCompanyScoreRecord flattens a report into a store row.
func NewCompanyScoreRecord(runID string, r CompanyMetricsReport, at time.Time) CompanyScoreRecord {
	return CompanyScoreRecord{
		RunID:            runID,
		TaxID:            r.Company.TaxID,
		FiscalYear:       int32(r.Company.FiscalYear),
		CompanyName:      r.Company.Name,
		ScoreOperational: r.DimensionScores[OperationalDimension],
		ScoreFinancial:   r.DimensionScores[FinancialDimension],
		ScoreFuture:      r.DimensionScores[FutureDimension],
		ScoreAIDigital:   r.DimensionScores[AIDigitalDimension],
		ScoreESG:         r.DimensionScores[ESGDimension],
		ScoreInnovation:  r.DimensionScores[InnovationDimension],
		OverallScore:     r.OverallScore,
		Tier:             string(r.Tier),
		RecordedAt:       at,
	}
}

// StatementRecord is one row of the financial_statements table, as imported or queried.
type StatementRecord struct {
	TaxID       string `json:"tax_id" validate:"required,numeric,min=6,max=20"`
	CompanyName string `json:"company_name" validate:"max=200"`
	RawStatementYear
}
