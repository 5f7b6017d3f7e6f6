package schema

// Delta captures the difference of one score between two companies.
type Delta struct {
	Primary    float64 `json:"primary"`
	Compare    float64 `json:"compare"`
	Difference float64 `json:"difference"` // Primary - Compare
	Verdict    Verdict `json:"verdict"`
}

// Recommendation is a threshold-driven improvement hint for the primary company.
type Recommendation struct {
	Type       RecommendationType `json:"type"`
	Priority   Priority           `json:"priority"`
	Dimension  DimensionKey       `json:"dimension,omitempty"`
	Metric     MetricKey          `json:"metric,omitempty"`
	Difference float64            `json:"difference"`
	Message    string             `json:"message"`
}

// ComparisonAnalysis is the structural diff of two company reports.
type ComparisonAnalysis struct {
	OverallDelta    Delta                  `json:"overall_delta"`
	DimensionDeltas map[DimensionKey]Delta `json:"dimension_deltas"`
	MetricDeltas    map[MetricKey]Delta    `json:"metric_deltas"`
	Recommendations []Recommendation       `json:"recommendations"`
}

// ComparisonResult pairs both reports with their analysis.
type ComparisonResult struct {
	Primary  CompanyMetricsReport `json:"primary"`
	Compare  CompanyMetricsReport `json:"compare"`
	Analysis ComparisonAnalysis   `json:"analysis"`
}

// RecommendationThresholds are the negative differences that trigger a recommendation.
type RecommendationThresholds struct {
	Overall   float64 `json:"overall" mapstructure:"overall"`
	Dimension float64 `json:"dimension" mapstructure:"dimension"`
	Metric    float64 `json:"metric" mapstructure:"metric"`
}

// DefaultRecommendationThresholds returns the stock thresholds.
func DefaultRecommendationThresholds() RecommendationThresholds {
	return RecommendationThresholds{Overall: -10, Dimension: -5, Metric: -10}
}
