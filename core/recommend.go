package core

import (
	"fmt"

	"github.com/huangsam/finscore/schema"
)

// GenerateRecommendations scans a comparison analysis and emits a recommendation for
// every delta below its threshold. The overall rule comes first, then dimensions in
// canonical order, then operational and financial metrics in registry order. The rules are independent.
func GenerateRecommendations(analysis schema.ComparisonAnalysis, t schema.RecommendationThresholds, reg *schema.Registry) []schema.Recommendation {
	recs := []schema.Recommendation{}

	if d := analysis.OverallDelta.Difference; d < t.Overall {
		recs = append(recs, schema.Recommendation{
			Type:       schema.OverallRecommendation,
			Priority:   schema.HighPriority,
			Difference: d,
			Message: fmt.Sprintf(
				"Overall score trails the comparison company by %.1f points; prioritize the weakest dimensions below.", -d),
		})
	}

	for _, dim := range schema.AllDimensions {
		delta, ok := analysis.DimensionDeltas[dim]
		if !ok || delta.Difference >= t.Dimension {
			continue
		}
		recs = append(recs, schema.Recommendation{
			Type:       schema.DimensionRecommendation,
			Priority:   schema.MediumPriority,
			Dimension:  dim,
			Difference: delta.Difference,
			Message: fmt.Sprintf(
				"%s is %.1f points behind (%.1f vs %.1f); strengthen this dimension.",
				dim.DisplayName(), -delta.Difference, delta.Primary, delta.Compare),
		})
	}

	if reg == nil {
		reg = schema.DefaultRegistry()
	}
	for _, def := range reg.Definitions() {
		if !def.Dimension.HasComparedMetrics() {
			continue
		}
		delta, ok := analysis.MetricDeltas[def.Key]
		if !ok || delta.Difference >= t.Metric {
			continue
		}
		recs = append(recs, schema.Recommendation{
			Type:       schema.MetricRecommendation,
			Priority:   schema.HighPriority,
			Dimension:  def.Dimension,
			Metric:     def.Key,
			Difference: delta.Difference,
			Message: fmt.Sprintf(
				"%s in %s scores %.1f points lower (%.1f vs %.1f); review the underlying statement items.",
				def.DisplayName, def.Dimension.DisplayName(), -delta.Difference, delta.Primary, delta.Compare),
		})
	}
	return recs
}
