package core

import "github.com/huangsam/finscore/schema"

// Compare diffs a primary report against a comparison report. Metrics are
// compared only when they belong to the operational or financial dimension and
// both sides produced a score; the rest are skipped.
func Compare(primary, compare schema.CompanyMetricsReport) schema.ComparisonAnalysis {
	analysis := schema.ComparisonAnalysis{
		OverallDelta:    newDelta(primary.OverallScore, compare.OverallScore),
		DimensionDeltas: make(map[schema.DimensionKey]schema.Delta, len(schema.AllDimensions)),
		MetricDeltas:    make(map[schema.MetricKey]schema.Delta),
	}

	for _, dim := range schema.AllDimensions {
		a, okA := primary.DimensionScores[dim]
		b, okB := compare.DimensionScores[dim]
		if !okA || !okB {
			continue
		}
		analysis.DimensionDeltas[dim] = newDelta(a, b)
	}

	for key, ra := range primary.Metrics {
		if !ra.Dimension.HasComparedMetrics() {
			continue
		}
		rb, ok := compare.Metrics[key]
		if !ok || ra.Score == nil || rb.Score == nil {
			continue
		}
		analysis.MetricDeltas[key] = newDelta(*ra.Score, *rb.Score)
	}

	analysis.Recommendations = []schema.Recommendation{}
	return analysis
}

func newDelta(a, b float64) schema.Delta {
	diff := a - b
	return schema.Delta{
		Primary:    a,
		Compare:    b,
		Difference: diff,
		Verdict:    verdictOf(diff),
	}
}

// verdictOf maps the sign of a difference. Only an exact zero is parity.
func verdictOf(diff float64) schema.Verdict {
	switch {
	case diff > 0:
		return schema.Outperforms
	case diff < 0:
		return schema.Underperforms
	default:
		return schema.Parity
	}
}
