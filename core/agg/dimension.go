// Package agg folds metric scores into dimension scores and dimension scores into an overall score.
package agg

import "github.com/huangsam/finscore/schema"

// AggregateDimension is the weighted mean of the non-nil metric scores.
// The denominator is the sum of the weights actually used, so excluded metrics
// renormalize the rest. Weights missing from the map fall back to the result's own weight.
// No scored metric yields 0.
func AggregateDimension(results []schema.MetricResult, weights map[schema.MetricKey]float64) float64 {
	var sum, used float64
	for _, r := range results {
		if r.Score == nil {
			continue
		}
		w, ok := weights[r.Metric]
		if !ok {
			w = r.Weight
		}
		if w <= 0 {
			continue
		}
		sum += w * *r.Score
		used += w
	}
	if used == 0 {
		return 0
	}
	return sum / used
}

// ComputedDimension builds the score of a statement-derived dimension from its metric results.
func ComputedDimension(dim schema.DimensionKey, weight float64, results []schema.MetricResult) schema.DimensionScore {
	return schema.DimensionScore{
		Dimension:  dim,
		Score:      AggregateDimension(results, nil),
		Weight:     weight,
		Provenance: schema.ComputedProvenance,
		Metrics:    results,
	}
}

// ProvidedDimension wraps an externally supplied dimension score. The score is
// taken as is; out-of-range seeds surface in post-hoc validation.
func ProvidedDimension(dim schema.DimensionKey, weight, score float64) schema.DimensionScore {
	return schema.DimensionScore{
		Dimension:  dim,
		Score:      score,
		Weight:     weight,
		Provenance: schema.ProvidedProvenance,
	}
}
