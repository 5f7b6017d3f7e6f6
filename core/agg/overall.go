package agg

import (
	"github.com/huangsam/finscore/core/algo"
	"github.com/huangsam/finscore/schema"
)

// AggregateOverall is the weighted mean of the dimension scores over the
// canonical dimensions. Dimensions absent from scores are left out and the
// remaining weights renormalize. The result is not clamped.
func AggregateOverall(scores map[schema.DimensionKey]float64, weights map[schema.DimensionKey]float64) float64 {
	var sum, used float64
	for _, dim := range schema.AllDimensions {
		s, ok := scores[dim]
		if !ok {
			continue
		}
		w := weights[dim]
		if w <= 0 {
			continue
		}
		sum += w * s
		used += w
	}
	if used == 0 {
		return 0
	}
	return sum / used
}

// TierOf returns the tier of a score. The score is clamped first, so exactly one tier matches.
func TierOf(score float64) schema.ScoreTier {
	s := algo.Clamp100(score)
	for _, band := range schema.TierBands {
		if s >= band.Min {
			return band.Tier
		}
	}
	return schema.TierRisk
}
