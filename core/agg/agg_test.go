package agg

import (
	"math"
	"testing"

	"github.com/huangsam/finscore/schema"
	"github.com/stretchr/testify/assert"
)

func result(key schema.MetricKey, weight float64, score *float64) schema.MetricResult {
	return schema.MetricResult{Metric: key, Weight: weight, Score: score}
}

func TestAggregateDimension(t *testing.T) {
	tests := []struct {
		name     string
		results  []schema.MetricResult
		weights  map[schema.MetricKey]float64
		expected float64
	}{
		{
			name: "all scored",
			results: []schema.MetricResult{
				result(schema.InventoryTurnover, 0.4, schema.Float64Ptr(100)),
				result(schema.ReceivablesTurnover, 0.3, schema.Float64Ptr(50)),
				result(schema.TotalAssetsTurnover, 0.3, schema.Float64Ptr(0)),
			},
			expected: 55,
		},
		{
			name: "excluded metric renormalizes",
			results: []schema.MetricResult{
				result(schema.ReturnOnEquity, 0.6, nil),
				result(schema.CurrentRatio, 0.4, schema.Float64Ptr(80)),
			},
			expected: 80,
		},
		{
			name: "nothing scored",
			results: []schema.MetricResult{
				result(schema.ReturnOnEquity, 0.6, nil),
				result(schema.RevenueCAGR, 0.5, nil),
			},
			expected: 0,
		},
		{
			name:     "empty",
			expected: 0,
		},
		{
			name: "explicit weights win",
			results: []schema.MetricResult{
				result(schema.RevenueGrowth, 0.5, schema.Float64Ptr(100)),
				result(schema.RevenueCAGR, 0.5, schema.Float64Ptr(0)),
			},
			weights:  map[schema.MetricKey]float64{schema.RevenueGrowth: 0.75, schema.RevenueCAGR: 0.25},
			expected: 75,
		},
		{
			name: "weights drifting from one",
			results: []schema.MetricResult{
				result(schema.RevenueGrowth, 0.6, schema.Float64Ptr(50)),
				result(schema.RevenueCAGR, 0.6, schema.Float64Ptr(50)),
			},
			expected: 50,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, AggregateDimension(tt.results, tt.weights), 1e-9)
		})
	}
}

func TestComputedAndProvidedDimension(t *testing.T) {
	results := []schema.MetricResult{
		result(schema.ReturnOnEquity, 0.6, schema.Float64Ptr(50)),
		result(schema.CurrentRatio, 0.4, schema.Float64Ptr(100)),
	}
	d := ComputedDimension(schema.FinancialDimension, 0.25, results)
	assert.Equal(t, schema.ComputedProvenance, d.Provenance)
	assert.InDelta(t, 70, d.Score, 1e-9)
	assert.Len(t, d.Metrics, 2)

	p := ProvidedDimension(schema.ESGDimension, 0.15, 130)
	assert.Equal(t, schema.ProvidedProvenance, p.Provenance)
	assert.Equal(t, 130.0, p.Score, "provided scores are not clamped")
	assert.Empty(t, p.Metrics)
}

func TestAggregateOverall(t *testing.T) {
	weights := schema.GetDefaultDimensionWeights()

	all := func(v float64) map[schema.DimensionKey]float64 {
		m := make(map[schema.DimensionKey]float64)
		for _, d := range schema.AllDimensions {
			m[d] = v
		}
		return m
	}
	assert.InDelta(t, 70, AggregateOverall(all(70), weights), 1e-9)

	scores := map[schema.DimensionKey]float64{
		schema.OperationalDimension: 80,
		schema.FinancialDimension:   60,
		schema.FutureDimension:      40,
		schema.AIDigitalDimension:   70,
		schema.ESGDimension:         70,
		schema.InnovationDimension:  70,
	}
	// 0.2*80 + 0.25*60 + 0.15*40 + 0.4*70 = 16 + 15 + 6 + 28
	assert.InDelta(t, 65, AggregateOverall(scores, weights), 1e-9)

	delete(scores, schema.InnovationDimension)
	assert.InDelta(t, 58.0/0.9, AggregateOverall(scores, weights), 1e-9)

	assert.Equal(t, 0.0, AggregateOverall(nil, weights))

	// out-of-range inputs are averaged as given
	assert.InDelta(t, 120, AggregateOverall(all(120), weights), 1e-9)
}

func TestTierOf(t *testing.T) {
	tests := []struct {
		score    float64
		expected schema.ScoreTier
	}{
		{100, schema.TierExcellent},
		{90, schema.TierExcellent},
		{89.99, schema.TierGood},
		{89.5, schema.TierGood},
		{75, schema.TierGood},
		{74.5, schema.TierAverage},
		{60, schema.TierAverage},
		{59.9, schema.TierNeedsImprovement},
		{40, schema.TierNeedsImprovement},
		{39.99, schema.TierRisk},
		{0, schema.TierRisk},
		{-10, schema.TierRisk},
		{150, schema.TierExcellent},
		{math.NaN(), schema.TierRisk},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, TierOf(tt.score), "score %v", tt.score)
	}
}

// FuzzTierOf checks that every input maps to exactly one known tier.
func FuzzTierOf(f *testing.F) {
	f.Add(0.0)
	f.Add(89.5)
	f.Add(-1e9)
	f.Fuzz(func(t *testing.T, score float64) {
		tier := TierOf(score)
		matches := 0
		for _, band := range schema.TierBands {
			if band.Tier == tier {
				matches++
			}
		}
		if matches != 1 {
			t.Errorf("score %v mapped to %q", score, tier)
		}
	})
}
