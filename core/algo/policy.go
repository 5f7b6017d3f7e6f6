package algo

import (
	"fmt"
	"math"

	"github.com/huangsam/finscore/schema"
)

// PolicyFunc maps a defined ratio onto a score. The result is clamped by the caller.
type PolicyFunc func(x float64, p schema.PolicyParams) float64

// policies is the table of supported scoring policies.
var policies = map[schema.PolicyKind]PolicyFunc{
	schema.LinearBenchmarkPolicy:    linearBenchmark,
	schema.SegmentedPiecewisePolicy: segmented,
	schema.LinearRangePolicy:        linearRange,
}

func linearBenchmark(x float64, p schema.PolicyParams) float64 {
	return x / p.Benchmark * p.MaxScore
}

func linearRange(x float64, p schema.PolicyParams) float64 {
	return (x - p.RangeMin) / (p.RangeMax - p.RangeMin) * 100
}

// segmented scores x with the first segment containing it; x outside every segment scores 0.
func segmented(x float64, p schema.PolicyParams) float64 {
	for _, s := range p.Segments {
		if segmentContains(s, x) {
			return segmentValue(s, x)
		}
	}
	return 0
}

func segmentContains(s schema.Segment, x float64) bool {
	if x < s.Lower || (x == s.Lower && !s.IncludeLower) {
		return false
	}
	if x > s.Upper || (x == s.Upper && !s.IncludeUpper) {
		return false
	}
	return true
}

func segmentValue(s schema.Segment, x float64) float64 {
	if s.Scale == 0 {
		return s.Base
	}
	f := (x - s.Origin) / s.Scale
	if s.Absolute {
		f = math.Abs(f)
	}
	if s.Saturate {
		f = math.Min(f, 1)
	}
	return s.Base + s.Span*f
}

// Clamp100 bounds a score to [0, 100]. NaN becomes 0.
func Clamp100(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// scorer is a definition with its policy function resolved.
type scorer struct {
	def schema.MetricDefinition
	fn  PolicyFunc
}

// PolicyEngine scores ratios with the policy of each registered metric.
// Policy lookup happens once at construction.
type PolicyEngine struct {
	scorers map[schema.MetricKey]scorer
}

// NewPolicyEngine resolves the policy of every metric in the registry.
func NewPolicyEngine(reg *schema.Registry) (*PolicyEngine, error) {
	e := &PolicyEngine{scorers: make(map[schema.MetricKey]scorer)}
	for _, def := range reg.Definitions() {
		fn, ok := policies[def.Policy]
		if !ok {
			return nil, fmt.Errorf("metric %s: unsupported policy %q", def.Key, def.Policy)
		}
		e.scorers[def.Key] = scorer{def: def, fn: fn}
	}
	return e, nil
}

// Score maps an outcome onto a score in [0, 100], or nil when the ratio is
// undefined and the metric excludes undefined values.
func (e *PolicyEngine) Score(key schema.MetricKey, outcome RatioOutcome) (*float64, error) {
	s, ok := e.scorers[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", schema.ErrUnknownMetric, key)
	}
	if !outcome.Defined {
		if s.def.Undefined.Kind == schema.UndefinedExcluded {
			return nil, nil
		}
		v := Clamp100(s.def.Undefined.Score)
		return &v, nil
	}
	v := Clamp100(s.fn(outcome.Value, s.def.Params))
	return &v, nil
}

// Evaluate computes and scores one metric from a raw row. A nil row is treated
// as undefined.
func (e *PolicyEngine) Evaluate(key schema.MetricKey, row *schema.RawMetricRow) (schema.MetricResult, error) {
	s, ok := e.scorers[key]
	if !ok {
		return schema.MetricResult{}, fmt.Errorf("%w: %s", schema.ErrUnknownMetric, key)
	}
	var outcome RatioOutcome
	if row == nil {
		outcome = Undefined(ReasonNoData)
	} else {
		outcome = ComputeRatio(s.def, &row.Current, row.Prior, row.History)
	}
	score, err := e.Score(key, outcome)
	if err != nil {
		return schema.MetricResult{}, err
	}
	res := schema.MetricResult{
		Metric:      s.def.Key,
		Dimension:   s.def.Dimension,
		DisplayName: s.def.DisplayName,
		Weight:      s.def.Weight,
		Score:       score,
		Aux:         outcome.Aux,
	}
	if outcome.Defined {
		res.RawValue = schema.Float64Ptr(outcome.Value)
	} else {
		res.Undefined = outcome.Reason
	}
	return res, nil
}
