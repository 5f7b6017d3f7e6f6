package schema

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnknownMetric is returned when a metric key is not in the registry.
var ErrUnknownMetric = errors.New("unknown metric")

// Segment is one piece of a segmented-piecewise policy.
// A ratio x inside the segment scores Base + Span*f where f = (x-Origin)/Scale,
// optionally taken as |f| (Absolute) and capped at 1 (Saturate).
type Segment struct {
	Lower        float64
	Upper        float64
	IncludeLower bool
	IncludeUpper bool
	Origin       float64
	Scale        float64
	Base         float64
	Span         float64
	Absolute     bool
	Saturate     bool
}

// PolicyParams holds the tunables of every policy kind; each policy reads only its own.
type PolicyParams struct {
	Benchmark float64   // linear benchmark: ratio that earns MaxScore
	MaxScore  float64   // linear benchmark
	RangeMin  float64   // linear range: ratio that earns 0
	RangeMax  float64   // linear range: ratio that earns 100
	Segments  []Segment // segmented piecewise, in ascending order
}

// UndefinedRule decides the score of a metric whose ratio cannot be computed.
type UndefinedRule struct {
	Kind  UndefinedKind
	Score float64 // used when Kind is UndefinedDefault
}

// MetricDefinition describes how one metric is computed, scored and weighted.
type MetricDefinition struct {
	Key         MetricKey
	Dimension   DimensionKey
	DisplayName string
	Weight      float64
	Formula     RatioFormula
	Numerator   StatementField
	Denominator StatementField
	Policy      PolicyKind
	Params      PolicyParams
	Undefined   UndefinedRule
}

// Registry is the immutable set of metric definitions and dimension weights.
// It is built once at startup and shared by reference.
type Registry struct {
	defs             []MetricDefinition
	index            map[MetricKey]int
	dimensionWeights map[DimensionKey]float64
}

// NewRegistry validates the definitions and dimension weights and returns a registry.
func NewRegistry(defs []MetricDefinition, dimensionWeights map[DimensionKey]float64) (*Registry, error) {
	if len(defs) == 0 {
		return nil, errors.New("registry needs at least one metric")
	}
	r := &Registry{
		defs:             make([]MetricDefinition, 0, len(defs)),
		index:            make(map[MetricKey]int, len(defs)),
		dimensionWeights: make(map[DimensionKey]float64, len(AllDimensions)),
	}
	for _, d := range defs {
		if err := validateDefinition(d); err != nil {
			return nil, err
		}
		if _, dup := r.index[d.Key]; dup {
			return nil, fmt.Errorf("duplicate metric %q", d.Key)
		}
		d = d.clone()
		r.index[d.Key] = len(r.defs)
		r.defs = append(r.defs, d)
	}

	sum := 0.0
	for _, dim := range AllDimensions {
		w, ok := dimensionWeights[dim]
		if !ok {
			return nil, fmt.Errorf("missing weight for dimension %q", dim)
		}
		if w < 0 || w > 1 {
			return nil, fmt.Errorf("weight for dimension %q must be between 0 and 1, got %.3f", dim, w)
		}
		r.dimensionWeights[dim] = w
		sum += w
	}
	for dim := range dimensionWeights {
		if _, ok := ValidDimensions[dim]; !ok {
			return nil, fmt.Errorf("unknown dimension %q", dim)
		}
	}
	if math.Abs(sum-1.0) > 0.001 {
		return nil, fmt.Errorf("dimension weights must sum to 1.0, got %.3f", sum)
	}
	return r, nil
}

func validateDefinition(d MetricDefinition) error {
	if d.Key == "" {
		return errors.New("metric key is empty")
	}
	if !d.Dimension.IsComputed() {
		return fmt.Errorf("metric %q: dimension %q is not computed from statements", d.Key, d.Dimension)
	}
	if d.Weight <= 0 || d.Weight > 1 {
		return fmt.Errorf("metric %q: weight must be in (0, 1], got %.3f", d.Key, d.Weight)
	}
	switch d.Formula {
	case TurnoverFormula, ReturnFormula, PointRatioFormula:
		if d.Numerator == "" || d.Denominator == "" {
			return fmt.Errorf("metric %q: formula %q needs numerator and denominator", d.Key, d.Formula)
		}
	case GrowthFormula, CAGRFormula:
		if d.Numerator == "" {
			return fmt.Errorf("metric %q: formula %q needs a numerator", d.Key, d.Formula)
		}
	default:
		return fmt.Errorf("metric %q: unknown formula %q", d.Key, d.Formula)
	}
	p := d.Params
	switch d.Policy {
	case LinearBenchmarkPolicy:
		if p.Benchmark <= 0 || p.MaxScore <= 0 {
			return fmt.Errorf("metric %q: benchmark and max score must be positive", d.Key)
		}
	case LinearRangePolicy:
		if p.RangeMax <= p.RangeMin {
			return fmt.Errorf("metric %q: range max must exceed range min", d.Key)
		}
	case SegmentedPiecewisePolicy:
		if len(p.Segments) == 0 {
			return fmt.Errorf("metric %q: segmented policy needs segments", d.Key)
		}
		for i, s := range p.Segments {
			if s.Upper < s.Lower {
				return fmt.Errorf("metric %q: segment %d has upper below lower", d.Key, i)
			}
			if i > 0 && s.Lower < p.Segments[i-1].Upper {
				return fmt.Errorf("metric %q: segment %d overlaps its predecessor", d.Key, i)
			}
		}
	default:
		return fmt.Errorf("metric %q: unknown policy %q", d.Key, d.Policy)
	}
	switch d.Undefined.Kind {
	case UndefinedExcluded:
	case UndefinedDefault:
		if d.Undefined.Score < 0 || d.Undefined.Score > 100 {
			return fmt.Errorf("metric %q: undefined default score out of range", d.Key)
		}
	default:
		return fmt.Errorf("metric %q: unknown undefined rule %q", d.Key, d.Undefined.Kind)
	}
	return nil
}

func (d MetricDefinition) clone() MetricDefinition {
	if d.Params.Segments != nil {
		d.Params.Segments = append([]Segment(nil), d.Params.Segments...)
	}
	return d
}

// Definitions returns all metric definitions in registry order.
func (r *Registry) Definitions() []MetricDefinition {
	out := make([]MetricDefinition, len(r.defs))
	for i, d := range r.defs {
		out[i] = d.clone()
	}
	return out
}

// Definition looks up one metric.
func (r *Registry) Definition(key MetricKey) (MetricDefinition, error) {
	i, ok := r.index[key]
	if !ok {
		return MetricDefinition{}, fmt.Errorf("%w: %s", ErrUnknownMetric, key)
	}
	return r.defs[i].clone(), nil
}

// DimensionDefinitions returns the metrics of one dimension in registry order.
func (r *Registry) DimensionDefinitions(dim DimensionKey) []MetricDefinition {
	var out []MetricDefinition
	for _, d := range r.defs {
		if d.Dimension == dim {
			out = append(out, d.clone())
		}
	}
	return out
}

// DimensionWeight returns the overall weight of a dimension.
func (r *Registry) DimensionWeight(dim DimensionKey) float64 {
	return r.dimensionWeights[dim]
}

// DimensionWeights returns a copy of all dimension weights.
func (r *Registry) DimensionWeights() map[DimensionKey]float64 {
	out := make(map[DimensionKey]float64, len(r.dimensionWeights))
	for k, v := range r.dimensionWeights {
		out[k] = v
	}
	return out
}

// WithWeights returns a new registry with metric and dimension weights overridden.
// Nil or empty maps keep the current weights.
func (r *Registry) WithWeights(metricWeights map[MetricKey]float64, dimensionWeights map[DimensionKey]float64) (*Registry, error) {
	defs := r.Definitions()
	for key, w := range metricWeights {
		i, ok := r.index[key]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownMetric, key)
		}
		defs[i].Weight = w
	}
	dims := r.DimensionWeights()
	for k, v := range dimensionWeights {
		dims[k] = v
	}
	return NewRegistry(defs, dims)
}

// DefaultMetricDefinitions returns the stock metric catalogue.
func DefaultMetricDefinitions() []MetricDefinition {
	inf := math.Inf(1)
	return []MetricDefinition{
		{
			Key: InventoryTurnover, Dimension: OperationalDimension, DisplayName: "Inventory Turnover",
			Weight: 0.4, Formula: TurnoverFormula, Numerator: FieldCostOfGoodsSold, Denominator: FieldInventory,
			Policy: LinearBenchmarkPolicy, Params: PolicyParams{Benchmark: 6, MaxScore: 85},
			Undefined: UndefinedRule{Kind: UndefinedDefault, Score: 0},
		},
		{
			Key: ReceivablesTurnover, Dimension: OperationalDimension, DisplayName: "Receivables Turnover",
			Weight: 0.3, Formula: TurnoverFormula, Numerator: FieldRevenue, Denominator: FieldAccountsReceivable,
			Policy: LinearBenchmarkPolicy, Params: PolicyParams{Benchmark: 8, MaxScore: 85},
			Undefined: UndefinedRule{Kind: UndefinedDefault, Score: 0},
		},
		{
			Key: TotalAssetsTurnover, Dimension: OperationalDimension, DisplayName: "Total Assets Turnover",
			Weight: 0.3, Formula: TurnoverFormula, Numerator: FieldRevenue, Denominator: FieldTotalAssets,
			Policy: LinearBenchmarkPolicy, Params: PolicyParams{Benchmark: 1.2, MaxScore: 85},
			Undefined: UndefinedRule{Kind: UndefinedDefault, Score: 0},
		},
		{
			Key: ReturnOnEquity, Dimension: FinancialDimension, DisplayName: "Return on Equity",
			Weight: 0.6, Formula: ReturnFormula, Numerator: FieldNetIncome, Denominator: FieldTotalEquity,
			Policy: SegmentedPiecewisePolicy, Params: PolicyParams{Segments: []Segment{
				{Lower: -inf, Upper: 0, Scale: 10, Span: 25, Absolute: true, Saturate: true},
				{Lower: 0, Upper: 0.15, IncludeLower: true, IncludeUpper: true, Scale: 0.15, Base: 50, Span: 33},
				{Lower: 0.15, Upper: inf, Origin: 0.15, Scale: 0.15, Base: 83, Span: 17, Saturate: true},
			}},
			Undefined: UndefinedRule{Kind: UndefinedExcluded},
		},
		{
			Key: CurrentRatio, Dimension: FinancialDimension, DisplayName: "Current Ratio",
			Weight: 0.4, Formula: PointRatioFormula, Numerator: FieldCurrentAssets, Denominator: FieldCurrentLiabilities,
			Policy: LinearRangePolicy, Params: PolicyParams{RangeMin: 0, RangeMax: 2},
			Undefined: UndefinedRule{Kind: UndefinedDefault, Score: 0},
		},
		{
			Key: RevenueGrowth, Dimension: FutureDimension, DisplayName: "Revenue Growth",
			Weight: 0.5, Formula: GrowthFormula, Numerator: FieldRevenue,
			Policy: SegmentedPiecewisePolicy, Params: PolicyParams{Segments: []Segment{
				{Lower: -inf, Upper: -0.2},
				{Lower: -0.2, Upper: 0, IncludeLower: true, Scale: 1, Base: 25, Span: 125},
				{Lower: 0, Upper: inf, IncludeLower: true, Scale: 1, Base: 50, Span: 250},
			}},
			Undefined: UndefinedRule{Kind: UndefinedDefault, Score: 50},
		},
		{
			Key: RevenueCAGR, Dimension: FutureDimension, DisplayName: "Revenue CAGR",
			Weight: 0.5, Formula: CAGRFormula, Numerator: FieldRevenue,
			Policy: LinearRangePolicy, Params: PolicyParams{RangeMin: -0.10, RangeMax: 0.20},
			Undefined: UndefinedRule{Kind: UndefinedExcluded},
		},
	}
}

// DefaultRegistry returns the stock registry.
func DefaultRegistry() *Registry {
	r, err := NewRegistry(DefaultMetricDefinitions(), GetDefaultDimensionWeights())
	if err != nil {
		panic(err) // stock catalogue is always valid
	}
	return r
}
