package schema

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
)

// dimensionNames are the human-readable dimension labels.
var dimensionNames = map[DimensionKey]string{
	OperationalDimension: "Operational Efficiency",
	FinancialDimension:   "Financial Health",
	FutureDimension:      "Future Growth",
	AIDigitalDimension:   "AI & Digital",
	ESGDimension:         "ESG",
	InnovationDimension:  "Innovation",
}

// DisplayName returns the human-readable label of a dimension.
func (d DimensionKey) DisplayName() string {
	if name, ok := dimensionNames[d]; ok {
		return name
	}
	return string(d)
}

// IsComputed reports whether the dimension is derived from statement data.
func (d DimensionKey) IsComputed() bool {
	for _, c := range ComputedDimensions {
		if c == d {
			return true
		}
	}
	return false
}

// HasComparedMetrics reports whether metrics of the dimension get their own comparison delta.
func (d DimensionKey) HasComparedMetrics() bool {
	return slices.Contains(MetricComparedDimensions, d)
}

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 {
	return &v
}

// FormulaSummary renders the ratio formula of a definition in words.
func FormulaSummary(d MetricDefinition) string {
	switch d.Formula {
	case TurnoverFormula:
		return fmt.Sprintf("%s / avg(%s)", d.Numerator, d.Denominator)
	case ReturnFormula:
		return fmt.Sprintf("%s / avg(%s), avg <= 0 undefined", d.Numerator, d.Denominator)
	case PointRatioFormula:
		return fmt.Sprintf("%s / %s", d.Numerator, d.Denominator)
	case GrowthFormula:
		return fmt.Sprintf("(%s - prior) / prior", d.Numerator)
	case CAGRFormula:
		return fmt.Sprintf("(latest %s / earliest %s)^(1/years) - 1", d.Numerator, d.Numerator)
	default:
		return string(d.Formula)
	}
}

// PolicySummary renders the scoring policy of a definition in words.
func PolicySummary(d MetricDefinition) string {
	p := d.Params
	switch d.Policy {
	case LinearBenchmarkPolicy:
		return fmt.Sprintf("x / %s * %s", fmtNum(p.Benchmark), fmtNum(p.MaxScore))
	case LinearRangePolicy:
		return fmt.Sprintf("range [%s, %s] -> [0, 100]", fmtNum(p.RangeMin), fmtNum(p.RangeMax))
	case SegmentedPiecewisePolicy:
		parts := make([]string, 0, len(p.Segments))
		for _, s := range p.Segments {
			parts = append(parts, fmt.Sprintf("%s: %s", segmentBounds(s), segmentExpr(s)))
		}
		return strings.Join(parts, "; ")
	default:
		return string(d.Policy)
	}
}

// UndefinedSummary renders the undefined rule of a definition.
func UndefinedSummary(d MetricDefinition) string {
	if d.Undefined.Kind == UndefinedDefault {
		return fmtNum(d.Undefined.Score)
	}
	return "excluded"
}

func segmentBounds(s Segment) string {
	left, right := "(", ")"
	if s.IncludeLower {
		left = "["
	}
	if s.IncludeUpper {
		right = "]"
	}
	return left + fmtNum(s.Lower) + ", " + fmtNum(s.Upper) + right
}

func segmentExpr(s Segment) string {
	if s.Span == 0 || s.Scale == 0 {
		return fmtNum(s.Base)
	}
	f := "x"
	if s.Origin != 0 {
		f = "(x - " + fmtNum(s.Origin) + ")"
	}
	if s.Scale != 1 {
		f += " / " + fmtNum(s.Scale)
	}
	if s.Absolute {
		f = "|" + f + "|"
	}
	if s.Saturate {
		f = "min(" + f + ", 1)"
	}
	expr := fmtNum(s.Span) + " * " + f
	if s.Base != 0 {
		expr = fmtNum(s.Base) + " + " + expr
	}
	return expr
}

func fmtNum(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}
