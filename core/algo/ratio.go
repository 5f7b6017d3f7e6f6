// Package algo turns raw statement fields into ratios and ratios into bounded scores.
package algo

import (
	"math"
	"slices"

	"github.com/huangsam/finscore/schema"
)

// Reasons a ratio can be undefined.
const (
	ReasonNoData          = "no statement data"
	ReasonZeroDenominator = "denominator is zero"
	ReasonNonPositiveBase = "base is zero or negative"
	ReasonNoPriorYear     = "prior year missing"
	ReasonShortHistory    = "history spans less than one year"
	ReasonNonFinite       = "result is not finite"
	ReasonUnknownFormula  = "unknown formula"
)

// RatioOutcome is either a defined ratio value or the reason it is undefined.
// Aux carries the intermediates that produced the value.
type RatioOutcome struct {
	Value   float64
	Defined bool
	Reason  string
	Aux     map[string]float64
}

// Defined builds a defined outcome.
func Defined(v float64, aux map[string]float64) RatioOutcome {
	return RatioOutcome{Value: v, Defined: true, Aux: aux}
}

// Undefined builds an undefined outcome.
func Undefined(reason string) RatioOutcome {
	return RatioOutcome{Reason: reason}
}

// ComputeRatio derives the ratio of one metric from the current year, the optional
// prior year and, for CAGR, the ascending revenue history.
// Any NaN or infinite result is reported as undefined.
func ComputeRatio(def schema.MetricDefinition, current, prior *schema.RawStatementYear, history []schema.RawStatementYear) RatioOutcome {
	var out RatioOutcome
	switch def.Formula {
	case schema.TurnoverFormula:
		out = averagedRatio(def, current, prior, false)
	case schema.ReturnFormula:
		out = averagedRatio(def, current, prior, true)
	case schema.PointRatioFormula:
		if current == nil {
			return Undefined(ReasonNoData)
		}
		num, den := current.Field(def.Numerator), current.Field(def.Denominator)
		if den == 0 {
			return Undefined(ReasonZeroDenominator)
		}
		out = Defined(num/den, map[string]float64{"numerator": num, "denominator": den})
	case schema.GrowthFormula:
		out = growth(def, current, prior)
	case schema.CAGRFormula:
		out = cagr(def, history)
	default:
		return Undefined(ReasonUnknownFormula)
	}
	if out.Defined && !finite(out.Value) {
		return Undefined(ReasonNonFinite)
	}
	for k, v := range out.Aux {
		if !finite(v) {
			delete(out.Aux, k)
		}
	}
	return out
}

// averagedRatio is numerator / avg(denominator over current and prior year).
// A missing prior year averages the current balance with itself.
func averagedRatio(def schema.MetricDefinition, current, prior *schema.RawStatementYear, positiveBase bool) RatioOutcome {
	if current == nil {
		return Undefined(ReasonNoData)
	}
	base := current
	if prior != nil {
		base = prior
	}
	num := current.Field(def.Numerator)
	avg := (current.Field(def.Denominator) + base.Field(def.Denominator)) / 2
	switch {
	case positiveBase && avg <= 0:
		return Undefined(ReasonNonPositiveBase)
	case avg == 0:
		return Undefined(ReasonZeroDenominator)
	}
	return Defined(num/avg, map[string]float64{"numerator": num, "average_denominator": avg})
}

func growth(def schema.MetricDefinition, current, prior *schema.RawStatementYear) RatioOutcome {
	if current == nil {
		return Undefined(ReasonNoData)
	}
	if prior == nil {
		return Undefined(ReasonNoPriorYear)
	}
	cur, prev := current.Field(def.Numerator), prior.Field(def.Numerator)
	if prev <= 0 {
		return Undefined(ReasonNonPositiveBase)
	}
	return Defined((cur-prev)/prev, map[string]float64{"current": cur, "prior": prev})
}

func cagr(def schema.MetricDefinition, history []schema.RawStatementYear) RatioOutcome {
	if len(history) == 0 {
		return Undefined(ReasonNoData)
	}
	sorted := slices.Clone(history)
	slices.SortFunc(sorted, func(a, b schema.RawStatementYear) int { return a.FiscalYear - b.FiscalYear })
	first, last := sorted[0], sorted[len(sorted)-1]
	years := last.FiscalYear - first.FiscalYear
	if years < 1 {
		return Undefined(ReasonShortHistory)
	}
	begin, end := first.Field(def.Numerator), last.Field(def.Numerator)
	if begin <= 0 {
		return Undefined(ReasonNonPositiveBase)
	}
	v := math.Pow(end/begin, 1/float64(years)) - 1
	return Defined(v, map[string]float64{"begin": begin, "end": end, "years": float64(years)})
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
