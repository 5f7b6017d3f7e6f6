package core

import (
	"fmt"
	"math"

	"github.com/huangsam/finscore/schema"
)

// ValidateCalculationResults reports final scores outside [0, 100] as warnings.
// The report itself is left untouched.
func ValidateCalculationResults(r schema.CompanyMetricsReport) []schema.ValidationIssue {
	issues := []schema.ValidationIssue{}
	check := func(field string, v float64) {
		switch {
		case math.IsNaN(v) || math.IsInf(v, 0):
			issues = append(issues, schema.ValidationIssue{Field: field, Message: fmt.Sprintf("%s is not a finite number", field)})
		case v < 0 || v > 100:
			issues = append(issues, schema.ValidationIssue{
				Field:   field,
				Value:   v,
				Message: fmt.Sprintf("%s score %.2f is outside [0, 100]", field, v),
			})
		}
	}

	for _, dim := range schema.AllDimensions {
		if v, ok := r.DimensionScores[dim]; ok {
			check("dimension."+string(dim), v)
		}
	}
	check("overall", r.OverallScore)
	return issues
}
