package core

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/huangsam/finscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCalculationResults(t *testing.T) {
	tests := []struct {
		name       string
		report     schema.CompanyMetricsReport
		wantFields []string
	}{
		{
			name:   "all in range",
			report: reportWith(100, map[schema.DimensionKey]float64{schema.OperationalDimension: 0, schema.ESGDimension: 100}),
		},
		{
			name:       "dimension above range",
			report:     reportWith(80, map[schema.DimensionKey]float64{schema.FinancialDimension: 100.5}),
			wantFields: []string{"dimension.financial"},
		},
		{
			name: "overall and dimension below range",
			report: reportWith(-1, map[schema.DimensionKey]float64{
				schema.OperationalDimension: -0.01,
				schema.FutureDimension:      50,
			}),
			wantFields: []string{"dimension.operational", "overall"},
		},
		{
			name:       "not finite",
			report:     reportWith(math.NaN(), map[schema.DimensionKey]float64{schema.InnovationDimension: math.Inf(1)}),
			wantFields: []string{"dimension.innovation", "overall"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issues := ValidateCalculationResults(tt.report)
			require.NotNil(t, issues)
			fields := make([]string, 0, len(issues))
			for _, issue := range issues {
				fields = append(fields, issue.Field)
				assert.NotEmpty(t, issue.Message)
			}
			if len(tt.wantFields) == 0 {
				assert.Empty(t, fields)
				return
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidateCalculationResults_Encodable(t *testing.T) {
	issues := ValidateCalculationResults(reportWith(math.Inf(-1), nil))
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "not a finite number")

	_, err := json.Marshal(issues)
	assert.NoError(t, err)
}

func TestValidateCalculationResults_Message(t *testing.T) {
	issues := ValidateCalculationResults(reportWith(104.256, nil))
	require.Len(t, issues, 1)
	assert.Equal(t, 104.256, issues[0].Value)
	assert.Equal(t, "overall score 104.26 is outside [0, 100]", issues[0].Message)
}
