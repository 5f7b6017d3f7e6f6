package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"

	"github.com/huangsam/finscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRenderModel(t *testing.T) {
	reg, err := schema.DefaultRegistry().WithWeights(map[schema.MetricKey]float64{schema.ReturnOnEquity: 0.9}, nil)
	require.NoError(t, err)

	model := schema.BuildMetricsRenderModel(reg)
	require.Len(t, model.Dimensions, len(schema.AllDimensions))
	require.Len(t, model.Metrics, len(schema.AllMetrics))
	assert.Equal(t, schema.TierBands, model.Tiers)

	assert.Equal(t, schema.ComputedProvenance, model.Dimensions[0].Provenance)
	assert.Equal(t, schema.ProvidedProvenance, model.Dimensions[5].Provenance)

	roe := model.Metrics[3]
	assert.Equal(t, schema.ReturnOnEquity, roe.Key)
	assert.Equal(t, 0.9, roe.Weight)
	assert.Contains(t, roe.Formula, "avg <= 0 undefined")
}

func TestWriteMetricsText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeMetricsText(&buf, schema.BuildMetricsRenderModel(schema.DefaultRegistry())))

	out := buf.String()
	assert.Contains(t, out, "Finscore Metric Registry")
	assert.Contains(t, out, "Operational Efficiency")
	assert.Contains(t, out, "Revenue CAGR")
	assert.Contains(t, out, "NeedsImprovement")
}

func TestWriteCSVMetrics(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVMetrics(&buf, schema.BuildMetricsRenderModel(schema.DefaultRegistry())))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(schema.AllMetrics)+1)
	assert.Equal(t, "metric", records[0][0])
	assert.Equal(t, string(schema.InventoryTurnover), records[1][0])
}

func TestMetricsRenderModel_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeJSON(&buf, schema.BuildMetricsRenderModel(schema.DefaultRegistry())))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded["metrics"], len(schema.AllMetrics))
	assert.Len(t, decoded["dimensions"], len(schema.AllDimensions))
	assert.Len(t, decoded["tiers"], len(schema.TierBands))
}
