package schema

// MetricsRenderModel is the registry as presented by the metrics command and the MCP server.
type MetricsRenderModel struct {
	Dimensions []DimensionDefinitionView `json:"dimensions"`
	Metrics    []MetricDefinitionView    `json:"metrics"`
	Tiers      []TierBand                `json:"tiers"`
}

// DimensionDefinitionView describes one dimension and its overall weight.
type DimensionDefinitionView struct {
	Key        DimensionKey `json:"key"`
	Name       string       `json:"name"`
	Weight     float64      `json:"weight"`
	Provenance Provenance   `json:"provenance"`
}

// MetricDefinitionView describes one metric in words.
type MetricDefinitionView struct {
	Key       MetricKey    `json:"key"`
	Name      string       `json:"name"`
	Dimension DimensionKey `json:"dimension"`
	Weight    float64      `json:"weight"`
	Formula   string       `json:"formula"`
	Policy    string       `json:"policy"`
	Undefined string       `json:"undefined"`
}

// BuildMetricsRenderModel summarizes a registry. A nil registry means the defaults.
func BuildMetricsRenderModel(reg *Registry) *MetricsRenderModel {
	if reg == nil {
		reg = DefaultRegistry()
	}
	model := &MetricsRenderModel{Tiers: append([]TierBand(nil), TierBands...)}
	for _, dim := range AllDimensions {
		provenance := ProvidedProvenance
		if dim.IsComputed() {
			provenance = ComputedProvenance
		}
		model.Dimensions = append(model.Dimensions, DimensionDefinitionView{
			Key:        dim,
			Name:       dim.DisplayName(),
			Weight:     reg.DimensionWeight(dim),
			Provenance: provenance,
		})
	}
	for _, d := range reg.Definitions() {
		model.Metrics = append(model.Metrics, MetricDefinitionView{
			Key:       d.Key,
			Name:      d.DisplayName,
			Dimension: d.Dimension,
			Weight:    d.Weight,
			Formula:   FormulaSummary(d),
			Policy:    PolicySummary(d),
			Undefined: UndefinedSummary(d),
		})
	}
	return model
}
