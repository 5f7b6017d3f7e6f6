package contract

import (
	"fmt"
	"maps"
	"math"
	"strings"
	"time"

	"github.com/huangsam/finscore/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 1
	MinFiscalYear    = 1900
	MaxFiscalYear    = 2200
)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// DefaultFiscalYear is the most recent fully closed fiscal year.
func DefaultFiscalYear() int {
	return time.Now().Year() - 1
}

// DimensionWeightsRaw holds custom overall weights. Use float64 pointers for optional fields.
type DimensionWeightsRaw struct {
	Operational *float64 `mapstructure:"operational" validate:"omitempty,gte=0,lte=1"`
	Financial   *float64 `mapstructure:"financial" validate:"omitempty,gte=0,lte=1"`
	Future      *float64 `mapstructure:"future" validate:"omitempty,gte=0,lte=1"`
	AIDigital   *float64 `mapstructure:"ai_digital" validate:"omitempty,gte=0,lte=1"`
	ESG         *float64 `mapstructure:"esg" validate:"omitempty,gte=0,lte=1"`
	Innovation  *float64 `mapstructure:"innovation" validate:"omitempty,gte=0,lte=1"`
}

// MetricWeightsRaw holds custom in-dimension metric weights.
type MetricWeightsRaw struct {
	InventoryTurnover   *float64 `mapstructure:"inventory_turnover" validate:"omitempty,gt=0,lte=1"`
	ReceivablesTurnover *float64 `mapstructure:"receivables_turnover" validate:"omitempty,gt=0,lte=1"`
	TotalAssetsTurnover *float64 `mapstructure:"total_assets_turnover" validate:"omitempty,gt=0,lte=1"`
	ReturnOnEquity      *float64 `mapstructure:"roe" validate:"omitempty,gt=0,lte=1"`
	CurrentRatio        *float64 `mapstructure:"current_ratio" validate:"omitempty,gt=0,lte=1"`
	RevenueGrowth       *float64 `mapstructure:"revenue_growth" validate:"omitempty,gt=0,lte=1"`
	RevenueCAGR         *float64 `mapstructure:"revenue_cagr" validate:"omitempty,gt=0,lte=1"`
}

// WeightsRawInput holds all custom weights from the YAML config file.
type WeightsRawInput struct {
	Dimensions *DimensionWeightsRaw `mapstructure:"dimensions"`
	Metrics    *MetricWeightsRaw    `mapstructure:"metrics"`
}

// PlaceholderScoresRaw holds seeded scores of the externally provided dimensions.
type PlaceholderScoresRaw struct {
	AIDigital  *float64 `mapstructure:"ai_digital" validate:"omitempty,gte=0,lte=100"`
	ESG        *float64 `mapstructure:"esg" validate:"omitempty,gte=0,lte=100"`
	Innovation *float64 `mapstructure:"innovation" validate:"omitempty,gte=0,lte=100"`
}

// PlaceholdersRawInput holds the default and per-company seeds.
type PlaceholdersRawInput struct {
	Default   *PlaceholderScoresRaw           `mapstructure:"default"`
	Companies map[string]PlaceholderScoresRaw `mapstructure:"companies" validate:"dive,keys,numeric,endkeys"`
}

// ThresholdsRawInput holds recommendation thresholds from the YAML config file.
type ThresholdsRawInput struct {
	Overall   *float64 `mapstructure:"overall" validate:"omitempty,lte=0,gte=-100"`
	Dimension *float64 `mapstructure:"dimension" validate:"omitempty,lte=0,gte=-100"`
	Metric    *float64 `mapstructure:"metric" validate:"omitempty,lte=0,gte=-100"`
}

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	TaxIDs     []string
	FiscalYear int
	Detail     bool
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	SourceBackend   schema.DatabaseBackend
	SourceDBConnect string // Please use env var as this is plaintext

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string

	ReportBackend   schema.DatabaseBackend
	ReportDBConnect string

	// Registry is built once from defaults plus weight overrides.
	Registry *schema.Registry

	Placeholders Placeholders
	Thresholds   schema.RecommendationThresholds
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no mapstructure tag
	TaxIDs []string `validate:"dive,required,numeric,min=6,max=20"`

	Year            int    `mapstructure:"year" validate:"gte=1900,lte=2200"`
	Output          string `mapstructure:"output" validate:"oneof=text csv json parquet"`
	OutputFile      string `mapstructure:"output-file"`
	Precision       int    `mapstructure:"precision" validate:"oneof=1 2"`
	Detail          bool   `mapstructure:"detail"`
	Width           int    `mapstructure:"width" validate:"gte=0"`
	Color           string `mapstructure:"color"`
	SourceBackend   string `mapstructure:"source-backend" validate:"oneof=sqlite mysql postgresql none"`
	SourceDBConnect string `mapstructure:"source-db-connect"`
	CacheBackend    string `mapstructure:"cache-backend" validate:"oneof=sqlite mysql postgresql none"`
	CacheDBConnect  string `mapstructure:"cache-db-connect"`
	ReportBackend   string `mapstructure:"report-backend" validate:"omitempty,oneof=sqlite mysql postgresql none"`
	ReportDBConnect string `mapstructure:"report-db-connect"`

	Weights      WeightsRawInput      `mapstructure:"weights"`
	Placeholders PlaceholdersRawInput `mapstructure:"placeholders"`
	Thresholds   ThresholdsRawInput   `mapstructure:"thresholds"`
}

// Clone returns a deep copy of the Config struct. The registry is immutable and shared.
func (c *Config) Clone() *Config {
	clone := *c
	if c.TaxIDs != nil {
		clone.TaxIDs = append([]string(nil), c.TaxIDs...)
	}
	clone.Placeholders = c.Placeholders.Clone()
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	normalizeInput(input)
	if err := ValidateStruct(input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processWeights(cfg, input); err != nil {
		return err
	}
	processPlaceholders(cfg, input)
	processThresholds(cfg, input)
	return nil
}

func normalizeInput(input *ConfigRawInput) {
	input.Output = strings.ToLower(strings.TrimSpace(input.Output))
	input.SourceBackend = strings.ToLower(strings.TrimSpace(input.SourceBackend))
	input.CacheBackend = strings.ToLower(strings.TrimSpace(input.CacheBackend))
	input.ReportBackend = strings.ToLower(strings.TrimSpace(input.ReportBackend))
	for i, id := range input.TaxIDs {
		input.TaxIDs[i] = strings.TrimSpace(id)
	}
}

// validateSimpleInputs transfers fields that need no cross-field checks.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.TaxIDs = append([]string(nil), input.TaxIDs...)
	cfg.FiscalYear = input.Year
	cfg.Detail = input.Detail
	cfg.Precision = input.Precision
	cfg.Output = schema.OutputMode(input.Output)
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}
	return nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(host:port)'")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the source, cache and report backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.SourceBackend = schema.DatabaseBackend(input.SourceBackend)
	cfg.SourceDBConnect = input.SourceDBConnect
	if err := ValidateDatabaseConnectionString(cfg.SourceBackend, cfg.SourceDBConnect); err != nil {
		return fmt.Errorf("source: %w", err)
	}

	cfg.CacheBackend = schema.DatabaseBackend(input.CacheBackend)
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("cache: %w", err)
	}

	cfg.ReportBackend = schema.DatabaseBackend(input.ReportBackend)
	if cfg.ReportBackend != "" {
		cfg.ReportDBConnect = input.ReportDBConnect
		if err := ValidateDatabaseConnectionString(cfg.ReportBackend, cfg.ReportDBConnect); err != nil {
			return fmt.Errorf("report: %w", err)
		}
	}

	// SQLite stores must not share a file with each other.
	paths := map[string]string{}
	check := func(name string, backend schema.DatabaseBackend, connStr, fallback string) error {
		if backend != schema.SQLiteBackend {
			return nil
		}
		p := connStr
		if p == "" {
			p = fallback
		}
		if other, ok := paths[p]; ok {
			return fmt.Errorf("%s and %s storage must use different SQLite database files. Both resolve to %q", other, name, p)
		}
		paths[p] = name
		return nil
	}
	if err := check("source", cfg.SourceBackend, cfg.SourceDBConnect, GetStatementDBFilePath()); err != nil {
		return err
	}
	if err := check("cache", cfg.CacheBackend, cfg.CacheDBConnect, GetCacheDBFilePath()); err != nil {
		return err
	}
	return check("report", cfg.ReportBackend, cfg.ReportDBConnect, GetReportDBFilePath())
}

// ProcessWeightsRawInput converts WeightsRawInput into per-metric and per-dimension overrides.
// If validateSum is true, it validates that each provided group sums to 1.0.
// Metric groups are checked per dimension against the default catalogue.
func ProcessWeightsRawInput(weights WeightsRawInput, validateSum bool) (map[schema.MetricKey]float64, map[schema.DimensionKey]float64, error) {
	metricWeights := make(map[schema.MetricKey]float64)
	if m := weights.Metrics; m != nil {
		raw := map[schema.MetricKey]*float64{
			schema.InventoryTurnover:   m.InventoryTurnover,
			schema.ReceivablesTurnover: m.ReceivablesTurnover,
			schema.TotalAssetsTurnover: m.TotalAssetsTurnover,
			schema.ReturnOnEquity:      m.ReturnOnEquity,
			schema.CurrentRatio:        m.CurrentRatio,
			schema.RevenueGrowth:       m.RevenueGrowth,
			schema.RevenueCAGR:         m.RevenueCAGR,
		}
		for k, v := range raw {
			if v != nil {
				metricWeights[k] = *v
			}
		}
	}
	if validateSum && len(metricWeights) > 0 {
		sums := make(map[schema.DimensionKey]float64)
		touched := make(map[schema.DimensionKey]bool)
		for _, def := range schema.DefaultMetricDefinitions() {
			w := def.Weight
			if v, ok := metricWeights[def.Key]; ok {
				w = v
				touched[def.Dimension] = true
			}
			sums[def.Dimension] += w
		}
		for _, dim := range schema.ComputedDimensions {
			if touched[dim] && math.Abs(sums[dim]-1.0) > 0.001 {
				return nil, nil, fmt.Errorf("custom metric weights for dimension %s must sum to 1.0, got %.3f", dim, sums[dim])
			}
		}
	}

	dimensionWeights := make(map[schema.DimensionKey]float64)
	if d := weights.Dimensions; d != nil {
		raw := map[schema.DimensionKey]*float64{
			schema.OperationalDimension: d.Operational,
			schema.FinancialDimension:   d.Financial,
			schema.FutureDimension:      d.Future,
			schema.AIDigitalDimension:   d.AIDigital,
			schema.ESGDimension:         d.ESG,
			schema.InnovationDimension:  d.Innovation,
		}
		for k, v := range raw {
			if v != nil {
				dimensionWeights[k] = *v
			}
		}
	}
	if validateSum && len(dimensionWeights) > 0 {
		merged := schema.GetDefaultDimensionWeights()
		maps.Copy(merged, dimensionWeights)
		sum := 0.0
		for _, w := range merged {
			sum += w
		}
		if math.Abs(sum-1.0) > 0.001 {
			return nil, nil, fmt.Errorf("custom dimension weights must sum to 1.0, got %.3f", sum)
		}
	}
	return metricWeights, dimensionWeights, nil
}

// processWeights builds the registry from defaults and validated overrides.
func processWeights(cfg *Config, input *ConfigRawInput) error {
	metricWeights, dimensionWeights, err := ProcessWeightsRawInput(input.Weights, true)
	if err != nil {
		return err
	}
	reg, err := schema.DefaultRegistry().WithWeights(metricWeights, dimensionWeights)
	if err != nil {
		return fmt.Errorf("invalid weights: %w", err)
	}
	cfg.Registry = reg
	return nil
}

// processPlaceholders converts the raw seeds into the final placeholder table.
func processPlaceholders(cfg *Config, input *ConfigRawInput) {
	p := Placeholders{
		Default:   schema.GetDefaultPlaceholderScores(),
		Companies: make(map[string]map[schema.DimensionKey]float64),
	}
	if input.Placeholders.Default != nil {
		maps.Copy(p.Default, placeholderMap(*input.Placeholders.Default))
	}
	for taxID, raw := range input.Placeholders.Companies {
		if m := placeholderMap(raw); len(m) > 0 {
			p.Companies[taxID] = m
		}
	}
	cfg.Placeholders = p
}

func placeholderMap(raw PlaceholderScoresRaw) map[schema.DimensionKey]float64 {
	out := make(map[schema.DimensionKey]float64)
	if raw.AIDigital != nil {
		out[schema.AIDigitalDimension] = *raw.AIDigital
	}
	if raw.ESG != nil {
		out[schema.ESGDimension] = *raw.ESG
	}
	if raw.Innovation != nil {
		out[schema.InnovationDimension] = *raw.Innovation
	}
	return out
}

// processThresholds converts the raw threshold input into the final thresholds.
func processThresholds(cfg *Config, input *ConfigRawInput) {
	t := schema.DefaultRecommendationThresholds()
	if input.Thresholds.Overall != nil {
		t.Overall = *input.Thresholds.Overall
	}
	if input.Thresholds.Dimension != nil {
		t.Dimension = *input.Thresholds.Dimension
	}
	if input.Thresholds.Metric != nil {
		t.Metric = *input.Thresholds.Metric
	}
	cfg.Thresholds = t
}
