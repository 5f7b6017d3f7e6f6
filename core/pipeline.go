package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/finscore/core/agg"
	"github.com/huangsam/finscore/core/algo"
	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
	"golang.org/x/sync/errgroup"
)

// ErrCompanyNotFound is returned when no metric family has data for a company-year.
var ErrCompanyNotFound = errors.New("company not found")

// Processor runs the metric, dimension and overall scoring pipeline against a data source.
// It holds no per-request state and is safe for concurrent use.
type Processor struct {
	registry     *schema.Registry
	engine       *algo.PolicyEngine
	source       contract.DataSource
	placeholders contract.Placeholders
	thresholds   schema.RecommendationThresholds
	now          func() time.Time
	newID        func() string
}

// Option customizes a Processor.
type Option func(*Processor)

// WithPlaceholders sets the seeds of the provided dimensions.
func WithPlaceholders(p contract.Placeholders) Option {
	return func(proc *Processor) { proc.placeholders = p }
}

// WithThresholds sets the recommendation thresholds.
func WithThresholds(t schema.RecommendationThresholds) Option {
	return func(proc *Processor) { proc.thresholds = t }
}

// WithClock sets the clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(proc *Processor) { proc.now = now }
}

// WithIDGenerator sets the generator used for report ids.
func WithIDGenerator(newID func() string) Option {
	return func(proc *Processor) { proc.newID = newID }
}

// NewProcessor builds a processor over the given registry and data source.
func NewProcessor(reg *schema.Registry, source contract.DataSource, opts ...Option) (*Processor, error) {
	if reg == nil {
		return nil, errors.New("registry is required")
	}
	if source == nil {
		return nil, errors.New("data source is required")
	}
	engine, err := algo.NewPolicyEngine(reg)
	if err != nil {
		return nil, err
	}
	p := &Processor{
		registry:   reg,
		engine:     engine,
		source:     source,
		thresholds: schema.DefaultRecommendationThresholds(),
		now:        time.Now,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Registry returns the registry the processor scores with.
func (p *Processor) Registry() *schema.Registry {
	return p.registry
}

// ProcessCompanyMetrics fetches every metric family of one company-year concurrently
// and scores it. Absent families count as undefined ratios; a fetch failure aborts
// the whole report and is returned wrapped.
func (p *Processor) ProcessCompanyMetrics(ctx context.Context, taxID string, fiscalYear int) (*schema.CompanyMetricsReport, error) {
	defs := p.registry.Definitions()
	rows, err := p.fetchAll(ctx, defs, taxID, fiscalYear)
	if err != nil {
		return nil, err
	}
	return p.buildReport(defs, rows, taxID, fiscalYear)
}

// fetchAll issues one request per metric family. All must finish before scoring.
func (p *Processor) fetchAll(ctx context.Context, defs []schema.MetricDefinition, taxID string, fiscalYear int) ([]*schema.RawMetricRow, error) {
	rows := make([]*schema.RawMetricRow, len(defs))
	g, gctx := errgroup.WithContext(ctx)
	for i, def := range defs {
		g.Go(func() error {
			row, err := p.source.FetchMetricRow(gctx, def.Key, taxID, fiscalYear)
			if err != nil {
				return fmt.Errorf("fetch %s for %s/%d: %w", def.Key, taxID, fiscalYear, err)
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	for _, row := range rows {
		if row != nil {
			return rows, nil
		}
	}
	return nil, fmt.Errorf("%w: %s (fiscal year %d)", ErrCompanyNotFound, taxID, fiscalYear)
}

func (p *Processor) buildReport(defs []schema.MetricDefinition, rows []*schema.RawMetricRow, taxID string, fiscalYear int) (*schema.CompanyMetricsReport, error) {
	report := &schema.CompanyMetricsReport{
		Company:         schema.CompanyInfo{TaxID: taxID, FiscalYear: fiscalYear},
		DimensionScores: make(map[schema.DimensionKey]float64, len(schema.AllDimensions)),
		Metrics:         make(map[schema.MetricKey]schema.MetricResult, len(defs)),
	}

	byDimension := make(map[schema.DimensionKey][]schema.MetricResult)
	for i, def := range defs {
		res, err := p.engine.Evaluate(def.Key, rows[i])
		if err != nil {
			return nil, err
		}
		report.Metrics[def.Key] = res
		byDimension[def.Dimension] = append(byDimension[def.Dimension], res)
		if report.Company.Name == "" && rows[i] != nil {
			report.Company.Name = rows[i].CompanyName
		}
	}

	seeds := p.placeholders.For(taxID)
	for _, dim := range schema.AllDimensions {
		w := p.registry.DimensionWeight(dim)
		var ds schema.DimensionScore
		if dim.IsComputed() {
			ds = agg.ComputedDimension(dim, w, byDimension[dim])
		} else {
			ds = agg.ProvidedDimension(dim, w, seeds[dim])
		}
		report.Dimensions = append(report.Dimensions, ds)
		report.DimensionScores[dim] = ds.Score
	}

	report.OverallScore = agg.AggregateOverall(report.DimensionScores, p.registry.DimensionWeights())
	report.Tier = agg.TierOf(report.OverallScore)
	return report, nil
}

// ProcessComparisonData scores two companies concurrently and diffs them.
func (p *Processor) ProcessComparisonData(ctx context.Context, primaryTaxID, compareTaxID string, fiscalYear int) (*schema.ComparisonResult, error) {
	var primary, compare *schema.CompanyMetricsReport
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r, err := p.ProcessCompanyMetrics(gctx, primaryTaxID, fiscalYear)
		primary = r
		return err
	})
	g.Go(func() error {
		r, err := p.ProcessCompanyMetrics(gctx, compareTaxID, fiscalYear)
		compare = r
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	analysis := Compare(*primary, *compare)
	analysis.Recommendations = GenerateRecommendations(analysis, p.thresholds, p.registry)
	return &schema.ComparisonResult{
		Primary:  *primary,
		Compare:  *compare,
		Analysis: analysis,
	}, nil
}

// GenerateCompanyReport scores one company and adds the radar series,
// post-hoc validation warnings and report metadata.
func (p *Processor) GenerateCompanyReport(ctx context.Context, taxID string, fiscalYear int) (*schema.CompanyReport, error) {
	report, err := p.ProcessCompanyMetrics(ctx, taxID, fiscalYear)
	if err != nil {
		return nil, err
	}
	return &schema.CompanyReport{
		ReportID:         p.newID(),
		GeneratedAt:      p.now().UTC(),
		Report:           *report,
		RadarSeries:      RadarSeries(*report),
		ValidationErrors: ValidateCalculationResults(*report),
	}, nil
}

// RadarSeries returns the dimension scores in canonical order.
func RadarSeries(r schema.CompanyMetricsReport) []schema.RadarPoint {
	out := make([]schema.RadarPoint, 0, len(schema.AllDimensions))
	for _, dim := range schema.AllDimensions {
		out = append(out, schema.RadarPoint{Dimension: dim, Score: r.DimensionScores[dim]})
	}
	return out
}
