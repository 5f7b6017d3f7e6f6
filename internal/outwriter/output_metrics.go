package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintMetricsDefinitions displays the metric registry in effect.
// This is a static display that does not read any statements.
func PrintMetricsDefinitions(reg *schema.Registry, cfg *contract.Config) error {
	model := schema.BuildMetricsRenderModel(reg)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, model)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVMetrics(w, model)
		}, "Wrote CSV")
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for metric definitions")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeMetricsText(w, model)
		}, "Wrote text")
	}
}

func writeCSVMetrics(w io.Writer, model *schema.MetricsRenderModel) error {
	header := []string{"metric", "name", "dimension", "weight", "formula", "policy", "undefined"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, m := range model.Metrics {
			row := []string{
				string(m.Key),
				m.Name,
				string(m.Dimension),
				strconv.FormatFloat(m.Weight, 'f', -1, 64),
				m.Formula,
				m.Policy,
				m.Undefined,
			}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeMetricsText(w io.Writer, model *schema.MetricsRenderModel) error {
	if _, err := fmt.Fprintf(w, "📐 Finscore Metric Registry\n==========================\n\n"); err != nil {
		return err
	}

	dims := tablewriter.NewWriter(w)
	dims.Header([]string{"Dimension", "Weight", "Source"})
	var data [][]string
	for _, d := range model.Dimensions {
		data = append(data, []string{d.Name, strconv.FormatFloat(d.Weight, 'f', 2, 64), string(d.Provenance)})
	}
	if err := dims.Bulk(data); err != nil {
		return err
	}
	if err := dims.Render(); err != nil {
		return err
	}

	metrics := tablewriter.NewWriter(w)
	metrics.Header([]string{"Metric", "Dimension", "Weight", "Formula", "Score", "Undefined"})
	metrics.Configure(func(c *tablewriter.Config) {
		c.Row.Alignment.Global = tw.AlignLeft
	})
	data = data[:0]
	for _, m := range model.Metrics {
		data = append(data, []string{
			m.Name,
			string(m.Dimension),
			strconv.FormatFloat(m.Weight, 'f', 2, 64),
			m.Formula,
			m.Policy,
			m.Undefined,
		})
	}
	if err := metrics.Bulk(data); err != nil {
		return err
	}
	if err := metrics.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "\n🏅 Tiers\n"); err != nil {
		return err
	}
	for _, band := range model.Tiers {
		if _, err := fmt.Fprintf(w, "   %-18s %3.0f - %3.0f\n", band.Tier, band.Min, band.Max); err != nil {
			return err
		}
	}
	return nil
}
