package outwriter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/huangsam/finscore/internal/contract"
	"github.com/huangsam/finscore/internal/parquet"
	"github.com/huangsam/finscore/schema"
)

// ratioPrecision is the number of decimals shown for raw ratios.
const ratioPrecision = 4

// errParquetNeedsFile is returned when Parquet output would go to the terminal.
var errParquetNeedsFile = errors.New("parquet output requires --output-file")

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeParquet writes rows to the configured output file. Stdout is refused.
func writeParquet[T any](outputFile string, rows []T) error {
	if outputFile == "" {
		return errParquetNeedsFile
	}
	return writeWithFile(outputFile, func(w io.Writer) error {
		return parquet.Write(w, rows)
	}, "Wrote Parquet")
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVWithHeader handles the common pattern of creating a CSV writer,
// writing a header, and writing data rows.
func writeCSVWithHeader(w io.Writer, header []string, writeRows func(*csv.Writer) error) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	if err := writeRows(csvWriter); err != nil {
		return err
	}

	csvWriter.Flush()
	return csvWriter.Error()
}

// createFormatters creates the score and ratio formatters shared by all output types.
// A nil ratio renders as empty so CSV consumers see a missing value.
func createFormatters(precision int) (fmtFloat func(float64) string, fmtRatio func(*float64) string) {
	fmtFloat = func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
	fmtRatio = func(v *float64) string {
		if v == nil {
			return ""
		}
		return strconv.FormatFloat(*v, 'f', ratioPrecision, 64)
	}
	return fmtFloat, fmtRatio
}

// metricOrder returns the metric keys in registry order, or the canonical order without a registry.
func metricOrder(reg *schema.Registry) []schema.MetricKey {
	if reg == nil {
		return append([]schema.MetricKey(nil), schema.AllMetrics...)
	}
	defs := reg.Definitions()
	order := make([]schema.MetricKey, len(defs))
	for i, d := range defs {
		order[i] = d.Key
	}
	return order
}

// metricName returns the display name of a metric, falling back to its key.
func metricName(reg *schema.Registry, key schema.MetricKey) string {
	if reg != nil {
		if d, err := reg.Definition(key); err == nil {
			return d.DisplayName
		}
	}
	return string(key)
}
