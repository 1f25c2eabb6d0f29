package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"

	"github.com/huangsam/madu/core/metrics"
	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/schema"
	"gopkg.in/yaml.v3"
)

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

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeYAML mirrors writeJSON for YAML documents.
func writeYAML(w io.Writer, data any) error {
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// formatValue renders a metric value for humans. Sizes use binary units,
// fractional kinds and averages use the configured precision, and
// everything else is a whole number.
func formatValue(kind schema.MetricKind, v float64, precision int, averaged bool) string {
	switch {
	case kind == schema.SizeMetric:
		return metrics.FormatSize(int64(math.Round(v)))
	case kind.IsFractional() || averaged:
		return strconv.FormatFloat(v, 'f', precision, 64)
	default:
		return strconv.FormatInt(int64(math.Round(v)), 10)
	}
}

// formatRaw renders a value for machine-readable formats.
func formatRaw(v float64, precision int) string {
	if v == math.Trunc(v) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// formatTotal describes the total line printed under a table.
func formatTotal(result *schema.AnalysisResult, precision int) string {
	t := result.Total
	name := "Total"
	switch t.Aggregation {
	case schema.MeanAgg:
		name = "Average"
	case schema.MaxAgg:
		name = "Max"
	}
	noun := "files"
	if t.Count == 1 {
		noun = "file"
	}
	if !t.Defined {
		return fmt.Sprintf("%s %s: n/a (no %s)", name, result.Metric.Label(), noun)
	}
	value := formatValue(result.Metric, t.Value, precision, t.Aggregation == schema.MeanAgg)
	return fmt.Sprintf("%s %s: %s across %d %s", name, result.Metric.Label(), value, t.Count, noun)
}

// heatScale returns the function that places a value on the 0-100 heat scale.
// With --max-lines the ceiling is that value per file; otherwise percentages
// use 100 and everything else uses the largest value shown.
func heatScale(cfg *contract.Config, result *schema.AnalysisResult) func(value float64, files int) float64 {
	largest := 0.0
	for _, e := range result.Entries() {
		largest = max(largest, e.Value)
	}
	return func(value float64, files int) float64 {
		switch {
		case cfg.MaxLines > 0:
			return contract.HeatPercent(value, float64(cfg.MaxLines*max(files, 1)))
		case result.Metric.IsPercentage():
			return contract.HeatPercent(value, 100)
		default:
			return contract.HeatPercent(value, largest)
		}
	}
}

// keyHeader names the key column for the grouping mode.
func keyHeader(group schema.GroupMode) string {
	switch group {
	case schema.SummaryGroup:
		return "Extension"
	case schema.DirsGroup:
		return "Directory"
	default:
		return "Path"
	}
}
