// Package outwriter renders analysis results and watch frames.
package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/schema"
)

// WriteResult writes one analysis result in the configured output format,
// to cfg.OutputFile or stdout.
func WriteResult(result *schema.AnalysisResult, cfg *contract.Config) error {
	if cfg.Output == schema.ParquetOut {
		if err := writeResultParquet(result, cfg, cfg.OutputFile); err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", cfg.OutputFile)
		return nil
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeResult(w, result, cfg)
	}, "Wrote "+string(cfg.Output))
}

// writeResult dispatches on the output format for every format that streams.
func writeResult(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeJSON(w, buildDocument(result, cfg)); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.YAMLOut:
		if err := writeYAML(w, buildDocument(result, cfg)); err != nil {
			return fmt.Errorf("error writing YAML output: %w", err)
		}
	case schema.CSVOut:
		if err := writeResultCSV(w, result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeResultTable(w, result, cfg)
	}
	return nil
}

// MarshalResult encodes result as the indented document used by JSON output.
func MarshalResult(result *schema.AnalysisResult, cfg *contract.Config) ([]byte, error) {
	return json.MarshalIndent(buildDocument(result, cfg), "", "  ")
}

// LogAnalysisHeader prints a concise, 2-line header before a one-shot pass.
func LogAnalysisHeader(cfg *contract.Config) {
	logAnalysisHeader(os.Stderr, cfg, time.Now())
}

func logAnalysisHeader(w io.Writer, cfg *contract.Config, now time.Time) {
	rootName := filepath.Base(cfg.RootPath)
	if rootName == "" || rootName == "." {
		rootName = "current"
	}

	// Line 1: root and metric
	mode := ""
	if cfg.Group != schema.NoGroup {
		mode = ", " + string(cfg.Group)
	}
	_, _ = fmt.Fprintf(w, "🔎 Root: %s (Metric: %s%s)\n", rootName, cfg.Metric, mode)

	// Line 2: the history window, when one is queried
	if cfg.NeedsHistory() {
		_, _ = fmt.Fprintf(w, "📅 History: %s → %s\n",
			cfg.HistorySince(now).Format(contract.DateTimeFormat), now.Format(contract.DateTimeFormat))
	}
}
