package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/internal/parquet"
	"github.com/huangsam/madu/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// outputEntry is one ranked row or group as written by the structured formats.
type outputEntry struct {
	Rank     int                 `json:"rank" yaml:"rank"`
	Key      string              `json:"key" yaml:"key"`
	Value    float64             `json:"value" yaml:"value"`
	Label    string              `json:"label" yaml:"label"`
	Files    int                 `json:"files" yaml:"files"`
	Language string              `json:"language,omitempty" yaml:"language,omitempty"`
	Author   string              `json:"author,omitempty" yaml:"author,omitempty"`
	Metrics  *schema.MetricSet   `json:"metrics,omitempty" yaml:"metrics,omitempty"`
	History  *schema.FileHistory `json:"history,omitempty" yaml:"history,omitempty"`
}

// outputDocument is the JSON and YAML shape of an analysis result.
type outputDocument struct {
	Metric           schema.MetricKind `json:"metric" yaml:"metric"`
	Group            schema.GroupMode  `json:"group,omitempty" yaml:"group,omitempty"`
	Total            *float64          `json:"total" yaml:"total"`
	Aggregation      string            `json:"aggregation" yaml:"aggregation"`
	Counted          int               `json:"counted" yaml:"counted"`
	Scanned          int               `json:"scanned" yaml:"scanned"`
	Skipped          int               `json:"skipped" yaml:"skipped"`
	HistoryAvailable bool              `json:"history_available" yaml:"history_available"`
	HistoryError     string            `json:"history_error,omitempty" yaml:"history_error,omitempty"`
	DurationMs       int64             `json:"duration_ms" yaml:"duration_ms"`
	Entries          []outputEntry     `json:"entries" yaml:"entries"`
}

// buildEntries flattens rows or groups into ranked entries.
// Ranks continue after the skipped entries.
func buildEntries(result *schema.AnalysisResult, cfg *contract.Config) []outputEntry {
	heat := heatScale(cfg, result)
	if result.Group != schema.NoGroup {
		out := make([]outputEntry, len(result.Groups))
		for i, g := range result.Groups {
			out[i] = outputEntry{
				Rank:     cfg.Skip + i + 1,
				Key:      g.Key,
				Value:    g.Value,
				Label:    contract.GetPlainLabel(heat(g.Value, g.Count)),
				Files:    g.Count,
				Language: g.Language,
			}
		}
		return out
	}

	out := make([]outputEntry, len(result.Rows))
	for i, r := range result.Rows {
		metricSet := r.Metrics
		out[i] = outputEntry{
			Rank:    cfg.Skip + i + 1,
			Key:     r.Path,
			Value:   r.Value,
			Label:   contract.GetPlainLabel(heat(r.Value, 1)),
			Files:   1,
			Author:  r.Author(),
			Metrics: &metricSet,
			History: r.History,
		}
	}
	return out
}

func buildDocument(result *schema.AnalysisResult, cfg *contract.Config) outputDocument {
	doc := outputDocument{
		Metric:           result.Metric,
		Group:            result.Group,
		Aggregation:      string(result.Total.Aggregation),
		Counted:          result.Total.Count,
		Scanned:          result.Scanned,
		Skipped:          result.Skipped,
		HistoryAvailable: result.HistoryAvailable,
		HistoryError:     result.HistoryError,
		DurationMs:       result.Duration.Milliseconds(),
		Entries:          buildEntries(result, cfg),
	}
	if result.Total.Defined {
		total := result.Total.Value
		doc.Total = &total
	}
	return doc
}

// writeResultTable writes the human-readable table with the total and a summary line.
func writeResultTable(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	grouped := result.Group != schema.NoGroup
	headers := []string{"Rank", keyHeader(result.Group)}
	if result.Group == schema.SummaryGroup {
		headers = append(headers, "Language")
	}
	if grouped {
		headers = append(headers, "Files")
	}
	headers = append(headers, result.Metric.Label(), "Heat")
	if !grouped && cfg.ShowAuthor {
		headers = append(headers, "Author")
	}
	table.Header(headers)

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 2. Populate Rows
	heat := heatScale(cfg, result)
	averaged := grouped && result.Metric.Aggregation() == schema.MeanAgg
	pathWidth := GetMaxTablePathWidth(cfg)
	cell := func(value float64, files int) (string, string) {
		text := formatValue(result.Metric, value, cfg.Precision, averaged)
		h := heat(value, files)
		if cfg.UseColors {
			return contract.Colorize(text, h), contract.GetColorLabel(h)
		}
		return text, contract.GetPlainLabel(h)
	}

	var data [][]string
	for _, e := range buildEntries(result, cfg) {
		row := []string{strconv.Itoa(e.Rank), contract.TruncatePath(e.Key, pathWidth)}
		if result.Group == schema.SummaryGroup {
			row = append(row, e.Language)
		}
		if grouped {
			row = append(row, strconv.Itoa(e.Files))
		}
		value, label := cell(e.Value, e.Files)
		row = append(row, value, label)
		if !grouped && cfg.ShowAuthor {
			row = append(row, schema.FormatAuthor(e.Author))
		}
		data = append(data, row)
	}

	// 3. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	return writeSummary(w, result, cfg)
}

func writeSummary(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config) error {
	if _, err := fmt.Fprintln(w, formatTotal(result, cfg.Precision)); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Scanned %d files (%d skipped) in %v with %d workers. Cache backend: %s\n",
		result.Scanned, result.Skipped, result.Duration.Round(time.Millisecond), cfg.Workers, cfg.CacheBackend)
	return err
}

// writeResultCSV writes one record per entry. Values are raw numbers.
func writeResultCSV(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config) error {
	csvWriter := csv.NewWriter(w)
	header := []string{"rank", "key", "metric", "value", "label", "files", "language", "author"}
	if err := csvWriter.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, e := range buildEntries(result, cfg) {
		rec := []string{
			strconv.Itoa(e.Rank),
			e.Key,
			string(result.Metric),
			formatRaw(e.Value, cfg.Precision),
			e.Label,
			strconv.Itoa(e.Files),
			e.Language,
			e.Author,
		}
		if err := csvWriter.Write(rec); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// writeResultParquet writes the ranked entries as parquet records.
func writeResultParquet(result *schema.AnalysisResult, cfg *contract.Config, outputPath string) error {
	now := time.Now()
	entries := buildEntries(result, cfg)
	records := make([]parquet.ResultRecord, len(entries))
	for i, e := range entries {
		records[i] = parquet.ResultRecord{
			Rank:         int32(e.Rank),
			Key:          e.Key,
			Metric:       string(result.Metric),
			Value:        e.Value,
			Label:        e.Label,
			FileCount:    int32(e.Files),
			Author:       optionalString(e.Author),
			Language:     optionalString(e.Language),
			AnalysisTime: now,
		}
	}
	return parquet.WriteResultsParquet(records, outputPath)
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
