package core

import (
	"time"

	"github.com/huangsam/madu/core/history"
	"github.com/huangsam/madu/core/metrics"
	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/schema"
)

// RowBuilder turns one FileEntry into an AnalysisRow.
type RowBuilder struct {
	cfg   *contract.Config
	entry schema.FileEntry
	row   schema.AnalysisRow
}

// NewRowBuilder is the starting point for building an analysis row.
func NewRowBuilder(cfg *contract.Config, entry schema.FileEntry) *RowBuilder {
	return &RowBuilder{
		cfg:   cfg,
		entry: entry,
		row:   schema.AnalysisRow{Path: entry.Path, Ext: entry.Ext},
	}
}

// ComputeMetrics runs the Metric Engine over the entry content.
func (b *RowBuilder) ComputeMetrics() *RowBuilder {
	b.row.Metrics = metrics.Compute(b.entry, metrics.Options{
		IndentWidth: b.cfg.IndentWidth,
		DupWindow:   b.cfg.DupWindow,
	})
	return b
}

// withRow resumes building from a row measured earlier.
func (b *RowBuilder) withRow(row schema.AnalysisRow) *RowBuilder {
	b.row = row
	return b
}

// AttachHistory joins the file history by path. A missing entry leaves History nil.
func (b *RowBuilder) AttachHistory(histories map[string]schema.FileHistory) *RowBuilder {
	if h, ok := histories[b.row.Path]; ok {
		b.row.History = &h
	}
	return b
}

// ComputeValue selects the value of the active metric kind.
func (b *RowBuilder) ComputeValue(now time.Time) *RowBuilder {
	b.row.Value = MetricValue(b.cfg.Metric, b.row, b.entry.ModTime, now)
	return b
}

// Build returns the finished row.
func (b *RowBuilder) Build() schema.AnalysisRow {
	return b.row
}

// MetricValue computes the value of kind for a row. Historical kinds read 0
// without history, except age which falls back to the modification time.
func MetricValue(kind schema.MetricKind, row schema.AnalysisRow, modTime, now time.Time) float64 {
	switch kind.Family() {
	case schema.StructuralFamily:
		return row.Metrics.Get(kind)
	case schema.CompositeFamily:
		churn := 0
		if row.History != nil {
			churn = row.History.Churn
		}
		return float64(row.Metrics.Complexity * churn)
	}

	switch {
	case kind == schema.BlameMetric:
		return float64(row.Metrics.Lines)
	case row.History != nil:
		return row.History.Get(kind)
	case kind == schema.AgeMetric && !modTime.IsZero():
		return float64(history.AgeDays(modTime, now))
	default:
		return 0
	}
}
