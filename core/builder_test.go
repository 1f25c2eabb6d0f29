package core

import (
	"testing"
	"time"

	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/schema"
	"github.com/stretchr/testify/assert"
)

func TestMetricValue(t *testing.T) {
	now := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	hist := &schema.FileHistory{Churn: 4, AgeDays: 9, Ownership: 75, PrimaryAuthor: "Ada"}
	row := schema.AnalysisRow{
		Path:    "a.go",
		Metrics: schema.MetricSet{Lines: 120, Complexity: 6, SizeBytes: 2048},
		History: hist,
	}
	bare := schema.AnalysisRow{Path: "b.go", Metrics: row.Metrics}

	tests := []struct {
		name     string
		kind     schema.MetricKind
		row      schema.AnalysisRow
		modTime  time.Time
		expected float64
	}{
		{"structural lines", schema.LinesMetric, row, time.Time{}, 120},
		{"structural size", schema.SizeMetric, row, time.Time{}, 2048},
		{"hotspots multiplies complexity and churn", schema.HotspotsMetric, row, time.Time{}, 24},
		{"hotspots without history", schema.HotspotsMetric, bare, time.Time{}, 0},
		{"blame reports lines", schema.BlameMetric, bare, time.Time{}, 120},
		{"churn from history", schema.ChurnMetric, row, time.Time{}, 4},
		{"churn without history", schema.ChurnMetric, bare, time.Time{}, 0},
		{"ownership from history", schema.OwnershipMetric, row, time.Time{}, 75},
		{"age from history", schema.AgeMetric, row, now.AddDate(0, 0, -100), 9},
		{"age falls back to mod time", schema.AgeMetric, bare, now.AddDate(0, 0, -5), 5},
		{"age without anything", schema.AgeMetric, bare, time.Time{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MetricValue(tt.kind, tt.row, tt.modTime, now))
		})
	}
}

func TestRowBuilder(t *testing.T) {
	cfg := &contract.Config{Metric: schema.ChurnMetric, IndentWidth: 4, DupWindow: 4}
	entry := schema.FileEntry{Path: "a.go", Ext: "go", Content: []byte("if x {\n\ty()\n}\n")}
	histories := map[string]schema.FileHistory{"a.go": {Churn: 3, PrimaryAuthor: "Ada"}}

	row := NewRowBuilder(cfg, entry).
		ComputeMetrics().
		AttachHistory(histories).
		ComputeValue(time.Now()).
		Build()

	assert.Equal(t, "a.go", row.Path)
	assert.Equal(t, "go", row.Ext)
	assert.Equal(t, 3, row.Metrics.Lines)
	assert.Equal(t, 2, row.Metrics.Complexity)
	assert.Equal(t, 3.0, row.Value)
	assert.Equal(t, "Ada", row.Author())

	missing := NewRowBuilder(cfg, schema.FileEntry{Path: "b.go"}).AttachHistory(histories).Build()
	assert.Nil(t, missing.History)
	assert.Empty(t, missing.Author())
}
