// Package schema has the data types shared by every layer of madu.
package schema

import "time"

// FileEntry is one candidate file read for a single analysis pass.
// It is not mutated after creation.
type FileEntry struct {
	Path    string    // Slash-separated path relative to the analysis root
	Ext     string    // Lower-case extension without the dot
	Size    int64     // Size in bytes
	Content []byte    // Raw content, owned for the duration of one pass
	ModTime time.Time // Filesystem modification time
}

// MetricSet holds the structural metrics of one FileEntry.
// All values are non-negative and DuplicatesPct is within [0,100].
type MetricSet struct {
	Lines         int     `json:"lines"`
	SizeBytes     int64   `json:"size_bytes"`
	Chars         int     `json:"chars"`
	Indent        int     `json:"indent"`
	Complexity    int     `json:"complexity"`
	Density       float64 `json:"density"`
	DuplicatesPct float64 `json:"duplicates_pct"`
	Emoji         int     `json:"emoji"`
}

// Get returns the structural value for the given kind, or 0 for
// kinds that are not structural.
func (m MetricSet) Get(kind MetricKind) float64 {
	switch kind {
	case LinesMetric, BlameMetric:
		return float64(m.Lines)
	case SizeMetric:
		return float64(m.SizeBytes)
	case CharsMetric:
		return float64(m.Chars)
	case IndentMetric:
		return float64(m.Indent)
	case ComplexityMetric:
		return float64(m.Complexity)
	case DensityMetric:
		return m.Density
	case DuplicatesMetric:
		return m.DuplicatesPct
	case EmojiMetric:
		return float64(m.Emoji)
	}
	return 0
}

// CommitRecord is one commit parsed from the repository-wide log.
type CommitRecord struct {
	ID        string
	Author    string
	Timestamp time.Time
	Files     []string // ordered, without duplicates
}

// FileHistory holds the per-file statistics derived from CommitRecords.
type FileHistory struct {
	Path          string    `json:"path"`
	Churn         int       `json:"churn"`
	PrimaryAuthor string    `json:"primary_author"`
	Ownership     float64   `json:"ownership"`
	Isolation     float64   `json:"isolation"`
	Rhythm        float64   `json:"rhythm"`
	AgeDays       int       `json:"age_days"`
	Authors       int       `json:"authors"`
	FirstCommit   time.Time `json:"first_commit"`
	LastCommit    time.Time `json:"last_commit"`
}

// Get returns the historical value for the given kind.
func (h FileHistory) Get(kind MetricKind) float64 {
	switch kind {
	case ChurnMetric:
		return float64(h.Churn)
	case AgeMetric:
		return float64(h.AgeDays)
	case OwnershipMetric:
		return h.Ownership
	case IsolationMetric:
		return h.Isolation
	case RhythmMetric:
		return h.Rhythm
	}
	return 0
}

// AnalysisRow is the unit that flows through filtering and ranking.
// History is nil when the file has no commit in the window.
type AnalysisRow struct {
	Path    string       `json:"path"`
	Ext     string       `json:"ext"`
	Value   float64      `json:"value"`
	Metrics MetricSet    `json:"metrics"`
	History *FileHistory `json:"history,omitempty"`
}

// GetKey implements Ranked.
func (r AnalysisRow) GetKey() string { return r.Path }

// GetValue implements Ranked.
func (r AnalysisRow) GetValue() float64 { return r.Value }

// Author returns the primary author, or an empty string without history.
func (r AnalysisRow) Author() string {
	if r.History == nil {
		return ""
	}
	return r.History.PrimaryAuthor
}

// AggregatedGroup is a set of rows collapsed under one key.
type AggregatedGroup struct {
	Key      string  `json:"key"`
	Value    float64 `json:"value"`
	Count    int     `json:"count"`
	Language string  `json:"language,omitempty"`
}

// GetKey implements Ranked.
func (g AggregatedGroup) GetKey() string { return g.Key }

// GetValue implements Ranked.
func (g AggregatedGroup) GetValue() float64 { return g.Value }

// Ranked is anything that can be ordered by value with a key tie-break.
type Ranked interface {
	GetKey() string
	GetValue() float64
}

// Total is the reduction of the ranked rows before skip and top apply.
// Defined is false for mean and max reductions over an empty set.
type Total struct {
	Value       float64     `json:"value"`
	Count       int         `json:"count"`
	Aggregation Aggregation `json:"aggregation"`
	Defined     bool        `json:"defined"`
}

// AnalysisResult is the output of one pipeline pass.
type AnalysisResult struct {
	Metric           MetricKind        `json:"metric"`
	Group            GroupMode         `json:"group,omitempty"`
	Rows             []AnalysisRow     `json:"rows,omitempty"`
	Groups           []AggregatedGroup `json:"groups,omitempty"`
	Total            Total             `json:"total"`
	Scanned          int               `json:"scanned"`
	Skipped          int               `json:"skipped"`
	HistoryAvailable bool              `json:"history_available"`
	HistoryError     string            `json:"history_error,omitempty"`
	Duration         time.Duration     `json:"duration"`
}

// KeyedValue is the minimal view of a ranked row used for snapshot diffing.
type KeyedValue struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}

// Entries returns the ranked keys and values of the result in display order.
func (r AnalysisResult) Entries() []KeyedValue {
	if r.Group != NoGroup {
		out := make([]KeyedValue, 0, len(r.Groups))
		for _, g := range r.Groups {
			out = append(out, KeyedValue{Key: g.Key, Value: g.Value})
		}
		return out
	}
	out := make([]KeyedValue, 0, len(r.Rows))
	for _, row := range r.Rows {
		out = append(out, KeyedValue{Key: row.Path, Value: row.Value})
	}
	return out
}

// RowDelta annotates one key of a watch snapshot relative to earlier snapshots.
type RowDelta struct {
	Key        string      `json:"key"`
	Value      float64     `json:"value"`
	Previous   float64     `json:"previous"`
	Delta      float64     `json:"delta"`
	SinceStart float64     `json:"since_start"`
	Status     DeltaStatus `json:"status"`
}

// WatchFrame is what the watch loop hands to a renderer after every pass.
// Exactly one of Result or Err is set.
type WatchFrame struct {
	Iteration int
	Started   time.Time
	At        time.Time
	Interval  time.Duration
	Result    *AnalysisResult
	Deltas    []RowDelta
	Err       error
}
