// Package agg collapses analysis rows into groups by extension or directory.
package agg

import (
	"path"
	"strings"

	"github.com/huangsam/madu/core/algo"
	"github.com/huangsam/madu/schema"
	"github.com/src-d/enry/v2"
)

// NoExtKey is the summary key for files without an extension.
const NoExtKey = "(none)"

// RootDirKey is the dirs key for files at the analysis root.
const RootDirKey = "."

// Group collapses rows by the given mode and combines their values with
// the aggregation rule of kind. Groups come back unsorted.
func Group(rows []schema.AnalysisRow, mode schema.GroupMode, depth int, kind schema.MetricKind) []schema.AggregatedGroup {
	if mode == schema.NoGroup {
		return nil
	}

	members := make(map[string][]float64)
	var order []string
	for _, row := range rows {
		key := GroupKey(row, mode, depth)
		if _, ok := members[key]; !ok {
			order = append(order, key)
		}
		members[key] = append(members[key], row.Value)
	}

	agg := kind.Aggregation()
	groups := make([]schema.AggregatedGroup, 0, len(order))
	for _, key := range order {
		values := members[key]
		v, _ := algo.Reduce(values, agg)
		g := schema.AggregatedGroup{Key: key, Value: v, Count: len(values)}
		if mode == schema.SummaryGroup {
			g.Language = LanguageFor(key)
		}
		groups = append(groups, g)
	}
	return groups
}

// GroupKey returns the group a row belongs to.
func GroupKey(row schema.AnalysisRow, mode schema.GroupMode, depth int) string {
	switch mode {
	case schema.SummaryGroup:
		if row.Ext == "" {
			return NoExtKey
		}
		return row.Ext
	case schema.DirsGroup:
		return DirKey(row.Path, depth)
	default:
		return row.Path
	}
}

// DirKey returns the parent directory of a slash path truncated to depth
// components. Depth 0 keeps the full directory.
func DirKey(relPath string, depth int) string {
	dir := path.Dir(relPath)
	if dir == "." || dir == "/" || dir == "" {
		return RootDirKey
	}
	if depth <= 0 {
		return dir
	}
	parts := strings.Split(dir, "/")
	if len(parts) > depth {
		parts = parts[:depth]
	}
	return strings.Join(parts, "/")
}

// LanguageFor names the language usually written with the extension, if known.
func LanguageFor(ext string) string {
	if ext == NoExtKey || ext == "" {
		return ""
	}
	lang, _ := enry.GetLanguageByExtension("file." + ext)
	return lang
}
