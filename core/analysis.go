package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/huangsam/madu/core/agg"
	"github.com/huangsam/madu/core/algo"
	"github.com/huangsam/madu/core/history"
	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/schema"
	"github.com/sourcegraph/conc/pool"
	"golang.org/x/sync/errgroup"
)

// RunPass runs one full analysis over entries: filter, measure, join history,
// select values, filter values, group, rank, window and total.
// A nil fetch means no history is available for this pass.
func RunPass(ctx context.Context, cfg *contract.Config, entries []schema.FileEntry, fetch history.LogFunc) (*schema.AnalysisResult, error) {
	start := time.Now()
	now := nowFromContext(ctx)

	// --- 1. Path filtering ---
	files := filterEntries(cfg, entries)

	// --- 2. Metrics fan-out, with the history query alongside ---
	var rows []schema.AnalysisRow
	var histories map[string]schema.FileHistory
	var histErr error

	g, gctx := errgroup.WithContext(ctx)
	if cfg.NeedsHistory() {
		g.Go(func() error {
			histories, histErr = queryHistory(gctx, cfg, fetch, now)
			return nil
		})
	}
	g.Go(func() error {
		var err error
		rows, err = computeRows(gctx, cfg, files)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// --- 3-4. History join and value selection ---
	byPath := make(map[string]schema.FileEntry, len(files))
	for _, e := range files {
		byPath[e.Path] = e
	}
	for i := range rows {
		rows[i] = NewRowBuilder(cfg, byPath[rows[i].Path]).
			withRow(rows[i]).
			AttachHistory(histories).
			ComputeValue(now).
			Build()
	}

	// --- 5. Author filter ---
	if cfg.Author != "" {
		rows = filterByAuthor(rows)
	}

	// --- 6. Numeric filters ---
	if cfg.HasMinValue {
		rows = algo.FilterMinValue(rows, cfg.MinValue)
	}
	rows = algo.FilterThreshold(rows, cfg.Threshold)

	result := &schema.AnalysisResult{
		Metric:           cfg.Metric,
		Group:            cfg.Group,
		Scanned:          len(files),
		HistoryAvailable: cfg.NeedsHistory() && histErr == nil,
		Total:            algo.Total(rows, cfg.Metric),
	}
	if histErr != nil {
		result.HistoryError = histErr.Error()
	}

	// --- 7-9. Grouping, ranking and windowing ---
	if cfg.Group != schema.NoGroup {
		groups := algo.Rank(agg.Group(rows, cfg.Group, cfg.Depth, cfg.Metric))
		result.Groups = algo.Window(groups, cfg.Skip, cfg.Top)
	} else {
		result.Rows = algo.Window(algo.Rank(rows), cfg.Skip, cfg.Top)
	}

	result.Duration = time.Since(start)
	return result, nil
}

// filterEntries applies the include, exclude and noise predicates.
func filterEntries(cfg *contract.Config, entries []schema.FileEntry) []schema.FileEntry {
	out := make([]schema.FileEntry, 0, len(entries))
	for _, e := range entries {
		if !contract.ShouldInclude(e.Path, cfg.Includes, cfg.Excludes) {
			continue
		}
		if cfg.ExcludeNoise && contract.IsNoiseFile(e.Path) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// computeRows measures every file on a bounded worker pool. Results come back
// in no particular order. A cancelled context stops new tasks from starting.
func computeRows(ctx context.Context, cfg *contract.Config, files []schema.FileEntry) ([]schema.AnalysisRow, error) {
	p := pool.NewWithResults[schema.AnalysisRow]().
		WithContext(ctx).
		WithMaxGoroutines(max(cfg.Workers, 1))

	for _, e := range files {
		p.Go(func(ctx context.Context) (schema.AnalysisRow, error) {
			if err := ctx.Err(); err != nil {
				return schema.AnalysisRow{}, err
			}
			return NewRowBuilder(cfg, e).ComputeMetrics().Build(), nil
		})
	}
	rows, err := p.Wait()
	if err != nil {
		return nil, fmt.Errorf("metric computation interrupted: %w", err)
	}
	return rows, nil
}

// queryHistory runs the History Engine under the configured timeout.
func queryHistory(ctx context.Context, cfg *contract.Config, fetch history.LogFunc, now time.Time) (map[string]schema.FileHistory, error) {
	if fetch == nil {
		return map[string]schema.FileHistory{}, fmt.Errorf("no version control client configured")
	}
	if cfg.HistoryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.HistoryTimeout)
		defer cancel()
	}
	window := time.Duration(cfg.Days) * 24 * time.Hour
	return history.Build(ctx, fetch, HistoryRoot(cfg.RootPath), window, cfg.Author, now)
}

// filterByAuthor keeps rows whose history survived the author filter.
func filterByAuthor(rows []schema.AnalysisRow) []schema.AnalysisRow {
	out := rows[:0:0]
	for _, r := range rows {
		if r.History != nil {
			out = append(out, r)
		}
	}
	return out
}

// HistoryRoot is the directory the log query runs in: the root itself, or
// the parent directory when the root is a single file.
func HistoryRoot(root string) string {
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		return filepath.Dir(root)
	}
	return root
}
