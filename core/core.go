// Package core has the pipeline coordinator and the watch loop.
package core

import (
	"context"
	"errors"
	"os"

	"github.com/huangsam/madu/core/history"
	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/internal/outwriter"
	"github.com/huangsam/madu/internal/progress"
	"github.com/huangsam/madu/internal/scan"
	"github.com/huangsam/madu/schema"
)

// ExecutorFunc defines the function signature for the top-level commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error

// ExecuteAnalysis runs one pass and writes the result in the configured format.
// It serves as the main entry point for the root command.
func ExecuteAnalysis(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	showProgress := cfg.Output == schema.TextOut && !shouldSuppressHeader(ctx)
	if showProgress {
		outwriter.LogAnalysisHeader(cfg)
	}

	spinner := progress.NewSpinner("Analyzing files", showProgress)
	result, err := NewPass(cfg, client, mgr)(ctx)
	spinner.Finish()
	if err != nil {
		return err
	}
	if result.HistoryError != "" && showProgress {
		contract.LogWarn("History metrics are empty", errors.New(result.HistoryError))
	}
	return outwriter.WriteResult(result, cfg)
}

// ExecuteWatch re-runs the analysis every cfg.WatchInterval and redraws it in place.
func ExecuteWatch(ctx context.Context, cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) error {
	renderer := outwriter.NewWatchRenderer(os.Stdout, cfg)
	defer func() { _ = renderer.Close() }()

	return Watch(withSuppressHeader(ctx), cfg.WatchInterval, NewPass(cfg, client, mgr), renderer)
}

// NewPass returns a PassFunc that re-reads the file set from disk on every call.
func NewPass(cfg *contract.Config, client contract.GitClient, mgr contract.CacheManager) PassFunc {
	return func(ctx context.Context) (*schema.AnalysisResult, error) {
		entries, skipped, err := scan.ReadEntries(ctx, cfg.RootPath, scan.Options{
			MaxFileSize: cfg.MaxFileSize,
			Workers:     cfg.Workers,
		})
		if err != nil {
			return nil, err
		}

		result, err := RunPass(ctx, cfg, entries, historyFetcher(client, mgr))
		if err != nil {
			return nil, err
		}
		result.Skipped = skipped
		return result, nil
	}
}

// historyFetcher returns nil when no git client is available.
func historyFetcher(client contract.GitClient, mgr contract.CacheManager) history.LogFunc {
	if client == nil {
		return nil
	}
	return CachedCommitLog(client, mgr)
}
