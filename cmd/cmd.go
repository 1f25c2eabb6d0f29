// Package cmd defines the command-line interface for madu.
package cmd

import (
	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(cacheCmd)
	rootCmd.AddCommand(mcpCmd)

	// Add the cache subcommands to the parent cache command
	cacheCmd.AddCommand(cacheClearCmd)
	cacheCmd.AddCommand(cacheStatusCmd)
	cacheCmd.AddCommand(cacheMigrateCmd)

	flags := rootCmd.PersistentFlags()

	// Selection
	flags.String("include", "", "Comma-separated glob patterns a file must match")
	flags.String("exclude", "", "Comma-separated glob patterns to ignore")
	flags.Bool("no-noise", false, "Skip config, lock, docs, assets, fixtures and vendored files")

	// Metric selectors
	flags.String("metric", "", "Metric to rank by: "+metricList())
	flags.Bool("complexity", false, "Rank by decision points")
	flags.Bool("density", false, "Rank by how packed the code lines are")
	flags.Bool("indent", false, "Rank by deepest indentation level")
	flags.Bool("chars", false, "Rank by non-whitespace characters")
	flags.Bool("size", false, "Rank by file size in bytes")
	flags.Bool("duplicates", false, "Rank by percent of duplicated line windows")
	flags.Bool("emoji", false, "Rank by emoji count")
	flags.Bool("churn", false, "Rank by commits in the history window")
	flags.Bool("hotspots", false, "Rank by churn multiplied by complexity")
	flags.Bool("blame", false, "Show the primary author (ranks by lines when used alone)")
	flags.Bool("age", false, "Rank by days since the last commit")
	flags.Bool("ownership", false, "Rank by the primary author's share of commits")
	flags.Bool("isolation", false, "Rank by percent of commits touching only this file")
	flags.Bool("rhythm", false, "Rank by irregularity of the gaps between commits")

	// History
	flags.Int("days", contract.DefaultDays, "History window in days")
	flags.String("author", "", "Only count commits whose author contains this text")
	flags.String("history-timeout", contract.DefaultHistoryTimeout.String(), "Give up on the git log after this long")

	// Filters and windowing
	flags.Int("top", 0, "Show at most this many rows (0 = all)")
	flags.Int("skip", 0, "Skip this many leading rows")
	flags.String("min-value", "", "Drop rows below this value")
	flags.Float64("threshold", 0, "Keep rows at or above this percent of the largest value (1-100)")

	// Grouping
	flags.Bool("summary", false, "Aggregate by file extension")
	flags.Bool("dirs", false, "Aggregate by directory")
	flags.Int("depth", 0, "Truncate directories to this many segments (0 = full path)")

	// Watch
	flags.Int("watch", 0, "Re-run every N seconds and show changes (0 = run once)")

	// Engine tuning
	flags.Int("workers", contract.DefaultWorkers, "Number of concurrent workers")
	flags.Int("indent-width", contract.DefaultIndentWidth, "Columns per indentation level for tabs and spaces")
	flags.Int("dup-window", contract.DefaultDupWindow, "Lines per duplication window")
	flags.String("max-file-size", "", "Skip files larger than this (e.g. 2MiB)")

	// Output
	flags.String("output", string(schema.TextOut), "Output format: text or csv or json or yaml or parquet")
	flags.String("output-file", "", "Optional path to write output to")
	flags.Int("precision", contract.DefaultPrecision, "Decimal precision for fractional values")
	flags.Int("width", 0, "Terminal width override (0 = auto-detect)")
	flags.String("color", "yes", "Enable colored output (yes/no/true/false/1/0)")
	flags.Int("max-lines", 0, "Value shown in the hottest color (0 = relative to the largest value)")

	// Cache
	flags.String("cache-backend", string(schema.MemoryBackend), "Log cache backend: memory or sqlite or mysql or postgresql or none")
	flags.String("cache-db-connect", "", "Connection string for sqlite path or mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")

	flags.String("config", "", "Path to config file")
	if err := viper.BindPFlags(flags); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of cacheMigrateCmd to Viper
	cacheMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(cacheMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding cache migrate flags", err)
	}
}

// metricList renders the accepted --metric values.
func metricList() string {
	s := ""
	for i, k := range schema.AllMetricKinds {
		if i > 0 {
			s += ", "
		}
		s += string(k)
	}
	return s
}
