package contract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/dustin/go-humanize"
	"github.com/huangsam/madu/schema"
)

// Default values for configuration.
const (
	DefaultDays           = 90
	DefaultPrecision      = 1
	DefaultIndentWidth    = 4
	DefaultDupWindow      = 4
	DefaultHistoryTimeout = time.Minute
	MaxThreshold          = 100
)

// CacheGranularity defines the time granularity of the log cache key.
// Watch passes within the same day share one cached log.
const CacheGranularity = 24 * time.Hour

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// Config holds the runtime configuration for the analysis.
// It is built once by ProcessAndValidate and treated as read-only afterwards.
type Config struct {
	RootPath     string // Absolute path of the directory or file to analyze
	Includes     []string
	Excludes     []string
	ExcludeNoise bool

	Metric     schema.MetricKind
	ShowAuthor bool // Render the primary author next to the value

	Days           int
	Author         string
	HistoryTimeout time.Duration

	Top         int // 0 means unlimited
	Skip        int
	MinValue    float64
	HasMinValue bool
	Threshold   float64 // 0 disables, otherwise 1-100

	Group schema.GroupMode
	Depth int // 0 means no truncation

	WatchInterval time.Duration // 0 disables watch mode

	Workers     int
	IndentWidth int
	DupWindow   int
	MaxFileSize int64 // 0 means unlimited

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool
	MaxLines   int // Value rendered in the hottest color (0 = relative to the max)

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	RootPathStr string

	// --- Selection ---
	Include string `mapstructure:"include"`
	Exclude string `mapstructure:"exclude"`
	NoNoise bool   `mapstructure:"no-noise"`

	// --- Metric selectors ---
	Metric     string `mapstructure:"metric"`
	Complexity bool   `mapstructure:"complexity"`
	Density    bool   `mapstructure:"density"`
	Indent     bool   `mapstructure:"indent"`
	Chars      bool   `mapstructure:"chars"`
	Size       bool   `mapstructure:"size"`
	Duplicates bool   `mapstructure:"duplicates"`
	Emoji      bool   `mapstructure:"emoji"`
	Churn      bool   `mapstructure:"churn"`
	Hotspots   bool   `mapstructure:"hotspots"`
	Blame      bool   `mapstructure:"blame"`
	Age        bool   `mapstructure:"age"`
	Ownership  bool   `mapstructure:"ownership"`
	Isolation  bool   `mapstructure:"isolation"`
	Rhythm     bool   `mapstructure:"rhythm"`

	// --- History ---
	Days           int    `mapstructure:"days"`
	Author         string `mapstructure:"author"`
	HistoryTimeout string `mapstructure:"history-timeout"`

	// --- Filters and windowing ---
	Top       int     `mapstructure:"top"`
	Skip      int     `mapstructure:"skip"`
	MinValue  string  `mapstructure:"min-value"`
	Threshold float64 `mapstructure:"threshold"`

	// --- Grouping ---
	Summary bool `mapstructure:"summary"`
	Dirs    bool `mapstructure:"dirs"`
	Depth   int  `mapstructure:"depth"`

	// --- Watch ---
	Watch int `mapstructure:"watch"`

	// --- Engine tuning ---
	Workers     int    `mapstructure:"workers"`
	IndentWidth int    `mapstructure:"indent-width"`
	DupWindow   int    `mapstructure:"dup-window"`
	MaxFileSize string `mapstructure:"max-file-size"`

	// --- Output ---
	Output     string `mapstructure:"output"`
	OutputFile string `mapstructure:"output-file"`
	Precision  int    `mapstructure:"precision"`
	Width      int    `mapstructure:"width"`
	Color      string `mapstructure:"color"`
	MaxLines   int    `mapstructure:"max-lines"`

	// --- Cache ---
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Includes = slices.Clone(c.Includes)
	clone.Excludes = slices.Clone(c.Excludes)
	return &clone
}

// NeedsHistory reports whether a pass with this config must query the History Engine.
func (c *Config) NeedsHistory() bool {
	return c.Metric.NeedsHistory() || c.Author != "" || c.ShowAuthor
}

// HistorySince returns the start of the history window relative to now.
func (c *Config) HistorySince(now time.Time) time.Time {
	return now.Add(-time.Duration(c.Days) * 24 * time.Hour)
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processMetricSelection(cfg, input); err != nil {
		return err
	}
	if err := processFilters(cfg, input); err != nil {
		return err
	}
	if err := processGrouping(cfg, input); err != nil {
		return err
	}
	if err := processPatterns(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return resolveRootPath(ctx, cfg, client, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.MemoryBackend, schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates the log cache backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	backend := strings.ToLower(strings.TrimSpace(input.CacheBackend))
	if backend == "" {
		backend = string(schema.MemoryBackend)
	}
	cfg.CacheBackend = schema.DatabaseBackend(backend)
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be memory, sqlite, mysql, postgresql, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	return ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect)
}

// validateSimpleInputs processes and validates the output and engine fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.ExcludeNoise = input.NoNoise

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 2. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > 2 {
		return fmt.Errorf("precision must be 1 or 2 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, yaml, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	// --- 3. Engine tuning ---
	if input.IndentWidth <= 0 {
		return fmt.Errorf("indent-width must be greater than 0 (received %d)", input.IndentWidth)
	}
	cfg.IndentWidth = input.IndentWidth
	if input.DupWindow < 2 {
		return fmt.Errorf("dup-window must be at least 2 lines (received %d)", input.DupWindow)
	}
	cfg.DupWindow = input.DupWindow
	if s := strings.TrimSpace(input.MaxFileSize); s != "" && s != "0" {
		size, err := humanize.ParseBytes(s)
		if err != nil {
			return fmt.Errorf("invalid --max-file-size %q: %w", s, err)
		}
		cfg.MaxFileSize = int64(size)
	}
	if input.MaxLines < 0 {
		return fmt.Errorf("max-lines cannot be negative (received %d)", input.MaxLines)
	}
	cfg.MaxLines = input.MaxLines

	// --- 4. Watch ---
	if input.Watch < 0 {
		return fmt.Errorf("watch interval cannot be negative (received %d)", input.Watch)
	}
	cfg.WatchInterval = time.Duration(input.Watch) * time.Second

	return nil
}

// processMetricSelection resolves the single active metric from --metric and the
// one-metric boolean flags. Choosing two different metrics is an error.
func processMetricSelection(cfg *Config, input *ConfigRawInput) error {
	flags := []struct {
		set  bool
		kind schema.MetricKind
	}{
		{input.Complexity, schema.ComplexityMetric},
		{input.Density, schema.DensityMetric},
		{input.Indent, schema.IndentMetric},
		{input.Chars, schema.CharsMetric},
		{input.Size, schema.SizeMetric},
		{input.Duplicates, schema.DuplicatesMetric},
		{input.Emoji, schema.EmojiMetric},
		{input.Churn, schema.ChurnMetric},
		{input.Hotspots, schema.HotspotsMetric},
		{input.Age, schema.AgeMetric},
		{input.Ownership, schema.OwnershipMetric},
		{input.Isolation, schema.IsolationMetric},
		{input.Rhythm, schema.RhythmMetric},
	}

	var selected []schema.MetricKind
	if m := strings.ToLower(strings.TrimSpace(input.Metric)); m != "" {
		kind := schema.MetricKind(m)
		if _, ok := schema.ValidMetricKinds[kind]; !ok {
			return fmt.Errorf("invalid metric '%s'. must be one of %s", input.Metric, joinKinds(schema.AllMetricKinds))
		}
		selected = append(selected, kind)
	}
	for _, f := range flags {
		if f.set && !slices.Contains(selected, f.kind) {
			selected = append(selected, f.kind)
		}
	}

	switch len(selected) {
	case 0:
		cfg.Metric = schema.LinesMetric
		if input.Blame {
			cfg.Metric = schema.BlameMetric
		}
	case 1:
		cfg.Metric = selected[0]
	default:
		return fmt.Errorf("only one metric may be selected (received %s)", joinKinds(selected))
	}
	cfg.ShowAuthor = input.Blame || cfg.Metric == schema.BlameMetric
	return nil
}

// processFilters validates the history window and the numeric filters.
func processFilters(cfg *Config, input *ConfigRawInput) error {
	if input.Days <= 0 {
		return fmt.Errorf("days must be greater than 0 (received %d)", input.Days)
	}
	cfg.Days = input.Days
	cfg.Author = strings.TrimSpace(input.Author)

	cfg.HistoryTimeout = DefaultHistoryTimeout
	if s := strings.TrimSpace(input.HistoryTimeout); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid --history-timeout %q. Expected a positive duration like 30s", s)
		}
		cfg.HistoryTimeout = d
	}

	if input.Top < 0 {
		return fmt.Errorf("top cannot be negative (received %d)", input.Top)
	}
	if input.Skip < 0 {
		return fmt.Errorf("skip cannot be negative (received %d)", input.Skip)
	}
	cfg.Top = input.Top
	cfg.Skip = input.Skip

	if s := strings.TrimSpace(input.MinValue); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid --min-value %q: %w", s, err)
		}
		cfg.MinValue = v
		cfg.HasMinValue = true
	}

	if input.Threshold != 0 && (input.Threshold < 1 || input.Threshold > MaxThreshold) {
		return fmt.Errorf("threshold must be between 1 and %d (received %g)", MaxThreshold, input.Threshold)
	}
	cfg.Threshold = input.Threshold
	return nil
}

// processGrouping validates the summary and dirs grouping flags.
func processGrouping(cfg *Config, input *ConfigRawInput) error {
	if input.Summary && input.Dirs {
		return fmt.Errorf("--summary and --dirs cannot be combined")
	}
	if input.Depth < 0 {
		return fmt.Errorf("depth cannot be negative (received %d)", input.Depth)
	}
	switch {
	case input.Summary:
		cfg.Group = schema.SummaryGroup
	case input.Dirs:
		cfg.Group = schema.DirsGroup
	default:
		cfg.Group = schema.NoGroup
	}
	cfg.Depth = input.Depth
	return nil
}

// processPatterns splits and validates the include and exclude glob lists.
func processPatterns(cfg *Config, input *ConfigRawInput) error {
	var err error
	if cfg.Includes, err = splitPatterns(input.Include); err != nil {
		return fmt.Errorf("invalid --include: %w", err)
	}
	if cfg.Excludes, err = splitPatterns(input.Exclude); err != nil {
		return fmt.Errorf("invalid --exclude: %w", err)
	}
	return nil
}

// splitPatterns splits a comma-separated list and checks each glob.
func splitPatterns(raw string) ([]string, error) {
	var out []string
	for p := range strings.SplitSeq(raw, ",") {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("bad glob pattern %q", p)
		}
		out = append(out, p)
	}
	return out, nil
}

// resolveRootPath makes the analysis root absolute and checks that it exists.
// A root outside any repository is fine: history metrics simply stay empty.
func resolveRootPath(ctx context.Context, cfg *Config, client GitClient, input *ConfigRawInput) error {
	raw := input.RootPathStr
	if raw == "" {
		raw = "."
	}
	absPath, err := filepath.Abs(raw)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q: %w", raw, err)
	}
	if _, err := os.Stat(absPath); err != nil {
		return fmt.Errorf("path does not exist: %s", raw)
	}
	cfg.RootPath = absPath

	if cfg.NeedsHistory() && client != nil {
		dir := absPath
		if info, err := os.Stat(absPath); err == nil && !info.IsDir() {
			dir = filepath.Dir(absPath)
		}
		if _, err := client.GetRepoRoot(ctx, dir); err != nil {
			LogWarn("History metrics will be empty", err)
		}
	}
	return nil
}

// joinKinds renders metric kinds as a comma-separated list.
func joinKinds(kinds []schema.MetricKind) string {
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
