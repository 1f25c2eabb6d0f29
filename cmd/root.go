package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/madu/core"
	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/internal/iocache"
	"github.com/huangsam/madu/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// gitClient runs the history queries for every command.
var gitClient contract.GitClient = contract.NewLocalGitClient()

// rootCmd measures a directory or file. It is also the parent of every other command.
var rootCmd = &cobra.Command{
	Use:   "madu [path]",
	Short: "Measure source files and rank them by one metric.",
	Long: `Madu measures every file under a path with one structural or history metric,
ranks the files and prints a total.

Structural metrics read the files: lines, size, chars, indent, complexity,
density, duplicates, emoji. History metrics read the git log: churn, age,
ownership, isolation, rhythm, blame. Hotspots multiplies churn by complexity.

Examples:
  # Largest files in the current directory
  madu

  # Most complex Go files, top 10
  madu --complexity --include '**/*.go' --top 10

  # Files changed the most in the last 30 days, with their primary author
  madu --churn --days 30 --blame

  # Duplication averaged per language
  madu --duplicates --summary

  # Redraw the ranking every 5 seconds
  madu --hotspots --watch 5`,
	Version:            version,
	Args:               cobra.MaximumNArgs(1),
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	PreRunE:            sharedSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		var run core.ExecutorFunc = core.ExecuteAnalysis
		if cfg.WatchInterval > 0 {
			run = core.ExecuteWatch
		}
		return run(cmd.Context(), cfg, gitClient, iocache.Manager)
	},
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	// Set environment variable prefix
	viper.SetEnvPrefix("MADU")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("days", contract.DefaultDays)
	viper.SetDefault("workers", contract.DefaultWorkers)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("indent-width", contract.DefaultIndentWidth)
	viper.SetDefault("dup-window", contract.DefaultDupWindow)
	viper.SetDefault("output", schema.TextOut)
	viper.SetDefault("cache-backend", schema.MemoryBackend)
	viper.SetDefault("cache-db-connect", "")
	viper.SetDefault("color", "yes")
}

// loadConfigFile handles config file loading logic common to all setup functions.
func loadConfigFile() error {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".madu") // Name of config file (without extension)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
	}
	return nil
}

// sharedSetup unmarshals config, runs validation and opens the log cache.
func sharedSetup(cmd *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	input.RootPathStr = "."
	if len(args) == 1 {
		input.RootPathStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(commandContext(cmd), cfg, gitClient, input); err != nil {
		return err
	}
	color.NoColor = !cfg.UseColors

	// 5. Initialize the log cache with validated config
	if err := iocache.InitCaching(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return fmt.Errorf("failed to initialize cache: %w", err)
	}
	return nil
}

// commandContext falls back to a background context for commands run without one.
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// Execute runs the root command until ctx is cancelled.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
