package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/madu/internal/contract"
	"github.com/huangsam/madu/internal/iocache"
	"github.com/huangsam/madu/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// cacheSetup loads the minimal configuration needed for cache operations.
// It skips path validation and metric parsing.
func cacheSetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backend := schema.DatabaseBackend(viper.GetString("cache-backend"))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be memory, sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("cache-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}

	cfg.CacheBackend = backend
	cfg.CacheDBConnect = connStr
	return nil
}

// sqlitePath returns the database file of the sqlite backend.
func sqlitePath() string {
	if cfg.CacheDBConnect != "" {
		return cfg.CacheDBConnect
	}
	return contract.GetCacheDBFilePath()
}

// cacheCmd focused on cache management.
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Manage the git log cache",
	Long: `Manage the cache of raw git log output used by the history metrics.

The log for a root is keyed by the repository HEAD and the day the history
window starts, so repeated runs and watch passes on the same day reuse it.

Supported backends: memory (default), sqlite, mysql, postgresql, or none

Examples:
  # Check cache status of the persistent sqlite cache
  madu cache status --cache-backend sqlite

  # Clear the cache after rewriting history
  madu cache clear --cache-backend sqlite`,
}

// cacheClearCmd clears the cache.
var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached git log output",
	Long: `Delete all cached git log output from the configured backend.

For SQLite: Deletes the database file
For MySQL/PostgreSQL: Deletes every cached row

Examples:
  # Clear the sqlite cache
  madu cache clear --cache-backend sqlite

  # Clear a MySQL cache (set connection string via env variable)
  MADU_CACHE_BACKEND=mysql MADU_CACHE_DB_CONNECT="..." madu cache clear`,
	PreRunE: cacheSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := iocache.ClearCache(cfg.CacheBackend, sqlitePath(), cfg.CacheDBConnect); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
		cmd.Println("Cache cleared successfully.")
		return nil
	},
}

// cacheStatusCmd shows cache status.
var cacheStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display cache statistics and connection details",
	Long: `Show the backend, connection state, entry count, entry timestamps
and the storage used by the git log cache.`,
	PreRunE: cacheSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		connStr := cfg.CacheDBConnect
		if cfg.CacheBackend == schema.SQLiteBackend {
			connStr = sqlitePath()
		}
		if err := iocache.InitCaching(cfg.CacheBackend, connStr); err != nil {
			return fmt.Errorf("failed to initialize cache: %w", err)
		}
		status, err := iocache.Manager.GetActivityStore().GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get cache status: %w", err)
		}
		iocache.PrintCacheStatus(os.Stdout, status)
		return nil
	},
}

// cacheMigrateCmd moves the cache schema to a given version.
var cacheMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or roll back cache schema migrations",
	Long: `Move the log cache schema of the configured backend to a migration version.

Examples:
  # Apply every pending migration
  madu cache migrate --cache-backend sqlite

  # Roll back to the first migration
  madu cache migrate --cache-backend sqlite --target-version 1`,
	PreRunE: cacheSetup,
	RunE: func(cmd *cobra.Command, _ []string) error {
		connStr := cfg.CacheDBConnect
		if cfg.CacheBackend == schema.SQLiteBackend {
			connStr = sqlitePath()
		}
		v, err := iocache.MigrateCacheBackend(cfg.CacheBackend, connStr, viper.GetInt("target-version"))
		if err != nil {
			return fmt.Errorf("failed to migrate cache: %w", err)
		}
		cmd.Printf("Cache schema is at version %d.\n", v)
		return nil
	},
}
