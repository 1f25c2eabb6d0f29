package iocache

import (
	"bytes"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/madu/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetManager restores the process-wide state between test cases.
func resetManager(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &CacheStoreManager{}
	t.Cleanup(CloseCaching)
}

func TestCaching(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		resetManager(t)
		dbPath := filepath.Join(t.TempDir(), "cache.db")

		require.NoError(t, InitCaching(schema.SQLiteBackend, dbPath))
		assert.NotNil(t, Manager.GetActivityStore(), "Activity store should not be nil")
		CloseCaching()

		_, err := os.Stat(dbPath)
		assert.NoError(t, err, "Database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetManager(t)

		assert.NoError(t, InitCaching(schema.MemoryBackend, ""))
		store := Manager.GetActivityStore()
		assert.NoError(t, InitCaching(schema.MemoryBackend, ""))
		assert.Same(t, store, Manager.GetActivityStore())

		CloseCaching()
		CloseCaching()
	})

	t.Run("empty backend disables caching", func(t *testing.T) {
		resetManager(t)
		require.NoError(t, InitCaching("", ""))
		assert.Nil(t, Manager.GetActivityStore())
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetManager(t)
		err := InitCaching(schema.DatabaseBackend("redis"), "")
		assert.ErrorContains(t, err, "unsupported cache backend")
		assert.Nil(t, Manager.GetActivityStore())
	})
}

func TestCacheStore_MemoryRoundTrip(t *testing.T) {
	store, err := NewCacheStore(schema.MemoryBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, _, _, err = store.Get("missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)

	require.NoError(t, store.Set("k", []byte("log"), 1, 100))
	value, version, ts, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("log"), value)
	assert.Equal(t, 1, version)
	assert.Equal(t, int64(100), ts)

	// Set replaces the previous entry
	require.NoError(t, store.Set("k", []byte("newer"), 2, 200))
	value, version, ts, err = store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("newer"), value)
	assert.Equal(t, 2, version)
	assert.Equal(t, int64(200), ts)
}

func TestCacheStore_SQLitePersists(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	store, err := NewCacheStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Set("k", []byte("log"), 1, 100))
	require.NoError(t, store.Close())

	// Reopening runs the migrations again without touching the data
	store, err = NewCacheStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	value, _, _, err := store.Get("k")
	require.NoError(t, err)
	assert.Equal(t, []byte("log"), value)

	version, err := CacheSchemaVersion(store.db, schema.SQLiteBackend)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestCacheStore_Clear(t *testing.T) {
	store, err := NewCacheStore(schema.MemoryBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Set("a", []byte("1"), 1, 1))
	require.NoError(t, store.Set("b", []byte("2"), 1, 2))
	require.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, 0, status.TotalEntries)
}

func TestCacheStore_None(t *testing.T) {
	store, err := NewCacheStore(schema.NoneBackend, "")
	require.NoError(t, err)

	assert.NoError(t, store.Set("k", []byte("v"), 1, 1))
	_, _, _, err = store.Get("k")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, store.Clear())

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "none", status.Backend)
	assert.False(t, status.Connected)
	assert.NoError(t, store.Close())
}

func TestCacheStore_GetStatus(t *testing.T) {
	store, err := NewCacheStore(schema.MemoryBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	status, err := store.GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, 0, status.TotalEntries)
	assert.True(t, status.LastEntryTime.IsZero())

	require.NoError(t, store.Set("a", []byte("1"), 1, 1000))
	require.NoError(t, store.Set("b", []byte("2"), 1, 3000))

	status, err = store.GetStatus()
	require.NoError(t, err)
	assert.Equal(t, "memory", status.Backend)
	assert.Equal(t, 2, status.TotalEntries)
	assert.Equal(t, time.Unix(3000, 0), status.LastEntryTime)
	assert.Equal(t, time.Unix(1000, 0), status.OldestEntryTime)
	assert.Positive(t, status.TableSizeBytes)
}

func TestClearCache(t *testing.T) {
	t.Run("sqlite removes the file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "cache.db")
		store, err := NewCacheStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))

		// Clearing twice is fine
		assert.NoError(t, ClearCache(schema.SQLiteBackend, dbPath, ""))
	})

	t.Run("sqlite needs a path", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.SQLiteBackend, "", ""))
	})

	t.Run("nothing to clear", func(t *testing.T) {
		assert.NoError(t, ClearCache(schema.MemoryBackend, "", ""))
		assert.NoError(t, ClearCache(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported", func(t *testing.T) {
		assert.Error(t, ClearCache(schema.DatabaseBackend("redis"), "", ""))
	})
}

func TestQuoteTableName(t *testing.T) {
	assert.Equal(t, "`log_cache`", quoteTableName("log_cache", schema.MySQLBackend))
	assert.Equal(t, `"log_cache"`, quoteTableName("log_cache", schema.PostgreSQLBackend))
	assert.Equal(t, `"log_cache"`, quoteTableName("log_cache", schema.SQLiteBackend))
}

func TestMigrateCache(t *testing.T) {
	store, err := NewCacheStore(schema.MemoryBackend, "")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	// Rolling back to the first version drops only the index
	require.NoError(t, MigrateCache(store.db, schema.MemoryBackend, 1))
	version, err := CacheSchemaVersion(store.db, schema.MemoryBackend)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)
	require.NoError(t, store.Set("k", []byte("v"), 1, 1))

	require.NoError(t, MigrateCache(store.db, schema.MemoryBackend, -1))
	version, err = CacheSchemaVersion(store.db, schema.MemoryBackend)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)

	_, err = migrationDir(schema.NoneBackend)
	assert.Error(t, err)
}

func TestPrintCacheStatus(t *testing.T) {
	now := time.Date(2024, 3, 11, 10, 0, 0, 0, time.UTC)

	t.Run("disconnected", func(t *testing.T) {
		var buf bytes.Buffer
		printCacheStatus(&buf, schema.CacheStatus{Backend: "none"}, now)
		assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())
	})

	t.Run("connected", func(t *testing.T) {
		var buf bytes.Buffer
		printCacheStatus(&buf, schema.CacheStatus{
			Backend:         "sqlite",
			Connected:       true,
			TotalEntries:    3,
			LastEntryTime:   now.Add(-2 * time.Hour),
			OldestEntryTime: now.Add(-72 * time.Hour),
			TableSizeBytes:  8192,
		}, now)

		out := buf.String()
		assert.Contains(t, out, "Total Entries: 3")
		assert.Contains(t, out, "(2 hours ago)")
		assert.Contains(t, out, "(3 days ago)")
		assert.Contains(t, out, "Table Size: 8.0 KiB")
	})
}

func TestMigrateCacheBackend(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "cache.db")

	version, err := MigrateCacheBackend(schema.SQLiteBackend, dbPath, 1)
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	version, err = MigrateCacheBackend(schema.SQLiteBackend, dbPath, -1)
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)

	_, err = MigrateCacheBackend(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "no schema")
}
