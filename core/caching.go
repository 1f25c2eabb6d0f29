package core

import (
	"context"
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/huangsam/madu/core/history"
	"github.com/huangsam/madu/internal/contract"
)

// currentCacheVersion defines the version of the cached log format
const currentCacheVersion = 1

// CachedCommitLog wraps the client's log query with the log cache of mgr.
// Without a cache store it queries git directly.
func CachedCommitLog(client contract.GitClient, mgr contract.CacheManager) history.LogFunc {
	return func(ctx context.Context, root string, since time.Time) ([]byte, error) {
		var store contract.CacheStore
		if mgr != nil {
			store = mgr.GetActivityStore()
		}
		if store == nil {
			// Fallback to direct computation
			return client.GetCommitLog(ctx, root, since)
		}

		key := generateCacheKey(ctx, client, root, since)

		// Check for cache hit
		if data, ok := checkCacheHit(store, key); ok {
			return data, nil
		}

		// Cache miss: compute and store
		return computeAndStore(ctx, client, store, key, root, since)
	}
}

// checkCacheHit attempts to retrieve and validate a cached log
func checkCacheHit(store contract.CacheStore, key string) ([]byte, bool) {
	data, version, ts, err := store.Get(key)
	if err != nil {
		return nil, false // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion {
		return nil, false
	}
	if time.Since(time.Unix(ts, 0)) > contract.CacheGranularity {
		return nil, false
	}
	return data, true
}

// computeAndStore runs the query and stores the raw output in cache
func computeAndStore(ctx context.Context, client contract.GitClient, store contract.CacheStore, key, root string, since time.Time) ([]byte, error) {
	out, err := client.GetCommitLog(ctx, root, since)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []byte{} // cache_value is NOT NULL
	}
	if err := store.Set(key, out, currentCacheVersion, time.Now().Unix()); err != nil {
		contract.LogWarn("Failed to cache commit log", err)
	}
	return out, nil
}

// generateCacheKey creates a unique key from the root, the window start
// truncated to the cache granularity and the repository HEAD
func generateCacheKey(ctx context.Context, client contract.GitClient, root string, since time.Time) string {
	// Include repo hash to invalidate cache when repository state changes
	repoHash, err := client.GetRepoHash(ctx, root)
	if err != nil {
		repoHash = ""
	}

	key := fmt.Sprintf("%s|%d|%s|%d",
		root,
		since.UTC().Truncate(contract.CacheGranularity).Unix(),
		repoHash,
		currentCacheVersion,
	)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(key)))
}
