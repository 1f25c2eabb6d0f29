// Package iocache caches raw git log output across passes and runs.
package iocache

import (
	"sync"

	"github.com/huangsam/madu/internal/contract"
)

// CacheStoreManager owns the log cache store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointer during initialization
	activity     contract.CacheStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetActivityStore returns the log CacheStore, or nil when caching is off.
func (mgr *CacheStoreManager) GetActivityStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.activity
}
