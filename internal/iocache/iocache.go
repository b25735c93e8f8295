// Package iocache persists registry responses and scan history.
package iocache

import (
	"sync"

	"github.com/huangsam/depshield/internal/contract"
)

// CacheStoreManager manages the registry cache and the scan history stores.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	registry     contract.CacheStore
	history      contract.HistoryStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// GetRegistryStore returns the registry CacheStore.
func (mgr *CacheStoreManager) GetRegistryStore() contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.registry
}

// GetHistoryStore returns the scan HistoryStore.
func (mgr *CacheStoreManager) GetHistoryStore() contract.HistoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.history
}
