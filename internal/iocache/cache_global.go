package iocache

import (
	"fmt"
	"sync"

	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/schema"
)

// registryTable is the name of the table for registry caching.
const registryTable = "registry_cache"

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetDBFilePath returns the path to the SQLite DB file for cache storage.
func GetDBFilePath() string {
	return contract.GetCacheDBFilePath()
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for scan history.
func GetHistoryDBFilePath() string {
	return contract.GetHistoryDBFilePath()
}

// InitCaching initializes the global manager with separate cache and history stores.
// An empty backend leaves the corresponding store unset.
func InitCaching(cacheBackend schema.DatabaseBackend, cacheConnStr string, historyBackend schema.DatabaseBackend, historyConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var err error

		var registryStore contract.CacheStore
		if cacheBackend != "" {
			registryStore, err = NewCacheStore(registryTable, cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize registry caching: %w", err)
				return
			}
		}

		var historyStore contract.HistoryStore
		if historyBackend != "" {
			historyStore, err = NewHistoryStore(historyBackend, historyConnStr)
			if err != nil {
				if registryStore != nil {
					_ = registryStore.Close()
				}
				initErr = fmt.Errorf("failed to initialize history store: %w", err)
				return
			}
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.registry = registryStore
		Manager.history = historyStore
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.registry != nil {
			_ = Manager.registry.Close()
		}
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
	})
}

// ClearCache clears the registry cache for the specified backend.
// For SQLite, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the table.
// For NoneBackend, it does nothing.
func ClearCache(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearDatabase(backend, dbFilePath, connStr, registryTable)
}

// ClearHistory clears the scan history for the specified backend.
// For SQL backends (MySQL/PostgreSQL), package scores are dropped before runs.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	return clearDatabase(backend, dbFilePath, connStr, packageScoresTable, scanRunsTable)
}
