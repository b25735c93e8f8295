package core

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"time"

	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/schema"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// CachedMetadataSource serves registry documents from a CacheStore and
// falls back to the wrapped source on a miss.
type CachedMetadataSource struct {
	source contract.MetadataSource
	store  contract.CacheStore
	ttl    time.Duration
	now    func() time.Time
}

var _ contract.MetadataSource = &CachedMetadataSource{} // Compile-time check

// NewCachedMetadataSource wraps source with store. A ttl <= 0 selects the default.
func NewCachedMetadataSource(source contract.MetadataSource, store contract.CacheStore, ttl time.Duration) *CachedMetadataSource {
	if ttl <= 0 {
		ttl = contract.DefaultCacheTTL
	}
	return &CachedMetadataSource{source: source, store: store, ttl: ttl, now: time.Now}
}

// FetchPackage implements contract.MetadataSource.
func (c *CachedMetadataSource) FetchPackage(ctx context.Context, name string) (*schema.PackageMetadata, error) {
	key := generateCacheKey(name)

	// Check for cache hit
	if meta := c.checkCacheHit(key); meta != nil {
		return meta, nil
	}

	// Cache miss: compute and store
	return c.computeAndStore(ctx, name, key)
}

// checkCacheHit attempts to retrieve and validate a cached document
func (c *CachedMetadataSource) checkCacheHit(key string) *schema.PackageMetadata {
	data, version, ts, err := c.store.Get(key)
	if err != nil {
		return nil // Cache miss
	}

	// Validate version and staleness
	if version != currentCacheVersion || c.now().Sub(time.Unix(ts, 0)) > c.ttl {
		return nil
	}
	var meta schema.PackageMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil
	}
	return &meta
}

// computeAndStore fetches the document and stores it in cache
func (c *CachedMetadataSource) computeAndStore(ctx context.Context, name, key string) (*schema.PackageMetadata, error) {
	meta, err := c.source.FetchPackage(ctx, name)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(meta); err == nil {
		if err := c.store.Set(key, data, currentCacheVersion, c.now().Unix()); err != nil {
			contract.LogWarn("Failed to cache registry document for "+name, err)
		}
	}
	return meta, nil
}

// generateCacheKey creates a unique key for a package document
func generateCacheKey(name string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte("packument:"+name)))
}
