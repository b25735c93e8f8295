// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/depshield/schema"
)

// ErrPackageNotFound is returned by a MetadataSource when the registry has no such package.
var ErrPackageNotFound = errors.New("package not found")

// ErrManifestMissing is returned by a ManifestSource when the repository has no package.json.
var ErrManifestMissing = errors.New("manifest not found")

// MetadataSource fetches full registry documents for packages.
// This allows the scan pipeline to be tested without network access.
type MetadataSource interface {
	// FetchPackage returns the full registry document for name.
	FetchPackage(ctx context.Context, name string) (*schema.PackageMetadata, error)
}

// DownloadSource fetches adoption counters from the registry.
type DownloadSource interface {
	// FetchWeeklyDownloads returns the last-week download count for name.
	FetchWeeklyDownloads(ctx context.Context, name string) (int, error)
}

// ActivitySource fetches version-control activity for a repository.
type ActivitySource interface {
	// FetchActivity returns commit activity and repository stats.
	// A nil activity with a nil error means the host had no data.
	FetchActivity(ctx context.Context, owner, repo string) (*schema.CommitActivity, *schema.RepoStats, error)
}

// ManifestSource fetches a package.json manifest from a hosted repository.
type ManifestSource interface {
	// FetchManifest returns the raw package.json from the default branch.
	FetchManifest(ctx context.Context, owner, repo string) ([]byte, error)
}

// CacheManager defines the interface for managing cache stores.
// This allows the cache layer to be mocked for testing.
type CacheManager interface {
	GetRegistryStore() CacheStore
	GetHistoryStore() HistoryStore
}

// CacheStore defines the interface for cache data storage.
// This allows mocking the store for testing.
type CacheStore interface {
	Get(key string) ([]byte, int, int64, error)
	Set(key string, value []byte, version int, timestamp int64) error
	GetStatus() (schema.CacheStatus, error)
	Close() error
}

// HistoryStore defines the interface for recording scan runs and package scores.
type HistoryStore interface {
	// BeginScan creates a new scan run and returns its unique ID.
	BeginScan(target string, startTime time.Time, configParams map[string]any) (string, error)

	// EndScan updates the scan run with completion data.
	EndScan(runID string, endTime time.Time, totalPackages int, overallScore int, overallGrade schema.Grade) error

	// RecordPackageScore stores the final scores of one package for a run.
	RecordPackageScore(runID string, record schema.PackageScoreRecord) error

	// GetStatus returns status information about the history store.
	GetStatus() (schema.HistoryStatus, error)

	// GetAllScanRuns returns every recorded scan run.
	GetAllScanRuns() ([]schema.ScanRunRecord, error)

	// GetAllPackageScores returns every recorded package score.
	GetAllPackageScores() ([]schema.PackageScoreRecord, error)

	// Close closes the underlying connection.
	Close() error
}
