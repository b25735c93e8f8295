package contract

import (
	"context"

	"github.com/huangsam/depshield/schema"
	"github.com/stretchr/testify/mock"
)

// MockMetadataSource is a mock implementation of MetadataSource for testing.
type MockMetadataSource struct {
	mock.Mock
}

var _ MetadataSource = &MockMetadataSource{} // Compile-time check

// FetchPackage implements the MetadataSource interface.
func (m *MockMetadataSource) FetchPackage(ctx context.Context, name string) (*schema.PackageMetadata, error) {
	args := m.Called(ctx, name)
	meta, _ := args.Get(0).(*schema.PackageMetadata)
	return meta, args.Error(1)
}

// MockDownloadSource is a mock implementation of DownloadSource for testing.
type MockDownloadSource struct {
	mock.Mock
}

var _ DownloadSource = &MockDownloadSource{} // Compile-time check

// FetchWeeklyDownloads implements the DownloadSource interface.
func (m *MockDownloadSource) FetchWeeklyDownloads(ctx context.Context, name string) (int, error) {
	args := m.Called(ctx, name)
	return args.Int(0), args.Error(1)
}

// MockActivitySource is a mock implementation of ActivitySource for testing.
type MockActivitySource struct {
	mock.Mock
}

var _ ActivitySource = &MockActivitySource{} // Compile-time check

// FetchActivity implements the ActivitySource interface.
func (m *MockActivitySource) FetchActivity(ctx context.Context, owner, repo string) (*schema.CommitActivity, *schema.RepoStats, error) {
	args := m.Called(ctx, owner, repo)
	activity, _ := args.Get(0).(*schema.CommitActivity)
	stats, _ := args.Get(1).(*schema.RepoStats)
	return activity, stats, args.Error(2)
}

// MockManifestSource is a mock implementation of ManifestSource for testing.
type MockManifestSource struct {
	mock.Mock
}

var _ ManifestSource = &MockManifestSource{} // Compile-time check

// FetchManifest implements the ManifestSource interface.
func (m *MockManifestSource) FetchManifest(ctx context.Context, owner, repo string) ([]byte, error) {
	args := m.Called(ctx, owner, repo)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}
