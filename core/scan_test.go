package core

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/internal/metrics"
	"github.com/huangsam/depshield/schema"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// recordingSource serves packuments and remembers which names were requested.
type recordingSource struct {
	mu      sync.Mutex
	fetched []string
	onFetch func(ctx context.Context, name string) error
}

func (s *recordingSource) FetchPackage(ctx context.Context, name string) (*schema.PackageMetadata, error) {
	s.mu.Lock()
	s.fetched = append(s.fetched, name)
	s.mu.Unlock()
	if s.onFetch != nil {
		if err := s.onFetch(ctx, name); err != nil {
			return nil, err
		}
	}
	return packument(name, "", nil), nil
}

func (s *recordingSource) names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.fetched...)
}

func requests(names ...string) []DependencyRequest {
	deps := make([]DependencyRequest, len(names))
	for i, n := range names {
		deps[i] = DependencyRequest{Name: n, Version: "^1.0.0", IsDirect: true}
	}
	return deps
}

func TestScanPackages(t *testing.T) {
	meta := &contract.MockMetadataSource{}
	for _, name := range []string{"a", "b", "c", "d", "f", "g"} {
		meta.On("FetchPackage", mock.Anything, name).Return(packument(name, "", nil), nil)
	}
	meta.On("FetchPackage", mock.Anything, "ghost").Return(nil, contract.ErrPackageNotFound)

	var events []schema.ScanProgress
	recorder := metrics.NewRecorder()
	scanner := &Scanner{
		Sources:     Sources{Metadata: meta},
		Engine:      newTestEngine(t),
		Concurrency: 5,
		OnProgress:  func(p schema.ScanProgress) { events = append(events, p) },
		Metrics:     recorder,
	}

	reports, err := scanner.ScanPackages(context.Background(), requests("a", "b", "c", "ghost", "d", "f", "g"))
	require.NoError(t, err)
	require.Len(t, reports, 7)

	names := make([]string, len(reports))
	for i, r := range reports {
		names[i] = r.Name
	}
	assert.Equal(t, []string{"a", "b", "c", "ghost", "d", "f", "g"}, names, "input order is kept")
	assert.True(t, reports[3].Fallback)
	assert.Equal(t, "ghost-unavail", reports[3].Alerts[0].ID)
	assert.False(t, reports[0].Fallback)

	assert.Equal(t, []schema.ScanProgress{
		{Step: schema.StepParse, PackagesProcessed: 0, TotalPackages: 7},
		{Step: schema.StepMetadata, PackagesProcessed: 0, TotalPackages: 7},
		{Step: schema.StepMaintainers, PackagesProcessed: 5, TotalPackages: 7},
		{Step: schema.StepSlopsquat, PackagesProcessed: 7, TotalPackages: 7},
		{Step: schema.StepReport, PackagesProcessed: 7, TotalPackages: 7},
	}, events)

	series, err := testutil.GatherAndCount(recorder.Registry(), "depshield_scan_packages_total")
	require.NoError(t, err)
	assert.Equal(t, 2, series, "analyzed and fallback outcomes")
}

func TestScanPackagesEmpty(t *testing.T) {
	scanner := &Scanner{Engine: newTestEngine(t)}
	reports, err := scanner.ScanPackages(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, reports)
}

func TestScanPackagesCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	source := &recordingSource{onFetch: func(fctx context.Context, name string) error {
		if name == "p2" {
			cancel()
			<-fctx.Done()
			return fctx.Err()
		}
		return nil
	}}
	scanner := &Scanner{Sources: Sources{Metadata: source}, Engine: newTestEngine(t), Concurrency: 2}

	reports, err := scanner.ScanPackages(ctx, requests("p0", "p1", "p2", "p3", "p4", "p5", "p6"))
	require.ErrorIs(t, err, context.Canceled)

	require.GreaterOrEqual(t, len(reports), 2)
	assert.LessOrEqual(t, len(reports), 3)
	assert.Equal(t, "p0", reports[0].Name)
	assert.Equal(t, "p1", reports[1].Name)
	for _, r := range reports {
		assert.NotEqual(t, "p2", r.Name, "cancelled packages are omitted, not replaced by fallbacks")
	}
	assert.NotContains(t, source.names(), "p4", "no batch starts after cancellation")
}

func TestScanPackagesTimeout(t *testing.T) {
	source := &recordingSource{onFetch: func(fctx context.Context, name string) error {
		if name == "slow" {
			<-fctx.Done()
			return fctx.Err()
		}
		return nil
	}}
	scanner := &Scanner{
		Sources:     Sources{Metadata: source},
		Engine:      newTestEngine(t),
		Concurrency: 3,
		Timeout:     50 * time.Millisecond,
	}

	reports, err := scanner.ScanPackages(context.Background(), requests("fast-a", "slow", "fast-b"))
	require.NoError(t, err, "a timed out package does not abort the scan")
	require.Len(t, reports, 3)

	slow := reports[1]
	assert.Equal(t, "slow", slow.Name)
	assert.True(t, slow.Fallback)
	assert.Equal(t, 50, slow.Health.Score)
	require.NotEmpty(t, slow.Alerts)
	assert.Equal(t, "slow-unavail", slow.Alerts[0].ID)

	for _, r := range []schema.DependencyReport{reports[0], reports[2]} {
		assert.False(t, r.Fallback, r.Name)
		assert.Equal(t, "2.0.0", r.Version, r.Name)
	}
}

func TestAnalyzeOne(t *testing.T) {
	meta := &contract.MockMetadataSource{}
	meta.On("FetchPackage", mock.Anything, "react").Return(packument("react", "", nil), nil)
	meta.On("FetchPackage", mock.Anything, "ghost").Return(nil, fmt.Errorf("wrapped: %w", contract.ErrPackageNotFound))
	scanner := &Scanner{Sources: Sources{Metadata: meta}, Engine: newTestEngine(t)}

	report, err := scanner.AnalyzeOne(context.Background(), DependencyRequest{Name: "react"})
	require.NoError(t, err)
	assert.Equal(t, "react", report.Name)

	_, err = scanner.AnalyzeOne(context.Background(), DependencyRequest{Name: "ghost"})
	assert.ErrorIs(t, err, contract.ErrPackageNotFound)
}

func TestBatchStep(t *testing.T) {
	tests := []struct {
		offset, total int
		expected      schema.ScanStep
	}{
		{0, 20, schema.StepMaintainers},
		{5, 20, schema.StepTakeover},
		{10, 20, schema.StepSlopsquat},
		{15, 20, schema.StepLicense},
		{19, 20, schema.StepLicense},
		{0, 1, schema.StepMaintainers},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.offset, tt.total), func(t *testing.T) {
			assert.Equal(t, tt.expected, batchStep(tt.offset, tt.total))
		})
	}
}
