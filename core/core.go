// Package core wires the registry, GitHub and cache layers to the scoring
// engine and drives scans, checks and the other command entry points.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/depshield/core/algo"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/internal/github"
	"github.com/huangsam/depshield/internal/metrics"
	"github.com/huangsam/depshield/internal/outwriter"
	"github.com/huangsam/depshield/internal/registry"
	"github.com/huangsam/depshield/schema"
)

// Sources bundles the external data sources of a scan.
type Sources struct {
	Metadata  contract.MetadataSource
	Downloads contract.DownloadSource
	Activity  contract.ActivitySource
	Manifest  contract.ManifestSource
}

// NewSources builds the registry and GitHub clients from cfg. Registry
// documents are served through the cache when a registry store is configured.
func NewSources(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (Sources, error) {
	reg := registry.NewClient(registry.Options{
		RegistryURL:  cfg.RegistryURL,
		DownloadsURL: cfg.DownloadsURL,
		Timeout:      cfg.Timeout,
		RateLimit:    cfg.RateLimit,
	})
	gh, err := github.NewClient(ctx, github.Options{
		BaseURL:   cfg.GitHubURL,
		Token:     cfg.GitHubToken,
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
	})
	if err != nil {
		return Sources{}, err
	}

	var meta contract.MetadataSource = reg
	if mgr != nil {
		if store := mgr.GetRegistryStore(); store != nil {
			meta = NewCachedMetadataSource(reg, store, cfg.CacheTTL)
		}
	}
	return Sources{Metadata: meta, Downloads: reg, Activity: gh, Manifest: gh}, nil
}

// LoadAlternatives returns the built-in alternatives merged with cfg.AlternativesFile.
func LoadAlternatives(cfg *contract.Config) (algo.AlternativesTable, error) {
	table := algo.DefaultAlternatives()
	if cfg.AlternativesFile == "" {
		return table, nil
	}
	custom, err := algo.LoadAlternativesFile(cfg.AlternativesFile)
	if err != nil {
		return nil, err
	}
	return table.Merge(custom), nil
}

// NewEngine builds the scoring engine from cfg.
func NewEngine(cfg *contract.Config) (*algo.Engine, error) {
	alternatives, err := LoadAlternatives(cfg)
	if err != nil {
		return nil, err
	}
	return algo.NewEngine(algo.EngineConfig{
		Alternatives: alternatives,
		Weights:      cfg.Weights,
	})
}

// NewScanner builds a Scanner from cfg.
func NewScanner(cfg *contract.Config, sources Sources, engine *algo.Engine) *Scanner {
	return &Scanner{
		Sources:     sources,
		Engine:      engine,
		Concurrency: cfg.Concurrency,
		Timeout:     cfg.Timeout,
	}
}

// RunScan resolves cfg.Target, scans its dependencies and aggregates the
// result. A cancelled scan returns a partial result and ctx.Err().
func RunScan(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (schema.ScanResult, error) {
	start := time.Now()

	target, err := ParseTarget(cfg.Target)
	if err != nil {
		return schema.ScanResult{}, err
	}
	sources, err := NewSources(ctx, cfg, mgr)
	if err != nil {
		return schema.ScanResult{}, err
	}
	engine, err := NewEngine(cfg)
	if err != nil {
		return schema.ScanResult{}, err
	}

	repoName, deps, err := ResolveDependencies(ctx, target, sources, cfg.IncludeDev)
	if err != nil {
		return schema.ScanResult{}, err
	}
	contract.Log.WithField("target", repoName).Infof("Scanning %d dependencies", len(deps))

	// --- Begin Scan Tracking (if configured) ---
	ctx, tracker := beginScanTracking(ctx, cfg, mgr, target.Raw)

	var recorder *metrics.Recorder
	if cfg.MetricsFile != "" {
		recorder = metrics.NewRecorder()
	}

	scanner := NewScanner(cfg, sources, engine)
	scanner.Metrics = recorder
	if !shouldSuppressProgress(ctx) {
		scanner.OnProgress = outwriter.NewProgressPrinter(os.Stderr)
	}

	reports, scanErr := scanner.ScanPackages(ctx, deps)

	scanID := tracker.RunID()
	if scanID == "" {
		scanID = uuid.NewString()
	}
	result := BuildScanResult(scanID, repoName, reports, engine.Now().UTC())
	result.Partial = scanErr != nil

	// --- End Scan Tracking ---
	tracker.recordReports(reports, result.ScannedAt)
	tracker.end(result)

	recorder.ObserveScan(result, time.Since(start))
	if err := recorder.WriteTextfile(cfg.MetricsFile); err != nil {
		contract.LogWarn("Failed to write metrics file", err)
	}
	return result, scanErr
}

// ExecuteScan runs a repository-level scan and prints the result.
// It serves as the main entry point for the 'scan' command.
func ExecuteScan(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	result, err := RunScan(ctx, cfg, mgr)
	if err != nil && !result.Partial {
		return err
	}
	if result.Partial {
		contract.LogWarn(fmt.Sprintf("Scan interrupted after %d packages", result.TotalDependencies), err)
	}
	return outwriter.NewOutWriter().WriteScan(result, cfg, time.Since(start))
}

// AnalyzePackage builds the detailed report of a single npm package.
func AnalyzePackage(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, name string) (schema.DependencyReport, error) {
	if !IsNpmPackageName(name) {
		return schema.DependencyReport{}, fmt.Errorf("%w: %q is not an npm package name", ErrInvalidInput, name)
	}
	sources, err := NewSources(ctx, cfg, mgr)
	if err != nil {
		return schema.DependencyReport{}, err
	}
	engine, err := NewEngine(cfg)
	if err != nil {
		return schema.DependencyReport{}, err
	}
	report, err := NewScanner(cfg, sources, engine).AnalyzeOne(ctx, DependencyRequest{Name: name, Version: "latest", IsDirect: true})
	if err != nil {
		if errors.Is(err, contract.ErrPackageNotFound) {
			return schema.DependencyReport{}, fmt.Errorf("package %q does not exist on the registry: %w", name, err)
		}
		return schema.DependencyReport{}, fmt.Errorf("could not analyze %s: %w", name, err)
	}
	return report, nil
}

// ExecutePackage prints the detailed analysis of one package.
// It serves as the main entry point for the 'package' command.
func ExecutePackage(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, name string) error {
	start := time.Now()
	report, err := AnalyzePackage(ctx, cfg, mgr, name)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WritePackage(report, cfg, time.Since(start))
}

// ExecuteCheck scans cfg.Target and gates it against the CI policy.
// It returns ErrCheckFailed when the policy is violated.
func ExecuteCheck(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	start := time.Now()
	scan, err := RunScan(WithSuppressProgress(ctx), cfg, mgr)
	if err != nil {
		return err
	}

	target := cfg.Target
	if target == "" {
		target = DefaultManifest
	}
	result := BuildCheckResult(scan, target, cfg.FailOn, cfg.MinScore)
	if err := outwriter.NewOutWriter().WriteCheck(result, cfg, time.Since(start)); err != nil {
		return err
	}
	if !result.Passed {
		return fmt.Errorf("%w: %d violation(s)", ErrCheckFailed, len(result.Violations))
	}
	return nil
}

// ExecuteAlternatives prints the curated alternatives table, or one entry of it.
func ExecuteAlternatives(_ context.Context, cfg *contract.Config, name string) error {
	table, err := LoadAlternatives(cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteAlternatives(table, name, cfg)
}

// ExecuteMetrics prints the composite scoring model with the active weights.
func ExecuteMetrics(_ context.Context, cfg *contract.Config) error {
	weights := cfg.Weights
	if weights == nil {
		weights = schema.GetDefaultWeights()
	}
	return outwriter.NewOutWriter().WriteScoringModel(weights, cfg)
}
