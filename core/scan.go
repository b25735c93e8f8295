package core

import (
	"context"
	"time"

	"github.com/huangsam/depshield/core/algo"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/internal/metrics"
	"github.com/huangsam/depshield/schema"
	"golang.org/x/sync/errgroup"
)

// Scanner fetches and analyzes dependencies in bounded batches.
type Scanner struct {
	Sources     Sources
	Engine      *algo.Engine
	Concurrency int           // Batch size and in-flight limit (0 = default)
	Timeout     time.Duration // Per-package fetch budget (0 = default)
	OnProgress  func(schema.ScanProgress)
	Metrics     *metrics.Recorder
}

// ScanPackages analyzes deps batch by batch and returns one report per
// package in input order. A package whose metadata cannot be fetched gets a
// fallback report. When ctx is cancelled no further batches start; the
// reports finished so far are returned together with ctx.Err(). Packages
// still in flight at that moment are left out.
func (s *Scanner) ScanPackages(ctx context.Context, deps []DependencyRequest) ([]schema.DependencyReport, error) {
	total := len(deps)
	batchSize := s.Concurrency
	if batchSize <= 0 {
		batchSize = contract.DefaultConcurrency
	}

	s.emit(schema.StepParse, 0, total)
	s.emit(schema.StepMetadata, 0, total)

	reports := make([]schema.DependencyReport, 0, total)
	for i := 0; i < total; i += batchSize {
		if err := ctx.Err(); err != nil {
			return reports, err
		}
		end := min(i+batchSize, total)
		batch := deps[i:end]

		results := make([]*schema.DependencyReport, len(batch))
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(batchSize)
		for j, dep := range batch {
			g.Go(func() error {
				if report, ok := s.analyzeDependency(gctx, dep); ok {
					results[j] = &report
				}
				return nil
			})
		}
		_ = g.Wait()

		for _, r := range results {
			if r != nil {
				reports = append(reports, *r)
			}
		}
		s.emit(batchStep(i, total), end, total)
	}

	if err := ctx.Err(); err != nil {
		return reports, err
	}
	s.emit(schema.StepReport, total, total)
	return reports, nil
}

// AnalyzeOne builds the report of a single package. Unlike ScanPackages it
// returns the fetch error instead of a fallback report.
func (s *Scanner) AnalyzeOne(ctx context.Context, dep DependencyRequest) (schema.DependencyReport, error) {
	fctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()
	return s.build(fctx, dep)
}

// analyzeDependency returns false when ctx was cancelled before the package finished.
func (s *Scanner) analyzeDependency(ctx context.Context, dep DependencyRequest) (schema.DependencyReport, bool) {
	start := time.Now()
	fctx, cancel := context.WithTimeout(ctx, s.timeout())
	defer cancel()

	report, err := s.build(fctx, dep)
	if ctx.Err() != nil {
		return schema.DependencyReport{}, false
	}
	if err != nil {
		contract.Log.WithError(err).WithFields(map[string]any{
			"package": dep.Name,
			"run":     runIDFromContext(ctx),
		}).Debug("Using fallback report")
		report = FallbackReport(dep.Name, dep.Version, dep.IsDirect)
	}
	s.Metrics.ObservePackage(report, time.Since(start))
	return report, true
}

func (s *Scanner) build(ctx context.Context, dep DependencyRequest) (schema.DependencyReport, error) {
	return NewReportBuilder(ctx, s.Sources, s.Engine, dep).
		FetchMetadata().
		FetchDownloads().
		FetchActivity().
		Analyze().
		Build()
}

func (s *Scanner) timeout() time.Duration {
	if s.Timeout <= 0 {
		return contract.DefaultTimeout
	}
	return s.Timeout
}

func (s *Scanner) emit(step schema.ScanStep, processed, total int) {
	if s.OnProgress == nil {
		return
	}
	s.OnProgress(schema.ScanProgress{Step: step, PackagesProcessed: processed, TotalPackages: total})
}

// batchStep maps the start offset of a finished batch onto the analyzer
// steps (maintainers through license).
func batchStep(offset, total int) schema.ScanStep {
	idx := min(2+offset*4/total, 5)
	return schema.AllScanSteps[idx]
}
