package core

import (
	"context"
	"errors"
	"time"

	"github.com/huangsam/depshield/core/algo"
	"github.com/huangsam/depshield/internal/contract"
	"github.com/huangsam/depshield/internal/registry"
	"github.com/huangsam/depshield/schema"
)

// unknownLicenseLabel is shown instead of the UNKNOWN sentinel.
const unknownLicenseLabel = "Unknown"

// ReportBuilder assembles the report of one dependency step by step.
// Only a metadata failure is fatal; the other sources degrade to "no data".
type ReportBuilder struct {
	ctx     context.Context
	sources Sources
	engine  *algo.Engine
	dep     DependencyRequest

	meta      *schema.PackageMetadata
	norm      schema.NormalizedMetadata
	downloads int
	activity  *schema.CommitActivity
	stats     *schema.RepoStats
	owner     string
	repo      string

	report schema.DependencyReport
	err    error
}

// NewReportBuilder is the starting point for building a dependency report.
func NewReportBuilder(ctx context.Context, sources Sources, engine *algo.Engine, dep DependencyRequest) *ReportBuilder {
	return &ReportBuilder{
		ctx:     ctx,
		sources: sources,
		engine:  engine,
		dep:     dep,
	}
}

// FetchMetadata loads and normalizes the registry document.
func (b *ReportBuilder) FetchMetadata() *ReportBuilder {
	if b.err != nil {
		return b
	}
	if b.sources.Metadata == nil {
		b.err = errors.New("no metadata source configured")
		return b
	}
	meta, err := b.sources.Metadata.FetchPackage(b.ctx, b.dep.Name)
	if err != nil {
		b.err = err
		return b
	}
	b.meta = meta
	b.norm = algo.Normalize(*meta)
	if b.norm.Name == "" {
		b.norm.Name = b.dep.Name
	}
	return b
}

// FetchDownloads loads the weekly download count. Failures count as zero.
func (b *ReportBuilder) FetchDownloads() *ReportBuilder {
	if b.err != nil || b.sources.Downloads == nil {
		return b
	}
	downloads, err := b.sources.Downloads.FetchWeeklyDownloads(b.ctx, b.dep.Name)
	if err != nil {
		contract.Log.WithError(err).WithField("package", b.dep.Name).Debug("Weekly downloads unavailable")
		return b
	}
	b.downloads = downloads
	return b
}

// FetchActivity loads commit activity when the package points at a GitHub repository.
func (b *ReportBuilder) FetchActivity() *ReportBuilder {
	if b.err != nil {
		return b
	}
	owner, repo, ok := registry.ParseGitHubRepo(b.meta.Repository.URL)
	if !ok {
		return b
	}
	b.owner, b.repo = owner, repo
	if b.sources.Activity == nil {
		return b
	}

	activity, stats, err := b.sources.Activity.FetchActivity(b.ctx, owner, repo)
	if err != nil {
		contract.Log.WithError(err).WithField("repo", owner+"/"+repo).Debug("Commit activity unavailable")
		return b
	}
	b.activity, b.stats = activity, stats
	return b
}

// Analyze runs the scoring engine and fills in the report.
func (b *ReportBuilder) Analyze() *ReportBuilder {
	if b.err != nil {
		return b
	}

	stars := 0
	if b.stats != nil {
		stars = b.stats.Stars
	}
	community := schema.CommunitySignals{Stars: stars, WeeklyDownloads: b.downloads}
	bundle := b.engine.AnalyzeNormalized(b.norm, community, b.activity)

	version := b.norm.LatestVersion
	if version == "" {
		version = b.dep.Version
	}
	repository := b.norm.RepositoryURL
	if b.owner != "" {
		repository = "https://github.com/" + b.owner + "/" + b.repo
	}
	license := b.norm.License
	if license == algo.UnknownLicense {
		license = unknownLicenseLabel
	}

	b.report = schema.DependencyReport{
		Name:             b.dep.Name,
		Version:          version,
		RequestedVersion: b.dep.Version,
		IsDirect:         b.dep.IsDirect,
		DependencyCount:  len(b.norm.Dependencies),
		Metadata: schema.PackageSummary{
			Name:            b.dep.Name,
			Version:         version,
			Description:     b.norm.Description,
			License:         license,
			Homepage:        b.norm.Homepage,
			Repository:      repository,
			WeeklyDownloads: b.downloads,
			LastPublish:     b.lastPublish(version),
			CreatedAt:       b.meta.Time["created"],
			Maintainers:     b.norm.Maintainers,
			StarsCount:      stars,
		},
		AnalysisBundle: bundle,
	}
	return b
}

// lastPublish prefers the registry's modified time, then the version's publish time.
func (b *ReportBuilder) lastPublish(version string) string {
	if t := b.meta.Time["modified"]; t != "" {
		return t
	}
	if t := b.meta.Time[version]; t != "" {
		return t
	}
	return b.engine.Now().UTC().Format(time.RFC3339)
}

// Build finalizes the construction and returns the report.
func (b *ReportBuilder) Build() (schema.DependencyReport, error) {
	if b.err != nil {
		return schema.DependencyReport{}, b.err
	}
	return b.report, nil
}

// FallbackReport is the low-confidence report used when a package cannot be fetched.
func FallbackReport(name, version string, isDirect bool) schema.DependencyReport {
	return schema.DependencyReport{
		Name:     name,
		Version:  version,
		IsDirect: isDirect,
		Fallback: true,
		Metadata: schema.PackageSummary{
			Name:        name,
			Version:     version,
			License:     unknownLicenseLabel,
			Maintainers: []schema.Person{},
		},
		AnalysisBundle: schema.AnalysisBundle{
			MaintainerHealth: schema.MaintainerHealthResult{
				Score:                 50,
				LastCommitDaysAgo:     999,
				IssueResponseTimeDays: 999,
				Signals:               []string{"Unable to analyze"},
				BusFactorUnknown:      true,
				OpenIssuesUnknown:     true,
			},
			TakeoverRisk:    schema.TakeoverRiskResult{SuspiciousMaintainers: []schema.MaintainerProfile{}, Signals: []string{}},
			Slopsquatting:   schema.SlopsquattingResult{SimilarPackages: []schema.SimilarPackage{}, Signals: []string{}},
			LicenseMutation: schema.LicenseMutationResult{CurrentLicense: unknownLicenseLabel, PreviousLicenses: []schema.LicenseEntry{}, Signals: []string{}},
			Health: schema.CompositeHealth{
				Score:     50,
				Grade:     schema.GradeD,
				RiskLevel: schema.RiskMedium,
			},
			MigrationSuggestions: []schema.MigrationSuggestion{},
			Alerts: []schema.RiskAlert{{
				ID:          name + "-unavail",
				Type:        schema.AlertNoRepository,
				Severity:    schema.SeverityMedium,
				Title:       "Could not analyze package",
				Description: "Failed to fetch metadata for " + name + ". Package may be private or unavailable.",
				PackageName: name,
				Evidence:    "npm registry returned an error.",
			}},
		},
	}
}
