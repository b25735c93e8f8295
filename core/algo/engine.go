package algo

import (
	"maps"
	"sync"
	"time"

	"github.com/huangsam/depshield/schema"
)

// EngineConfig holds the static tables injected into an Engine.
// Zero-valued fields fall back to the built-in defaults.
type EngineConfig struct {
	Corpus         *Corpus
	Alternatives   AlternativesTable
	PrivacyDomains []string
	Weights        map[schema.DimensionKey]float64
	Now            func() time.Time
}

// Engine runs the per-package analysis pipeline over immutable tables.
type Engine struct {
	corpus  Corpus
	advisor *Advisor
	privacy PrivacyDomains
	weights map[schema.DimensionKey]float64
	now     func() time.Time
}

// NewEngine validates the configuration and builds an engine.
func NewEngine(cfg EngineConfig) (*Engine, error) {
	e := &Engine{
		corpus:  DefaultCorpus(),
		advisor: NewAdvisor(DefaultAlternatives()),
		privacy: NewPrivacyDomains(DefaultPrivacyDomains()),
		weights: schema.GetDefaultWeights(),
		now:     time.Now,
	}
	if cfg.Corpus != nil {
		e.corpus = *cfg.Corpus
	}
	if cfg.Alternatives != nil {
		e.advisor = NewAdvisor(cfg.Alternatives)
	}
	if cfg.PrivacyDomains != nil {
		e.privacy = NewPrivacyDomains(cfg.PrivacyDomains)
	}
	if cfg.Weights != nil {
		if err := ValidateWeights(cfg.Weights); err != nil {
			return nil, err
		}
		e.weights = maps.Clone(cfg.Weights)
	}
	if cfg.Now != nil {
		e.now = cfg.Now
	}
	return e, nil
}

// Advisor returns the engine's migration advisor.
func (e *Engine) Advisor() *Advisor { return e.advisor }

// Now returns the engine's notion of the current time.
func (e *Engine) Now() time.Time { return e.now() }

// Analyze runs the four analyzers concurrently, then composes the health
// score, migration suggestions and alerts for one package.
func (e *Engine) Analyze(meta schema.PackageMetadata, community schema.CommunitySignals, activity *schema.CommitActivity) schema.AnalysisBundle {
	return e.AnalyzeNormalized(Normalize(meta), community, activity)
}

// AnalyzeNormalized is Analyze over an already normalized record.
func (e *Engine) AnalyzeNormalized(norm schema.NormalizedMetadata, community schema.CommunitySignals, activity *schema.CommitActivity) schema.AnalysisBundle {
	now := e.now()

	var b schema.AnalysisBundle
	var wg sync.WaitGroup
	wg.Go(func() { b.MaintainerHealth = AnalyzeMaintainerHealth(norm, activity, now) })
	wg.Go(func() { b.TakeoverRisk = AnalyzeTakeoverRisk(norm, e.privacy) })
	wg.Go(func() { b.Slopsquatting = AnalyzeSlopsquatting(norm, community.WeeklyDownloads, e.corpus, now) })
	wg.Go(func() { b.LicenseMutation = AnalyzeLicenseMutation(norm) })
	wg.Wait()

	b.Health = ComposeHealth(e.weights, b.MaintainerHealth, b.TakeoverRisk, b.Slopsquatting, community,
		daysSince(now, norm.ModifiedAt))
	b.MigrationSuggestions = e.advisor.Suggest(norm.Name, b.Health.Score, b.Health.RiskLevel)
	b.Alerts = BuildAlerts(norm.Name, b)
	if norm.Deprecated != "" {
		b.Alerts = append(b.Alerts, DeprecationAlert(norm.Name, norm.Deprecated))
	}
	return b
}
