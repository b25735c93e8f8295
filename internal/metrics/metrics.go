// Package metrics records scan telemetry with the Prometheus client and
// writes it in the node-exporter textfile format.
package metrics

import (
	"time"

	"github.com/huangsam/depshield/schema"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "depshield"

// Package outcomes.
const (
	OutcomeAnalyzed = "analyzed"
	OutcomeFallback = "fallback"
)

// Recorder holds the scan metrics on a private registry. A nil *Recorder is
// valid and records nothing.
type Recorder struct {
	registry *prometheus.Registry

	packages      *prometheus.CounterVec
	alerts        *prometheus.CounterVec
	fetchDuration prometheus.Histogram
	scanDuration  prometheus.Gauge
	overallScore  prometheus.Gauge
	lastScan      prometheus.Gauge
}

// NewRecorder creates a Recorder with its own registry.
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		packages: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "packages_total",
			Help:      "Packages processed by the scan pipeline",
		}, []string{"outcome"}),
		alerts: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "alerts_total",
			Help:      "Risk alerts raised, by severity",
		}, []string{"severity"}),
		fetchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "fetch",
			Name:      "duration_seconds",
			Help:      "Time spent fetching and analyzing one package",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),
		scanDuration: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "duration_seconds",
			Help:      "Wall time of the last scan",
		}),
		overallScore: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "overall_score",
			Help:      "Overall health score of the last scan",
		}),
		lastScan: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "scan",
			Name:      "last_timestamp_seconds",
			Help:      "Unix time the last scan finished",
		}),
	}
}

// ObservePackage records one analyzed or fallback package and its fetch time.
func (r *Recorder) ObservePackage(report schema.DependencyReport, elapsed time.Duration) {
	if r == nil {
		return
	}
	outcome := OutcomeAnalyzed
	if report.Fallback {
		outcome = OutcomeFallback
	}
	r.packages.WithLabelValues(outcome).Inc()
	r.fetchDuration.Observe(elapsed.Seconds())
	for _, alert := range report.Alerts {
		r.alerts.WithLabelValues(string(alert.Severity)).Inc()
	}
}

// ObserveScan records the outcome of a finished scan.
func (r *Recorder) ObserveScan(result schema.ScanResult, elapsed time.Duration) {
	if r == nil {
		return
	}
	r.scanDuration.Set(elapsed.Seconds())
	r.overallScore.Set(float64(result.OverallScore))
	r.lastScan.Set(float64(result.ScannedAt.Unix()))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// WriteTextfile writes all metrics to path. An empty path is a no-op.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, r.registry)
}
