package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once          sync.Once
	phaseDuration *prom.HistogramVec
	runDuration   prom.Histogram
	phaseResults  *prom.CounterVec
	runOutcome    *prom.CounterVec
	generations   *prom.CounterVec
	artifactBytes *prom.HistogramVec
}

// NewPrometheusRecorder constructs and registers Prometheus metrics
// (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.phaseDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "readmegen",
			Name:      "phase_duration_seconds",
			Help:      "Duration of individual lifecycle phases",
			Buckets:   prom.DefBuckets,
		}, []string{"phase"})
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "readmegen",
			Name:      "run_duration_seconds",
			Help:      "Total run duration",
			Buckets:   prom.DefBuckets,
		})
		pr.phaseResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "readmegen",
			Name:      "phase_results_total",
			Help:      "Phase result counts by outcome",
		}, []string{"phase", "result"})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "readmegen",
			Name:      "run_outcomes_total",
			Help:      "Run outcomes by final status",
		}, []string{"outcome"})
		pr.generations = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "readmegen",
			Name:      "generations_total",
			Help:      "README generations by format and trigger",
		}, []string{"format", "trigger"})
		pr.artifactBytes = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "readmegen",
			Name:      "artifact_bytes",
			Help:      "Size of generated artifacts",
			Buckets:   prom.ExponentialBuckets(64, 4, 8),
		}, []string{"format"})
		reg.MustRegister(pr.phaseDuration, pr.runDuration, pr.phaseResults, pr.runOutcome, pr.generations, pr.artifactBytes)
	})
	return pr
}

func (p *PrometheusRecorder) ObservePhaseDuration(phase string, d time.Duration) {
	if p == nil || p.phaseDuration == nil {
		return
	}
	p.phaseDuration.WithLabelValues(phase).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	if p == nil || p.runDuration == nil {
		return
	}
	p.runDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncPhaseResult(phase string, result ResultLabel) {
	if p == nil || p.phaseResults == nil {
		return
	}
	p.phaseResults.WithLabelValues(phase, string(result)).Inc()
}

func (p *PrometheusRecorder) IncRunOutcome(outcome string) {
	if p == nil || p.runOutcome == nil {
		return
	}
	p.runOutcome.WithLabelValues(outcome).Inc()
}

func (p *PrometheusRecorder) IncGeneration(format, trigger string) {
	if p == nil || p.generations == nil {
		return
	}
	p.generations.WithLabelValues(format, trigger).Inc()
}

func (p *PrometheusRecorder) ObserveArtifactBytes(format string, n int) {
	if p == nil || p.artifactBytes == nil {
		return
	}
	p.artifactBytes.WithLabelValues(format).Observe(float64(n))
}
