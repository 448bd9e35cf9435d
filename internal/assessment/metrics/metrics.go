// Package metrics exposes Prometheus instrumentation for the assessment
// lifecycle. All methods are nil-safe so wiring metrics stays optional.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks assessment activity.
type Metrics struct {
	created           prometheus.Counter
	completed         *prometheus.CounterVec
	completionLatency prometheus.Histogram
	flagsRaised       prometheus.Counter
	reportCacheHits   prometheus.Counter
	reportCacheMisses prometheus.Counter
}

// New registers assessment metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		created: factory.NewCounter(prometheus.CounterOpts{
			Name: "conform_assessments_created_total",
			Help: "Number of assessments created.",
		}),
		completed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "conform_assessments_completed_total",
			Help: "Number of assessments completed, by resulting risk level.",
		}, []string{"risk_level"}),
		completionLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "conform_assessment_completion_seconds",
			Help:    "Time spent completing an assessment, including rule evaluation and flag persistence.",
			Buckets: prometheus.DefBuckets,
		}),
		flagsRaised: factory.NewCounter(prometheus.CounterOpts{
			Name: "conform_regulatory_flags_raised_total",
			Help: "Number of regulatory flags raised across all completions.",
		}),
		reportCacheHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "conform_report_cache_hits_total",
			Help: "Number of assessment reports served from cache.",
		}),
		reportCacheMisses: factory.NewCounter(prometheus.CounterOpts{
			Name: "conform_report_cache_misses_total",
			Help: "Number of assessment reports built from stores.",
		}),
	}
}

func (m *Metrics) IncrementCreated() {
	if m != nil {
		m.created.Inc()
	}
}

func (m *Metrics) IncrementCompleted(riskLevel string) {
	if m != nil {
		m.completed.WithLabelValues(riskLevel).Inc()
	}
}

func (m *Metrics) ObserveCompletionLatency(seconds float64) {
	if m != nil {
		m.completionLatency.Observe(seconds)
	}
}

func (m *Metrics) AddFlagsRaised(n int) {
	if m != nil {
		m.flagsRaised.Add(float64(n))
	}
}

func (m *Metrics) IncrementReportCacheHit() {
	if m != nil {
		m.reportCacheHits.Inc()
	}
}

func (m *Metrics) IncrementReportCacheMiss() {
	if m != nil {
		m.reportCacheMisses.Inc()
	}
}
