package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance engine.
type Metrics struct {
	// Overall evaluation latency
	EvaluateLatency prometheus.Histogram

	// Final verdicts by risk level
	Outcomes *prometheus.CounterVec

	// Rule triggers by rule ID
	RuleTriggers *prometheus.CounterVec
}

// New creates a new Metrics instance with all compliance engine metrics registered.
func New() *Metrics {
	return &Metrics{
		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "conform_compliance_evaluate_duration_seconds",
			Help:    "Duration of full rule catalogue evaluation",
			Buckets: []float64{0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01, 0.025},
		}),

		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "conform_compliance_outcomes_total",
			Help: "Total evaluation verdicts by overall risk level",
		}, []string{"risk_level"}),

		RuleTriggers: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "conform_compliance_rule_triggers_total",
			Help: "Total rule triggers by rule ID",
		}, []string{"rule_id"}),
	}
}

// ObserveEvaluateLatency records the duration of one catalogue evaluation.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}

// IncrementOutcome records the overall verdict of one evaluation.
func (m *Metrics) IncrementOutcome(riskLevel string) {
	if m != nil {
		m.Outcomes.WithLabelValues(riskLevel).Inc()
	}
}

// IncrementRuleTrigger records a single rule firing.
func (m *Metrics) IncrementRuleTrigger(ruleID string) {
	if m != nil {
		m.RuleTriggers.WithLabelValues(ruleID).Inc()
	}
}
