package compliance

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"conform/internal/compliance/metrics"
)

// Engine evaluates answer sets against an immutable rule catalogue.
//
// The engine is stateless across calls apart from the catalogue reference
// held at construction, so one instance serves all requests concurrently.
type Engine struct {
	catalogue *Catalogue
	logger    *slog.Logger
	metrics   *metrics.Metrics
	tracer    trace.Tracer
}

// Option configures the Engine.
type Option func(*Engine)

// WithCatalogue replaces the default EU AI Act catalogue. Used by tests and
// deployments scoped to a regulatory subset.
func WithCatalogue(c *Catalogue) Option {
	return func(e *Engine) {
		e.catalogue = c
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// NewEngine constructs an Engine, defaulting to the full EU AI Act catalogue.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		catalogue: DefaultCatalogue(),
		logger:    slog.Default(),
		tracer:    otel.Tracer("conform/compliance"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Catalogue exposes the engine's rule catalogue for lookups by callers that
// need rule metadata (e.g. to build regulatory flags).
func (e *Engine) Catalogue() *Catalogue {
	return e.catalogue
}

// EvaluateAssessment evaluates every rule in the catalogue against the given
// answers and aggregates the triggered severities into one verdict.
//
// Results preserve catalogue order. The highest severity among triggered
// rules wins; with nothing triggered (including an empty answer set or an
// empty catalogue) the verdict is RiskMinimal. Calling twice with the same
// answers yields identical results.
//
// An error means a defect in the catalogue (unsupported operator, operand
// type mismatch) and is propagated rather than mapped to a verdict.
func (e *Engine) EvaluateAssessment(ctx context.Context, answers AnswerSet) (RiskLevel, []RuleResult, error) {
	ctx, span := e.tracer.Start(ctx, "compliance.evaluate_assessment")
	defer span.End()

	start := time.Now()
	e.logger.InfoContext(ctx, "evaluating assessment",
		"answers", len(answers),
		"rules", e.catalogue.Len(),
	)

	results := make([]RuleResult, 0, e.catalogue.Len())
	overall := RiskMinimal

	for _, rule := range e.catalogue.Rules() {
		triggered, err := rule.Evaluate(answers)
		if err != nil {
			span.RecordError(err)
			return "", nil, err
		}

		result := RuleResult{Rule: rule, Triggered: triggered}
		if triggered {
			result.Explanation = rule.Explanation()
			if rule.RiskLevel.Severity() > overall.Severity() {
				overall = rule.RiskLevel
			}
			e.metrics.IncrementRuleTrigger(rule.ID)
			e.logger.InfoContext(ctx, "rule triggered",
				"rule_id", rule.ID,
				"rule_name", rule.Name,
				"risk_level", rule.RiskLevel,
			)
		}
		results = append(results, result)
	}

	span.SetAttributes(
		attribute.String("compliance.risk_level", string(overall)),
		attribute.Int("compliance.rules_triggered", len(e.TriggeredRules(results))),
	)
	e.metrics.IncrementOutcome(string(overall))
	e.metrics.ObserveEvaluateLatency(time.Since(start))
	e.logger.InfoContext(ctx, "assessment evaluated", "risk_level", overall)

	return overall, results, nil
}

// TriggeredRules filters results to triggered rules, preserving catalogue
// order.
func (e *Engine) TriggeredRules(results []RuleResult) []RuleResult {
	var triggered []RuleResult
	for _, r := range results {
		if r.Triggered {
			triggered = append(triggered, r)
		}
	}
	return triggered
}
