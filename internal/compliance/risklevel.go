// Package compliance implements the deterministic rule evaluation engine for
// AI regulatory assessments. All decisions are pure functions of the static
// rule catalogue and a per-request answer set - no probabilistic scoring.
package compliance

import dErrors "conform/pkg/domain-errors"

// RiskLevel is an ordinal risk tier from the EU AI Act.
//
// The string values are persisted on assessments and regulatory flags, so
// they must stay stable across releases.
type RiskLevel string

const (
	// RiskUnacceptable marks prohibited AI systems.
	RiskUnacceptable RiskLevel = "unacceptable"
	// RiskHigh marks high-risk AI systems subject to strict requirements.
	RiskHigh RiskLevel = "high"
	// RiskLimited marks systems with transparency obligations only.
	RiskLimited RiskLevel = "limited"
	// RiskMinimal marks systems with no specific requirements. It is the
	// identity of the aggregation: an assessment with zero triggered rules
	// is minimal.
	RiskMinimal RiskLevel = "minimal"
)

// Severity returns the position of the level in the strict total order
// unacceptable > high > limited > minimal. Used for max-reduction when
// aggregating triggered rules into one verdict.
func (l RiskLevel) Severity() int {
	switch l {
	case RiskUnacceptable:
		return 3
	case RiskHigh:
		return 2
	case RiskLimited:
		return 1
	default:
		return 0
	}
}

// ParseRiskLevel validates a risk level received over the wire.
func ParseRiskLevel(s string) (RiskLevel, error) {
	switch RiskLevel(s) {
	case RiskUnacceptable, RiskHigh, RiskLimited, RiskMinimal:
		return RiskLevel(s), nil
	}
	return "", dErrors.Newf(dErrors.CodeValidation, "unknown risk level %q", s)
}

// Category classifies what part of the regulation a rule enforces.
type Category string

const (
	CategoryProhibitedPractice Category = "prohibited_practice"
	CategoryHighRiskSystem     Category = "high_risk_system"
	CategoryTransparency       Category = "transparency"
	CategoryDataGovernance     Category = "data_governance"
	CategoryHumanOversight     Category = "human_oversight"
)
