package compliance

import (
	"fmt"
	"strings"
)

// Rule is a named, categorized, severity-tagged conjunction of conditions.
//
// Rules are immutable members of the static catalogue; nothing about them is
// persisted per assessment beyond the rule ID on triggered flags.
type Rule struct {
	// ID is the stable token used for traceability in flags, reports and
	// tests (e.g. "RULE_001_SOCIAL_SCORING").
	ID          string
	Name        string
	Description string
	Category    Category
	RiskLevel   RiskLevel
	// Conditions are combined with AND semantics in declaration order.
	Conditions []Condition
	// Regulation names the source authority, e.g. "EU_AI_ACT".
	Regulation string
	// ArticleReference is an optional citation, e.g. "Article 5(1)(c)".
	ArticleReference string
}

// Evaluate reports whether the rule is triggered by the given answers.
//
// All conditions must be met. A rule with zero conditions never triggers;
// that is explicit policy, not an error. Evaluation short-circuits on the
// first unmet condition.
func (r Rule) Evaluate(answers AnswerSet) (bool, error) {
	if len(r.Conditions) == 0 {
		return false, nil
	}
	for _, cond := range r.Conditions {
		met, err := cond.Evaluate(answers)
		if err != nil {
			return false, fmt.Errorf("rule %s: %w", r.ID, err)
		}
		if !met {
			return false, nil
		}
	}
	return true, nil
}

// Explanation renders the fixed-format human-readable explanation of the
// rule: its name, the conjunction of conditions, the risk level, and the
// regulation tag.
func (r Rule) Explanation() string {
	parts := make([]string, 0, len(r.Conditions))
	for _, cond := range r.Conditions {
		parts = append(parts, cond.String())
	}
	return fmt.Sprintf("%s\nTriggered when: %s\nRisk Level: %s\nRegulation: %s",
		r.Name, strings.Join(parts, " AND "), r.RiskLevel, r.Regulation)
}

// RuleResult is the outcome of evaluating one rule against one answer set.
// Explanation is empty when the rule did not trigger.
type RuleResult struct {
	Rule        Rule
	Triggered   bool
	Explanation string
}
