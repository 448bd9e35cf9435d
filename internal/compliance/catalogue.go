package compliance

import (
	"fmt"
)

// Catalogue is the static, process-wide set of compliance rules. It is
// validated once at construction and read-only afterwards, so it is safe to
// share across concurrent evaluations.
type Catalogue struct {
	rules []Rule
	byID  map[string]int
}

// NewCatalogue validates and indexes a rule set. Duplicate rule IDs, empty
// IDs and unrecognized operators are configuration defects and fail here,
// at startup, rather than mid-evaluation.
func NewCatalogue(rules []Rule) (*Catalogue, error) {
	byID := make(map[string]int, len(rules))
	for i, rule := range rules {
		if rule.ID == "" {
			return nil, fmt.Errorf("rule at index %d has an empty id", i)
		}
		if _, exists := byID[rule.ID]; exists {
			return nil, fmt.Errorf("duplicate rule id %s", rule.ID)
		}
		for _, cond := range rule.Conditions {
			if !cond.Operator.Recognized() {
				return nil, fmt.Errorf("rule %s: %w", rule.ID, &UnsupportedOperatorError{Operator: cond.Operator})
			}
			if cond.Field == "" {
				return nil, fmt.Errorf("rule %s has a condition with an empty field", rule.ID)
			}
		}
		byID[rule.ID] = i
	}
	out := make([]Rule, len(rules))
	copy(out, rules)
	return &Catalogue{rules: out, byID: byID}, nil
}

// Len returns the number of rules in the catalogue.
func (c *Catalogue) Len() int {
	return len(c.rules)
}

// Rules returns the rules in declaration order. Callers must not modify the
// returned slice.
func (c *Catalogue) Rules() []Rule {
	return c.rules
}

// ByID looks up a rule by its stable identifier.
func (c *Catalogue) ByID(id string) (Rule, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Rule{}, false
	}
	return c.rules[i], true
}

// ByCategory returns the rules in the given category, preserving order.
func (c *Catalogue) ByCategory(category Category) []Rule {
	var out []Rule
	for _, rule := range c.rules {
		if rule.Category == category {
			out = append(out, rule)
		}
	}
	return out
}

// ByRiskLevel returns the rules at the given risk level, preserving order.
func (c *Catalogue) ByRiskLevel(level RiskLevel) []Rule {
	var out []Rule
	for _, rule := range c.rules {
		if rule.RiskLevel == level {
			out = append(out, rule)
		}
	}
	return out
}
