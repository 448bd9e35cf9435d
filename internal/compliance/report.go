package compliance

// Report is the machine-readable summary of one evaluation, consumed by the
// assessment report endpoint and external tooling. Field names are part of
// the wire contract.
type Report struct {
	OverallRiskLevel    string          `json:"overall_risk_level"`
	TotalRulesEvaluated int             `json:"total_rules_evaluated"`
	RulesTriggered      int             `json:"rules_triggered"`
	TriggeredRules      []TriggeredRule `json:"triggered_rules"`
	ComplianceSummary   string          `json:"compliance_summary"`
}

// TriggeredRule is the serialized form of a triggered rule result.
type TriggeredRule struct {
	RuleID      string  `json:"rule_id"`
	RuleName    string  `json:"rule_name"`
	Triggered   bool    `json:"triggered"`
	RiskLevel   *string `json:"risk_level"`
	Category    string  `json:"category"`
	Explanation string  `json:"explanation"`
}

// GenerateReport builds a compliance report from an evaluation verdict and
// its per-rule results. Purely derived; no state.
func (e *Engine) GenerateReport(riskLevel RiskLevel, results []RuleResult) *Report {
	triggered := e.TriggeredRules(results)

	serialized := make([]TriggeredRule, 0, len(triggered))
	for _, r := range triggered {
		serialized = append(serialized, serializeResult(r))
	}

	return &Report{
		OverallRiskLevel:    string(riskLevel),
		TotalRulesEvaluated: len(results),
		RulesTriggered:      len(triggered),
		TriggeredRules:      serialized,
		ComplianceSummary:   Summary(riskLevel),
	}
}

// serializeResult converts a rule result for storage and transport. The risk
// level is only present when the rule triggered.
func serializeResult(r RuleResult) TriggeredRule {
	out := TriggeredRule{
		RuleID:      r.Rule.ID,
		RuleName:    r.Rule.Name,
		Triggered:   r.Triggered,
		Category:    string(r.Rule.Category),
		Explanation: r.Explanation,
	}
	if r.Triggered {
		level := string(r.Rule.RiskLevel)
		out.RiskLevel = &level
	}
	return out
}

// Summary returns the fixed natural-language consequence for a risk tier.
// The four templates are part of the report contract.
func Summary(riskLevel RiskLevel) string {
	switch riskLevel {
	case RiskUnacceptable:
		return "UNACCEPTABLE RISK: This AI system involves prohibited practices " +
			"under the EU AI Act and cannot be deployed."
	case RiskHigh:
		return "HIGH RISK: This AI system is classified as high-risk under the " +
			"EU AI Act and must comply with strict requirements including risk " +
			"management, data governance, transparency, human oversight, and " +
			"accuracy standards."
	case RiskLimited:
		return "LIMITED RISK: This AI system must comply with transparency " +
			"obligations under the EU AI Act."
	default:
		return "MINIMAL RISK: This AI system is not subject to specific " +
			"requirements under the EU AI Act."
	}
}
