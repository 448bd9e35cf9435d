package compliance

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func evaluateAndReport(t *testing.T, answers AnswerSet) *Report {
	t.Helper()
	engine := NewEngine()
	level, results, err := engine.EvaluateAssessment(context.Background(), answers)
	require.NoError(t, err)
	return engine.GenerateReport(level, results)
}

func TestGenerateReport_MinimalRisk(t *testing.T) {
	report := evaluateAndReport(t, AnswerSet{})

	assert.Equal(t, "minimal", report.OverallRiskLevel)
	assert.Equal(t, 11, report.TotalRulesEvaluated)
	assert.Equal(t, 0, report.RulesTriggered)
	assert.Empty(t, report.TriggeredRules)
	assert.True(t, strings.HasPrefix(report.ComplianceSummary, "MINIMAL RISK:"))
}

func TestGenerateReport_TriggeredRuleContents(t *testing.T) {
	report := evaluateAndReport(t, AnswerSet{"system_purpose": "social_scoring"})

	assert.Equal(t, "unacceptable", report.OverallRiskLevel)
	require.Equal(t, 1, report.RulesTriggered)
	require.Len(t, report.TriggeredRules, 1)

	entry := report.TriggeredRules[0]
	assert.Equal(t, "RULE_001_SOCIAL_SCORING", entry.RuleID)
	assert.True(t, entry.Triggered)
	require.NotNil(t, entry.RiskLevel)
	assert.Equal(t, "unacceptable", *entry.RiskLevel)
	assert.Equal(t, "prohibited_practice", entry.Category)
	assert.NotEmpty(t, entry.RuleName)
	assert.NotEmpty(t, entry.Explanation)
}

func TestGenerateReport_CountsAndMultipleTriggers(t *testing.T) {
	report := evaluateAndReport(t, AnswerSet{
		"system_purpose": "credit_scoring",
		"system_type":    "chatbot",
	})

	assert.Equal(t, "high", report.OverallRiskLevel)
	assert.Equal(t, 11, report.TotalRulesEvaluated)
	assert.Equal(t, len(report.TriggeredRules), report.RulesTriggered)
	assert.GreaterOrEqual(t, report.RulesTriggered, 2)

	var ids []string
	for _, r := range report.TriggeredRules {
		ids = append(ids, r.RuleID)
	}
	assert.Contains(t, ids, "RULE_101_CREDIT_SCORING")
	assert.Contains(t, ids, "RULE_201_CHATBOT")
	assert.True(t, strings.HasPrefix(report.ComplianceSummary, "HIGH RISK:"))
}

func TestGenerateReport_WireFieldNames(t *testing.T) {
	report := evaluateAndReport(t, AnswerSet{"system_purpose": "social_scoring"})

	raw, err := json.Marshal(report)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	for _, key := range []string{
		"overall_risk_level",
		"total_rules_evaluated",
		"rules_triggered",
		"triggered_rules",
		"compliance_summary",
	} {
		assert.Contains(t, decoded, key)
	}

	rules, ok := decoded["triggered_rules"].([]any)
	require.True(t, ok)
	require.NotEmpty(t, rules)
	first, ok := rules[0].(map[string]any)
	require.True(t, ok)
	for _, key := range []string{"rule_id", "rule_name", "triggered", "risk_level", "category", "explanation"} {
		assert.Contains(t, first, key)
	}
}

func TestSummary_Templates(t *testing.T) {
	assert.True(t, strings.HasPrefix(Summary(RiskUnacceptable), "UNACCEPTABLE RISK:"))
	assert.Contains(t, Summary(RiskUnacceptable), "cannot be deployed")

	assert.True(t, strings.HasPrefix(Summary(RiskHigh), "HIGH RISK:"))
	assert.Contains(t, Summary(RiskHigh), "human oversight")

	assert.True(t, strings.HasPrefix(Summary(RiskLimited), "LIMITED RISK:"))
	assert.Contains(t, Summary(RiskLimited), "transparency")

	assert.True(t, strings.HasPrefix(Summary(RiskMinimal), "MINIMAL RISK:"))
}
