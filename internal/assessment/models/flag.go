package models

import (
	"time"

	"conform/internal/compliance"
	id "conform/pkg/domain"
)

// FlagSeverity grades a regulatory flag. Mirrors the risk tiers of the rule
// that raised it, with info as the fallback for unknown levels.
type FlagSeverity string

const (
	SeverityCritical FlagSeverity = "critical"
	SeverityHigh     FlagSeverity = "high"
	SeverityMedium   FlagSeverity = "medium"
	SeverityLow      FlagSeverity = "low"
	SeverityInfo     FlagSeverity = "info"
)

// SeverityFromRisk maps a rule's risk level to flag severity.
func SeverityFromRisk(level compliance.RiskLevel) FlagSeverity {
	switch level {
	case compliance.RiskUnacceptable:
		return SeverityCritical
	case compliance.RiskHigh:
		return SeverityHigh
	case compliance.RiskLimited:
		return SeverityMedium
	case compliance.RiskMinimal:
		return SeverityLow
	default:
		return SeverityInfo
	}
}

// RegulatoryFlag is a compliance issue raised by a triggered rule during
// assessment completion. RuleID keeps the flag traceable to its rule.
type RegulatoryFlag struct {
	AssessmentID id.AssessmentID
	Regulation   string
	Category     string
	Severity     FlagSeverity
	Title        string
	Description  string
	RuleID       string
	CreatedAt    time.Time
}

// FlagFromRule builds a regulatory flag for a triggered rule.
func FlagFromRule(assessmentID id.AssessmentID, rule compliance.Rule, now time.Time) RegulatoryFlag {
	return RegulatoryFlag{
		AssessmentID: assessmentID,
		Regulation:   rule.Regulation,
		Category:     string(rule.Category),
		Severity:     SeverityFromRisk(rule.RiskLevel),
		Title:        rule.Name,
		Description:  rule.Description,
		RuleID:       rule.ID,
		CreatedAt:    now,
	}
}
