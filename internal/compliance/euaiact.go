package compliance

// EU AI Act rule definitions.
//
// Based on the EU AI Act risk categories and prohibited practices.
// Reference: https://artificialintelligenceact.eu/
//
// Rule IDs, condition values and risk levels are stable: they appear in
// stored regulatory flags and in reports consumed by external tooling.

// EUAIActRules returns the full EU AI Act rule set in catalogue order:
// prohibited practices first, then high-risk systems, then transparency
// obligations.
func EUAIActRules() []Rule {
	return []Rule{
		// Unacceptable risk - prohibited AI systems.
		{
			ID:   "RULE_001_SOCIAL_SCORING",
			Name: "Social Scoring by Public Authorities",
			Description: "AI systems that evaluate or classify natural persons based on their " +
				"social behavior or personal characteristics, with the evaluation " +
				"leading to detrimental treatment.",
			Category:         CategoryProhibitedPractice,
			RiskLevel:        RiskUnacceptable,
			Regulation:       "EU_AI_ACT",
			ArticleReference: "Article 5(1)(c)",
			Conditions: []Condition{
				{Field: "system_purpose", Operator: OpEquals, Expected: "social_scoring"},
			},
		},
		{
			ID:   "RULE_002_REAL_TIME_BIOMETRIC",
			Name: "Real-Time Remote Biometric Identification",
			Description: "Real-time remote biometric identification systems in publicly " +
				"accessible spaces for law enforcement purposes (with narrow exceptions).",
			Category:         CategoryProhibitedPractice,
			RiskLevel:        RiskUnacceptable,
			Regulation:       "EU_AI_ACT",
			ArticleReference: "Article 5(1)(d)",
			Conditions: []Condition{
				{Field: "uses_biometric_identification", Operator: OpEquals, Expected: true},
				{Field: "real_time_processing", Operator: OpEquals, Expected: true},
				{Field: "public_spaces", Operator: OpEquals, Expected: true},
			},
		},
		{
			ID:   "RULE_003_SUBLIMINAL_MANIPULATION",
			Name: "Subliminal Manipulation",
			Description: "AI systems that deploy subliminal techniques beyond a person's " +
				"consciousness to materially distort their behavior, causing harm.",
			Category:         CategoryProhibitedPractice,
			RiskLevel:        RiskUnacceptable,
			Regulation:       "EU_AI_ACT",
			ArticleReference: "Article 5(1)(a)",
			Conditions: []Condition{
				{Field: "uses_manipulation", Operator: OpEquals, Expected: true},
			},
		},

		// High risk AI systems.
		{
			ID:   "RULE_101_CREDIT_SCORING",
			Name: "Credit Scoring and Creditworthiness",
			Description: "AI systems used for evaluating creditworthiness of natural persons " +
				"or establishing their credit score.",
			Category:         CategoryHighRiskSystem,
			RiskLevel:        RiskHigh,
			Regulation:       "EU_AI_ACT",
			ArticleReference: "Annex III(5)(b)",
			Conditions: []Condition{
				{Field: "system_purpose", Operator: OpEquals, Expected: "credit_scoring"},
			},
		},
		{
			ID:   "RULE_102_EMPLOYMENT",
			Name: "Employment and Recruitment Decisions",
			Description: "AI systems used for recruitment, making decisions on promotion, " +
				"termination, or task allocation for natural persons.",
			Category:         CategoryHighRiskSystem,
			RiskLevel:        RiskHigh,
			Regulation:       "EU_AI_ACT",
			ArticleReference: "Annex III(4)",
			Conditions: []Condition{
				{Field: "system_purpose", Operator: OpIn, Expected: []string{"recruitment", "employment_decisions", "hiring"}},
			},
		},
		{
			ID:   "RULE_103_EDUCATION",
			Name: "Educational Assessment and Admission",
			Description: "AI systems used for determining access to educational institutions " +
				"or assessing students.",
			Category:         CategoryHighRiskSystem,
			RiskLevel:        RiskHigh,
			Regulation:       "EU_AI_ACT",
			ArticleReference: "Annex III(3)",
			Conditions: []Condition{
				{Field: "system_purpose", Operator: OpContains, Expected: "education"},
			},
		},
		{
			ID:          "RULE_104_LAW_ENFORCEMENT",
			Name:        "Law Enforcement AI System",
			Description: "AI systems used by or on behalf of law enforcement authorities.",
			Category:         CategoryHighRiskSystem,
			RiskLevel:        RiskHigh,
			Regulation:       "EU_AI_ACT",
			ArticleReference: "Annex III(6)",
			Conditions: []Condition{
				{Field: "used_by_law_enforcement", Operator: OpEquals, Expected: true},
			},
		},
		{
			ID:   "RULE_105_CRITICAL_INFRASTRUCTURE",
			Name: "Critical Infrastructure Management",
			Description: "AI systems used as safety components in management and operation " +
				"of critical infrastructure (water, gas, electricity, transport).",
			Category:         CategoryHighRiskSystem,
			RiskLevel:        RiskHigh,
			Regulation:       "EU_AI_ACT",
			ArticleReference: "Annex III(2)",
			Conditions: []Condition{
				{Field: "system_purpose", Operator: OpEquals, Expected: "critical_infrastructure"},
			},
		},

		// Limited risk - transparency obligations.
		{
			ID:   "RULE_201_CHATBOT",
			Name: "Chatbot Transparency",
			Description: "AI systems that interact with natural persons must inform users " +
				"they are interacting with AI.",
			Category:         CategoryTransparency,
			RiskLevel:        RiskLimited,
			Regulation:       "EU_AI_ACT",
			ArticleReference: "Article 52(1)",
			Conditions: []Condition{
				{Field: "system_type", Operator: OpEquals, Expected: "chatbot"},
			},
		},
		{
			ID:   "RULE_202_EMOTION_RECOGNITION",
			Name: "Emotion Recognition System",
			Description: "AI systems that recognize emotions must inform users of the system's " +
				"operation.",
			Category:         CategoryTransparency,
			RiskLevel:        RiskLimited,
			Regulation:       "EU_AI_ACT",
			ArticleReference: "Article 52(2)",
			Conditions: []Condition{
				{Field: "recognizes_emotions", Operator: OpEquals, Expected: true},
			},
		},
		{
			ID:   "RULE_203_DEEPFAKE",
			Name: "Deep Fake Content",
			Description: "AI-generated or manipulated image, audio, or video content (deepfakes) " +
				"must be labeled as artificially generated.",
			Category:         CategoryTransparency,
			RiskLevel:        RiskLimited,
			Regulation:       "EU_AI_ACT",
			ArticleReference: "Article 52(3)",
			Conditions: []Condition{
				{Field: "generates_synthetic_content", Operator: OpEquals, Expected: true},
			},
		},
	}
}

// DefaultCatalogue builds the validated EU AI Act catalogue. The rule set is
// compiled-in data; a validation failure is a programming error and panics
// at startup.
func DefaultCatalogue() *Catalogue {
	c, err := NewCatalogue(EUAIActRules())
	if err != nil {
		panic("compliance: invalid built-in rule catalogue: " + err.Error())
	}
	return c
}
