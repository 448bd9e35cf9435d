package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCatalogue_Validation(t *testing.T) {
	valid := Rule{
		ID:        "RULE_A",
		Name:      "A",
		RiskLevel: RiskHigh,
		Conditions: []Condition{
			{Field: "x", Operator: OpEquals, Expected: "y"},
		},
	}

	t.Run("accepts a valid rule set", func(t *testing.T) {
		c, err := NewCatalogue([]Rule{valid})
		require.NoError(t, err)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("rejects duplicate rule ids", func(t *testing.T) {
		_, err := NewCatalogue([]Rule{valid, valid})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate rule id RULE_A")
	})

	t.Run("rejects empty rule ids", func(t *testing.T) {
		_, err := NewCatalogue([]Rule{{Name: "anonymous"}})
		require.Error(t, err)
	})

	t.Run("rejects unrecognized operators at startup", func(t *testing.T) {
		bad := valid
		bad.ID = "RULE_B"
		bad.Conditions = []Condition{{Field: "x", Operator: Operator("regex"), Expected: "y"}}

		_, err := NewCatalogue([]Rule{bad})
		var uo *UnsupportedOperatorError
		require.ErrorAs(t, err, &uo)
	})
}

func TestCatalogue_Lookups(t *testing.T) {
	c := DefaultCatalogue()

	t.Run("finds rules by id", func(t *testing.T) {
		rule, ok := c.ByID("RULE_001_SOCIAL_SCORING")
		require.True(t, ok)
		assert.Equal(t, RiskUnacceptable, rule.RiskLevel)

		_, ok = c.ByID("RULE_999_NOPE")
		assert.False(t, ok)
	})

	t.Run("filters by category", func(t *testing.T) {
		prohibited := c.ByCategory(CategoryProhibitedPractice)
		require.Len(t, prohibited, 3)
		for _, rule := range prohibited {
			assert.Equal(t, RiskUnacceptable, rule.RiskLevel)
		}
	})

	t.Run("filters by risk level", func(t *testing.T) {
		high := c.ByRiskLevel(RiskHigh)
		assert.Len(t, high, 5)

		limited := c.ByRiskLevel(RiskLimited)
		assert.Len(t, limited, 3)
	})
}

func TestDefaultCatalogue_Content(t *testing.T) {
	c := DefaultCatalogue()
	assert.Equal(t, 11, c.Len())

	// Every built-in rule carries the regulation tag and at least one
	// condition; a condition-free rule in the static catalogue would be
	// dead weight that can never trigger.
	for _, rule := range c.Rules() {
		assert.Equal(t, "EU_AI_ACT", rule.Regulation, rule.ID)
		assert.NotEmpty(t, rule.Conditions, rule.ID)
		assert.NotEmpty(t, rule.ArticleReference, rule.ID)
	}
}

func TestRiskLevelSeverityOrder(t *testing.T) {
	assert.Greater(t, RiskUnacceptable.Severity(), RiskHigh.Severity())
	assert.Greater(t, RiskHigh.Severity(), RiskLimited.Severity())
	assert.Greater(t, RiskLimited.Severity(), RiskMinimal.Severity())
}

func TestParseRiskLevel(t *testing.T) {
	for _, s := range []string{"unacceptable", "high", "limited", "minimal"} {
		level, err := ParseRiskLevel(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(level))
	}

	_, err := ParseRiskLevel("severe")
	require.Error(t, err)
}
