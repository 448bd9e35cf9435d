package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConditionEvaluate_MissingField(t *testing.T) {
	// A field absent from the answers never triggers, for every operator.
	operators := []Operator{OpEquals, OpContains, OpIn, OpGreaterThan, OpLessThan}
	for _, op := range operators {
		t.Run(string(op), func(t *testing.T) {
			cond := Condition{Field: "absent", Operator: op, Expected: "anything"}
			met, err := cond.Evaluate(AnswerSet{"present": "value"})
			require.NoError(t, err)
			assert.False(t, met)
		})
	}
}

func TestConditionEvaluate_Equals(t *testing.T) {
	t.Run("matches equal strings", func(t *testing.T) {
		cond := Condition{Field: "system_purpose", Operator: OpEquals, Expected: "social_scoring"}
		met, err := cond.Evaluate(AnswerSet{"system_purpose": "social_scoring"})
		require.NoError(t, err)
		assert.True(t, met)
	})

	t.Run("rejects different strings", func(t *testing.T) {
		cond := Condition{Field: "system_purpose", Operator: OpEquals, Expected: "social_scoring"}
		met, err := cond.Evaluate(AnswerSet{"system_purpose": "weather_forecast"})
		require.NoError(t, err)
		assert.False(t, met)
	})

	t.Run("matches booleans", func(t *testing.T) {
		cond := Condition{Field: "uses_manipulation", Operator: OpEquals, Expected: true}
		met, err := cond.Evaluate(AnswerSet{"uses_manipulation": true})
		require.NoError(t, err)
		assert.True(t, met)
	})

	t.Run("explicit false behaves like absent for equals true", func(t *testing.T) {
		// A present-but-false boolean and a missing answer both mean
		// "condition not met"; neither is an error.
		cond := Condition{Field: "uses_manipulation", Operator: OpEquals, Expected: true}

		met, err := cond.Evaluate(AnswerSet{"uses_manipulation": false})
		require.NoError(t, err)
		assert.False(t, met)

		met, err = cond.Evaluate(AnswerSet{})
		require.NoError(t, err)
		assert.False(t, met)
	})

	t.Run("compares numbers by value across types", func(t *testing.T) {
		// JSON decoding yields float64; catalogue literals are ints.
		cond := Condition{Field: "risk_score", Operator: OpEquals, Expected: 7}
		met, err := cond.Evaluate(AnswerSet{"risk_score": 7.0})
		require.NoError(t, err)
		assert.True(t, met)
	})
}

func TestConditionEvaluate_Contains(t *testing.T) {
	t.Run("substring of a string answer", func(t *testing.T) {
		cond := Condition{Field: "system_purpose", Operator: OpContains, Expected: "education"}
		met, err := cond.Evaluate(AnswerSet{"system_purpose": "education_assessment"})
		require.NoError(t, err)
		assert.True(t, met)
	})

	t.Run("membership in a string slice answer", func(t *testing.T) {
		cond := Condition{Field: "data_types", Operator: OpContains, Expected: "biometric_data"}
		met, err := cond.Evaluate(AnswerSet{"data_types": []string{"location", "biometric_data"}})
		require.NoError(t, err)
		assert.True(t, met)
	})

	t.Run("membership in a decoded JSON array answer", func(t *testing.T) {
		cond := Condition{Field: "data_types", Operator: OpContains, Expected: "biometric_data"}
		met, err := cond.Evaluate(AnswerSet{"data_types": []any{"location", "biometric_data"}})
		require.NoError(t, err)
		assert.True(t, met)
	})

	t.Run("absent member", func(t *testing.T) {
		cond := Condition{Field: "data_types", Operator: OpContains, Expected: "biometric_data"}
		met, err := cond.Evaluate(AnswerSet{"data_types": []string{"location"}})
		require.NoError(t, err)
		assert.False(t, met)
	})

	t.Run("scalar answer is a type mismatch", func(t *testing.T) {
		cond := Condition{Field: "data_types", Operator: OpContains, Expected: "biometric_data"}
		_, err := cond.Evaluate(AnswerSet{"data_types": true})
		var tm *TypeMismatchError
		require.ErrorAs(t, err, &tm)
		assert.Equal(t, "data_types", tm.Field)
	})
}

func TestConditionEvaluate_In(t *testing.T) {
	cond := Condition{
		Field:    "system_purpose",
		Operator: OpIn,
		Expected: []string{"recruitment", "employment_decisions", "hiring"},
	}

	t.Run("answer inside the expected collection", func(t *testing.T) {
		met, err := cond.Evaluate(AnswerSet{"system_purpose": "hiring"})
		require.NoError(t, err)
		assert.True(t, met)
	})

	t.Run("answer outside the expected collection", func(t *testing.T) {
		met, err := cond.Evaluate(AnswerSet{"system_purpose": "marketing"})
		require.NoError(t, err)
		assert.False(t, met)
	})

	t.Run("non-collection expected value is a type mismatch", func(t *testing.T) {
		bad := Condition{Field: "system_purpose", Operator: OpIn, Expected: "recruitment"}
		_, err := bad.Evaluate(AnswerSet{"system_purpose": "recruitment"})
		var tm *TypeMismatchError
		require.ErrorAs(t, err, &tm)
	})
}

func TestConditionEvaluate_Ordering(t *testing.T) {
	t.Run("greater_than", func(t *testing.T) {
		cond := Condition{Field: "risk_score", Operator: OpGreaterThan, Expected: 7}

		met, err := cond.Evaluate(AnswerSet{"risk_score": 9.0})
		require.NoError(t, err)
		assert.True(t, met)

		met, err = cond.Evaluate(AnswerSet{"risk_score": 7.0})
		require.NoError(t, err)
		assert.False(t, met)
	})

	t.Run("less_than", func(t *testing.T) {
		cond := Condition{Field: "accuracy", Operator: OpLessThan, Expected: 0.9}

		met, err := cond.Evaluate(AnswerSet{"accuracy": 0.5})
		require.NoError(t, err)
		assert.True(t, met)
	})

	t.Run("non-numeric operand is a type mismatch", func(t *testing.T) {
		cond := Condition{Field: "risk_score", Operator: OpGreaterThan, Expected: 7}
		_, err := cond.Evaluate(AnswerSet{"risk_score": "nine"})
		var tm *TypeMismatchError
		require.ErrorAs(t, err, &tm)
		assert.Equal(t, OpGreaterThan, tm.Operator)
	})
}

func TestConditionEvaluate_UnknownOperator(t *testing.T) {
	// An unrecognized operator is a configuration defect: it must fail
	// loudly, never silently return false.
	cond := Condition{Field: "system_purpose", Operator: Operator("matches_regex"), Expected: ".*"}
	_, err := cond.Evaluate(AnswerSet{"system_purpose": "anything"})

	var uo *UnsupportedOperatorError
	require.ErrorAs(t, err, &uo)
	assert.Equal(t, Operator("matches_regex"), uo.Operator)
	assert.Contains(t, err.Error(), "matches_regex")
}

func TestConditionString(t *testing.T) {
	cond := Condition{Field: "system_purpose", Operator: OpEquals, Expected: "social_scoring"}
	assert.Equal(t, "system_purpose equals social_scoring", cond.String())
}
