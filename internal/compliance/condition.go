package compliance

import (
	"fmt"
	"reflect"
	"strings"
)

// AnswerSet maps question identifiers to submitted answer values. Values may
// be heterogeneous: bool, string, number, or a collection of strings (JSON
// decoding yields float64 for numbers and []any for arrays). The engine
// never mutates an answer set.
type AnswerSet map[string]any

// Condition is a single predicate over one named answer field.
//
// Constructed once at catalogue definition time and immutable thereafter.
type Condition struct {
	Field    string
	Operator Operator
	Expected any
}

// Evaluate checks whether the condition is met by the given answers.
//
// A field absent from the answers is not an error: the condition is simply
// not met. Operator misuse (unknown operator, non-comparable operands) is a
// catalogue defect and returns an error instead of a silent false.
func (c Condition) Evaluate(answers AnswerSet) (bool, error) {
	actual, ok := answers[c.Field]
	if !ok {
		return false, nil
	}

	switch c.Operator {
	case OpEquals:
		return valuesEqual(actual, c.Expected), nil
	case OpContains:
		return c.evalContains(actual)
	case OpIn:
		return c.evalIn(actual)
	case OpGreaterThan:
		a, b, err := c.numericPair(actual)
		if err != nil {
			return false, err
		}
		return a > b, nil
	case OpLessThan:
		a, b, err := c.numericPair(actual)
		if err != nil {
			return false, err
		}
		return a < b, nil
	default:
		return false, &UnsupportedOperatorError{Operator: c.Operator}
	}
}

// String renders the condition as "field operator expected" for explanations.
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %v", c.Field, c.Operator, c.Expected)
}

// evalContains checks expected ∈ actual. The answer may be a string
// (containment) or a collection (membership).
func (c Condition) evalContains(actual any) (bool, error) {
	switch av := actual.(type) {
	case string:
		needle, ok := c.Expected.(string)
		if !ok {
			return false, &TypeMismatchError{
				Field:    c.Field,
				Operator: c.Operator,
				Detail:   fmt.Sprintf("expected value %v is not a string", c.Expected),
			}
		}
		return strings.Contains(av, needle), nil
	case []string:
		needle, ok := c.Expected.(string)
		if !ok {
			return false, &TypeMismatchError{
				Field:    c.Field,
				Operator: c.Operator,
				Detail:   fmt.Sprintf("expected value %v is not a string", c.Expected),
			}
		}
		for _, item := range av {
			if item == needle {
				return true, nil
			}
		}
		return false, nil
	case []any:
		for _, item := range av {
			if valuesEqual(item, c.Expected) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, &TypeMismatchError{
			Field:    c.Field,
			Operator: c.Operator,
			Detail:   fmt.Sprintf("answer value of type %T supports neither containment nor membership", actual),
		}
	}
}

// evalIn checks actual ∈ expected. The expected value must be a collection.
func (c Condition) evalIn(actual any) (bool, error) {
	switch ev := c.Expected.(type) {
	case []string:
		s, ok := actual.(string)
		if !ok {
			return false, nil
		}
		for _, item := range ev {
			if item == s {
				return true, nil
			}
		}
		return false, nil
	case []any:
		for _, item := range ev {
			if valuesEqual(actual, item) {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, &TypeMismatchError{
			Field:    c.Field,
			Operator: c.Operator,
			Detail:   fmt.Sprintf("expected value of type %T is not a collection", c.Expected),
		}
	}
}

func (c Condition) numericPair(actual any) (float64, float64, error) {
	a, ok := toFloat(actual)
	if !ok {
		return 0, 0, &TypeMismatchError{
			Field:    c.Field,
			Operator: c.Operator,
			Detail:   fmt.Sprintf("answer value %v (%T) is not numeric", actual, actual),
		}
	}
	b, ok := toFloat(c.Expected)
	if !ok {
		return 0, 0, &TypeMismatchError{
			Field:    c.Field,
			Operator: c.Operator,
			Detail:   fmt.Sprintf("expected value %v (%T) is not numeric", c.Expected, c.Expected),
		}
	}
	return a, b, nil
}

// valuesEqual compares two answer-shaped values. Numbers compare by value
// regardless of Go type since JSON decoding yields float64 while catalogue
// literals are often untyped ints.
func valuesEqual(a, b any) bool {
	if af, ok := toFloat(a); ok {
		bf, ok := toFloat(b)
		return ok && af == bf
	}
	if reflect.DeepEqual(a, b) {
		return true
	}
	return false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	}
	return 0, false
}
