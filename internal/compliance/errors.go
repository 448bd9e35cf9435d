package compliance

import "fmt"

// UnsupportedOperatorError reports a condition referencing an operator
// outside the recognized set. This is a configuration defect in the rule
// catalogue, not a runtime data error - it propagates to the caller uncaught.
type UnsupportedOperatorError struct {
	Operator Operator
}

func (e *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("unsupported operator: %s", e.Operator)
}

// TypeMismatchError reports an operator applied to operand types that do not
// support it (ordering a string, membership test against a scalar). Like an
// unsupported operator it indicates a defect in the catalogue or the answer
// shape and is surfaced, never swallowed as false.
type TypeMismatchError struct {
	Field    string
	Operator Operator
	Detail   string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch evaluating %q with %s: %s", e.Field, e.Operator, e.Detail)
}
