package compliance

// Operator is the closed set of condition predicates. Dispatch is a switch
// over this enum; a value outside the set is a catalogue configuration defect
// surfaced as UnsupportedOperatorError, never a silent false.
type Operator string

const (
	// OpEquals matches structural equality between the answer and the
	// expected value. Numbers compare by value (5 == 5.0).
	OpEquals Operator = "equals"
	// OpContains matches when the expected value is an element of the
	// answer (collection membership or string containment).
	OpContains Operator = "contains"
	// OpIn matches when the answer is an element of the expected
	// collection. Inverse relation of OpContains.
	OpIn Operator = "in"
	// OpGreaterThan and OpLessThan compare numerically.
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
)

// Recognized reports whether the operator belongs to the closed set.
// Catalogue construction rejects unrecognized operators so a bad rule fails
// at startup rather than mid-evaluation.
func (o Operator) Recognized() bool {
	switch o {
	case OpEquals, OpContains, OpIn, OpGreaterThan, OpLessThan:
		return true
	}
	return false
}
