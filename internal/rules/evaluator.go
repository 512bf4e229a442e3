// Package rules is a small boolean-expression engine shared by the
// automation-rule executor and the policy classifier. A condition compares
// one named attribute of a record against a value; a policy combines
// conditions with AND/OR. Evaluation is total: coercion failures evaluate to
// false, never panic or error.
package rules

import "strings"

// Operator is a supported condition operator.
type Operator string

const (
	OpEquals           Operator = "equals"
	OpNotEquals        Operator = "not_equals"
	OpContains         Operator = "contains"
	OpGreaterThan      Operator = ">"
	OpLessThan         Operator = "<"
	OpGreaterOrEqual   Operator = ">="
	OpLessOrEqual      Operator = "<="
	OpIsNull           Operator = "is_null"
	OpIsNotNull        Operator = "is_not_null"
	OpIsWithinNextDays Operator = "is_within_next_days"
)

// Condition compares a record attribute against a value.
type Condition struct {
	Field    string      `json:"field"`
	Operator Operator    `json:"operator"`
	Value    interface{} `json:"value,omitempty"`
}

// Policy combines conditions with a logical operator. A policy with no
// conditions evaluates false: it must have conditions to be actionable.
type Policy struct {
	LogicalOperator string      `json:"logical_operator"`
	Conditions      []Condition `json:"conditions"`
}

// EvaluateCondition evaluates one condition against a record. A missing
// attribute satisfies only is_null; every other operator evaluates false on
// a missing attribute or a failed type coercion.
func EvaluateCondition(rec Record, cond Condition) bool {
	val, found := rec.Attribute(cond.Field)
	if val == nil {
		found = false
	}

	switch cond.Operator {
	case OpIsNull:
		return !found
	case OpIsNotNull:
		return found
	}
	if !found {
		return false
	}

	switch cond.Operator {
	case OpEquals:
		return valuesEqual(val, cond.Value)
	case OpNotEquals:
		return !valuesEqual(val, cond.Value)
	case OpContains:
		hay, ok1 := toString(val)
		needle, ok2 := toString(cond.Value)
		if !ok1 || !ok2 {
			return false
		}
		return strings.Contains(strings.ToLower(hay), strings.ToLower(needle))
	case OpGreaterThan:
		return compareNumeric(val, cond.Value, func(a, b float64) bool { return a > b })
	case OpLessThan:
		return compareNumeric(val, cond.Value, func(a, b float64) bool { return a < b })
	case OpGreaterOrEqual:
		return compareNumeric(val, cond.Value, func(a, b float64) bool { return a >= b })
	case OpLessOrEqual:
		return compareNumeric(val, cond.Value, func(a, b float64) bool { return a <= b })
	case OpIsWithinNextDays:
		return withinNextDays(val, cond.Value)
	default:
		return false
	}
}

// EvaluatePolicy evaluates all of a policy's conditions and combines them
// with its logical operator: AND is all true, OR is any true.
func EvaluatePolicy(rec Record, policy Policy) bool {
	if len(policy.Conditions) == 0 {
		return false
	}

	switch strings.ToUpper(strings.TrimSpace(policy.LogicalOperator)) {
	case "AND":
		for _, cond := range policy.Conditions {
			if !EvaluateCondition(rec, cond) {
				return false
			}
		}
		return true
	case "OR":
		for _, cond := range policy.Conditions {
			if EvaluateCondition(rec, cond) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
