package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testRecord() AttributeMap {
	return AttributeMap{
		"vendor_name":     "Acme Corp",
		"grand_total":     500.0,
		"currency":        "USD",
		"line_item_count": 3,
	}
}

func TestEvaluateCondition_Equals(t *testing.T) {
	rec := testRecord()

	assert.True(t, EvaluateCondition(rec, Condition{Field: "vendor_name", Operator: OpEquals, Value: "Acme Corp"}))
	assert.False(t, EvaluateCondition(rec, Condition{Field: "vendor_name", Operator: OpEquals, Value: "Other"}))

	t.Run("numeric_across_types", func(t *testing.T) {
		// JSON-decoded rule values arrive as float64 even for whole numbers.
		assert.True(t, EvaluateCondition(rec, Condition{Field: "line_item_count", Operator: OpEquals, Value: 3.0}))
		assert.True(t, EvaluateCondition(rec, Condition{Field: "grand_total", Operator: OpEquals, Value: 500}))
	})
}

func TestEvaluateCondition_NotEquals(t *testing.T) {
	rec := testRecord()
	assert.True(t, EvaluateCondition(rec, Condition{Field: "currency", Operator: OpNotEquals, Value: "INR"}))
	assert.False(t, EvaluateCondition(rec, Condition{Field: "currency", Operator: OpNotEquals, Value: "USD"}))
}

func TestEvaluateCondition_Contains(t *testing.T) {
	rec := testRecord()
	assert.True(t, EvaluateCondition(rec, Condition{Field: "vendor_name", Operator: OpContains, Value: "acme"}))
	assert.True(t, EvaluateCondition(rec, Condition{Field: "vendor_name", Operator: OpContains, Value: "CORP"}))
	assert.False(t, EvaluateCondition(rec, Condition{Field: "vendor_name", Operator: OpContains, Value: "globex"}))
}

func TestEvaluateCondition_NumericComparisons(t *testing.T) {
	rec := testRecord()

	assert.True(t, EvaluateCondition(rec, Condition{Field: "grand_total", Operator: OpGreaterThan, Value: 100}))
	assert.False(t, EvaluateCondition(rec, Condition{Field: "grand_total", Operator: OpGreaterThan, Value: 500}))
	assert.True(t, EvaluateCondition(rec, Condition{Field: "grand_total", Operator: OpGreaterOrEqual, Value: 500}))
	assert.True(t, EvaluateCondition(rec, Condition{Field: "grand_total", Operator: OpLessThan, Value: 1000}))
	assert.True(t, EvaluateCondition(rec, Condition{Field: "grand_total", Operator: OpLessOrEqual, Value: 500}))
	assert.False(t, EvaluateCondition(rec, Condition{Field: "grand_total", Operator: OpLessOrEqual, Value: 499.99}))

	t.Run("string_value_coerced", func(t *testing.T) {
		assert.True(t, EvaluateCondition(rec, Condition{Field: "grand_total", Operator: OpGreaterThan, Value: "100"}))
	})

	t.Run("coercion_failure_is_false", func(t *testing.T) {
		assert.False(t, EvaluateCondition(rec, Condition{Field: "vendor_name", Operator: OpGreaterThan, Value: 10}))
		assert.False(t, EvaluateCondition(rec, Condition{Field: "grand_total", Operator: OpGreaterThan, Value: "not-a-number"}))
	})
}

func TestEvaluateCondition_NullChecks(t *testing.T) {
	rec := testRecord()

	assert.True(t, EvaluateCondition(rec, Condition{Field: "missing_field", Operator: OpIsNull}))
	assert.False(t, EvaluateCondition(rec, Condition{Field: "vendor_name", Operator: OpIsNull}))
	assert.True(t, EvaluateCondition(rec, Condition{Field: "vendor_name", Operator: OpIsNotNull}))
	assert.False(t, EvaluateCondition(rec, Condition{Field: "missing_field", Operator: OpIsNotNull}))

	t.Run("nil_value_counts_as_missing", func(t *testing.T) {
		rec := AttributeMap{"due_date": nil}
		assert.True(t, EvaluateCondition(rec, Condition{Field: "due_date", Operator: OpIsNull}))
	})

	t.Run("missing_attribute_fails_other_operators", func(t *testing.T) {
		assert.False(t, EvaluateCondition(rec, Condition{Field: "missing_field", Operator: OpEquals, Value: "x"}))
		assert.False(t, EvaluateCondition(rec, Condition{Field: "missing_field", Operator: OpGreaterThan, Value: 1}))
	})
}

func TestEvaluateCondition_UnknownOperator(t *testing.T) {
	assert.False(t, EvaluateCondition(testRecord(), Condition{Field: "vendor_name", Operator: "matches_regex", Value: ".*"}))
}

func TestEvaluateCondition_WithinNextDays(t *testing.T) {
	// Pin the clock to a known Tuesday.
	orig := nowFunc
	nowFunc = func() time.Time { return time.Date(2025, 3, 11, 15, 30, 0, 0, time.UTC) }
	defer func() { nowFunc = orig }()

	day := func(offset int) time.Time {
		return time.Date(2025, 3, 11+offset, 10, 0, 0, 0, time.UTC)
	}

	eval := func(due interface{}, days interface{}) bool {
		rec := AttributeMap{"due_date": due}
		return EvaluateCondition(rec, Condition{Field: "due_date", Operator: OpIsWithinNextDays, Value: days})
	}

	assert.True(t, eval(day(0), 3), "due today")
	assert.True(t, eval(day(1), 3), "due tomorrow")
	assert.True(t, eval(day(3), 3), "due on the last day of the window")
	assert.False(t, eval(day(4), 3), "due past the window")
	assert.False(t, eval(day(-1), 3), "already overdue")

	t.Run("earlier_today_still_counts", func(t *testing.T) {
		due := time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC)
		assert.True(t, eval(due, 0))
	})

	t.Run("string_date_value", func(t *testing.T) {
		assert.True(t, eval("2025-03-12", 3))
	})

	t.Run("negative_days_false", func(t *testing.T) {
		assert.False(t, eval(day(0), -1))
	})

	t.Run("non_date_attribute_false", func(t *testing.T) {
		assert.False(t, eval(42, 3))
	})
}

func TestEvaluatePolicy_AND(t *testing.T) {
	rec := testRecord() // grand_total 500, vendor Acme Corp

	policy := Policy{
		LogicalOperator: "AND",
		Conditions: []Condition{
			{Field: "grand_total", Operator: OpGreaterThan, Value: 1000},
			{Field: "vendor_name", Operator: OpEquals, Value: "Acme Corp"},
		},
	}
	assert.False(t, EvaluatePolicy(rec, policy), "one false condition fails the conjunction")

	policy.Conditions[0].Value = 100
	assert.True(t, EvaluatePolicy(rec, policy))
}

func TestEvaluatePolicy_OR(t *testing.T) {
	rec := testRecord()

	policy := Policy{
		LogicalOperator: "OR",
		Conditions: []Condition{
			{Field: "grand_total", Operator: OpGreaterThan, Value: 1000},
			{Field: "vendor_name", Operator: OpEquals, Value: "Acme Corp"},
		},
	}
	assert.True(t, EvaluatePolicy(rec, policy))

	policy.Conditions[1].Value = "Globex"
	assert.False(t, EvaluatePolicy(rec, policy))
}

func TestEvaluatePolicy_EmptyConditionsFalse(t *testing.T) {
	assert.False(t, EvaluatePolicy(testRecord(), Policy{LogicalOperator: "AND"}))
	assert.False(t, EvaluatePolicy(testRecord(), Policy{LogicalOperator: "OR"}))
}

func TestEvaluatePolicy_OperatorCaseInsensitive(t *testing.T) {
	rec := testRecord()
	policy := Policy{
		LogicalOperator: "and",
		Conditions:      []Condition{{Field: "currency", Operator: OpEquals, Value: "USD"}},
	}
	assert.True(t, EvaluatePolicy(rec, policy))
}

func TestEvaluatePolicy_UnknownLogicalOperator(t *testing.T) {
	policy := Policy{
		LogicalOperator: "XOR",
		Conditions:      []Condition{{Field: "currency", Operator: OpEquals, Value: "USD"}},
	}
	assert.False(t, EvaluatePolicy(testRecord(), policy))
}
