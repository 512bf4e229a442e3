package automation

import (
	"trimatch/internal/domain"
	"trimatch/internal/rules"
)

// Classifier tags invoices that deserve reviewer priority. It is a fixed
// policy over the same attribute model the executor uses: an invoice is
// urgent when its due date is close or its total is large.
type Classifier struct {
	urgent rules.Policy
}

// NewClassifier builds a classifier flagging invoices due within dueDays or
// totaling more than largeAmount.
func NewClassifier(dueDays int, largeAmount float64) *Classifier {
	return &Classifier{
		urgent: rules.Policy{
			LogicalOperator: "OR",
			Conditions: []rules.Condition{
				{Field: "due_date", Operator: rules.OpIsWithinNextDays, Value: dueDays},
				{Field: "grand_total", Operator: rules.OpGreaterThan, Value: largeAmount},
			},
		},
	}
}

// IsUrgent reports whether the invoice matches the urgency policy.
func (c *Classifier) IsUrgent(inv *domain.Invoice) bool {
	return rules.EvaluatePolicy(InvoiceRecord(inv), c.urgent)
}
