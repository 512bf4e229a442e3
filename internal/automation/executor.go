package automation

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/google/uuid"

	"trimatch/internal/domain"
	"trimatch/internal/port"
	"trimatch/internal/rules"
)

// AppliedRule names a rule whose policy matched an invoice, in priority order.
type AppliedRule struct {
	RuleID   uuid.UUID
	RuleName string
	Action   domain.RuleAction
}

// Executor evaluates stored automation rules against invoices after a match
// run. It only decides; the calling service applies the actions.
type Executor struct {
	ruleRepo port.AutomationRuleRepository
}

// NewExecutor creates an Executor.
func NewExecutor(ruleRepo port.AutomationRuleRepository) *Executor {
	return &Executor{ruleRepo: ruleRepo}
}

// Evaluate loads the active rules for a trigger and returns those whose
// policy evaluates true for the invoice. A malformed rule is logged and
// skipped, never fatal.
func (x *Executor) Evaluate(ctx context.Context, trigger domain.RuleTrigger, inv *domain.Invoice) ([]AppliedRule, error) {
	stored, err := x.ruleRepo.ListActiveByTrigger(ctx, trigger)
	if err != nil {
		return nil, fmt.Errorf("loading automation rules for %s: %w", trigger, err)
	}

	rec := InvoiceRecord(inv)
	var applied []AppliedRule
	for i := range stored {
		rule := &stored[i]
		policy, err := DecodePolicy(rule)
		if err != nil {
			log.Printf("automation.Executor: skipping malformed rule %s (%s): %v", rule.Name, rule.ID, err)
			continue
		}
		if rules.EvaluatePolicy(rec, policy) {
			applied = append(applied, AppliedRule{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				Action:   rule.Action,
			})
		}
	}
	return applied, nil
}

// DecodePolicy reassembles a stored rule's policy from its logical operator
// and serialized condition list.
func DecodePolicy(rule *domain.AutomationRule) (rules.Policy, error) {
	var conditions []rules.Condition
	if len(rule.Conditions) > 0 {
		if err := json.Unmarshal(rule.Conditions, &conditions); err != nil {
			return rules.Policy{}, fmt.Errorf("%w: %v", domain.ErrInvalidRulePolicy, err)
		}
	}
	return rules.Policy{
		LogicalOperator: rule.LogicalOp,
		Conditions:      conditions,
	}, nil
}
