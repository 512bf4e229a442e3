package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"trimatch/internal/domain"
	"trimatch/internal/port"
)

type automationRuleRepo struct {
	db *sqlx.DB
}

// NewAutomationRuleRepo creates a new PostgreSQL-backed AutomationRuleRepository.
func NewAutomationRuleRepo(db *sqlx.DB) port.AutomationRuleRepository {
	return &automationRuleRepo{db: db}
}

func (r *automationRuleRepo) Create(ctx context.Context, rule *domain.AutomationRule) error {
	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO automation_rules (
			id, name, trigger, logical_op, conditions, action, priority, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rule.ID, rule.Name, rule.Trigger, rule.LogicalOp, rule.Conditions,
		rule.Action, rule.Priority, rule.IsActive, rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("automationRuleRepo.Create: %w", err)
	}
	return nil
}

func (r *automationRuleRepo) ListActiveByTrigger(ctx context.Context, trigger domain.RuleTrigger) ([]domain.AutomationRule, error) {
	var rules []domain.AutomationRule
	err := r.db.SelectContext(ctx, &rules,
		`SELECT * FROM automation_rules
		 WHERE trigger = $1 AND is_active = TRUE
		 ORDER BY priority DESC, created_at`, trigger)
	if err != nil {
		return nil, fmt.Errorf("automationRuleRepo.ListActiveByTrigger: %w", err)
	}
	return rules, nil
}

func (r *automationRuleRepo) List(ctx context.Context, offset, limit int) ([]domain.AutomationRule, int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM automation_rules"); err != nil {
		return nil, 0, fmt.Errorf("automationRuleRepo.List count: %w", err)
	}

	var rules []domain.AutomationRule
	err := r.db.SelectContext(ctx, &rules,
		"SELECT * FROM automation_rules ORDER BY priority DESC, created_at LIMIT $1 OFFSET $2", limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("automationRuleRepo.List: %w", err)
	}
	return rules, total, nil
}

func (r *automationRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM automation_rules WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("automationRuleRepo.Delete: %w", err)
	}
	return requireRow(result, domain.ErrNotFound)
}
