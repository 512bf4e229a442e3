package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"trimatch/internal/domain"
)

// MockAutomationRuleRepo is a mock implementation of port.AutomationRuleRepository.
type MockAutomationRuleRepo struct {
	mock.Mock
}

func (m *MockAutomationRuleRepo) Create(ctx context.Context, rule *domain.AutomationRule) error {
	args := m.Called(ctx, rule)
	return args.Error(0)
}

func (m *MockAutomationRuleRepo) ListActiveByTrigger(ctx context.Context, trigger domain.RuleTrigger) ([]domain.AutomationRule, error) {
	args := m.Called(ctx, trigger)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AutomationRule), args.Error(1)
}

func (m *MockAutomationRuleRepo) List(ctx context.Context, offset, limit int) ([]domain.AutomationRule, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.AutomationRule), args.Int(1), args.Error(2)
}

func (m *MockAutomationRuleRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
