package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"trimatch/internal/domain"
	"trimatch/internal/port"
)

// MockInvoiceRepo is a mock implementation of port.InvoiceRepository.
type MockInvoiceRepo struct {
	mock.Mock
}

func (m *MockInvoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

func (m *MockInvoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) ListByStatus(ctx context.Context, status domain.InvoiceStatus, category *domain.ReviewCategory, offset, limit int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, status, category, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

func (m *MockInvoiceRepo) ListByRelatedPONumber(ctx context.Context, poNumber string) ([]domain.Invoice, error) {
	args := m.Called(ctx, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) ClaimPending(ctx context.Context, limit int) ([]domain.Invoice, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Invoice), args.Error(1)
}

func (m *MockInvoiceRepo) Requeue(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockInvoiceRepo) CommitMatchResult(ctx context.Context, id uuid.UUID, commit *port.MatchCommit) error {
	args := m.Called(ctx, id, commit)
	return args.Error(0)
}

func (m *MockInvoiceRepo) UpdateReview(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus, notes string) error {
	args := m.Called(ctx, id, status, notes)
	return args.Error(0)
}

func (m *MockInvoiceRepo) SetTraceArchiveKey(ctx context.Context, id uuid.UUID, key string) error {
	args := m.Called(ctx, id, key)
	return args.Error(0)
}
