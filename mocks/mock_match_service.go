package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"trimatch/internal/domain"
	"trimatch/internal/service"
)

// MockMatchService is a testify mock for service.MatchService.
type MockMatchService struct {
	mock.Mock
}

func (m *MockMatchService) CreateInvoice(ctx context.Context, inv *domain.Invoice) (*domain.Invoice, error) {
	args := m.Called(ctx, inv)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockMatchService) GetInvoice(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockMatchService) ListReviewQueue(ctx context.Context, category *domain.ReviewCategory, offset, limit int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, category, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

func (m *MockMatchService) ListByStatus(ctx context.Context, status domain.InvoiceStatus, offset, limit int) ([]domain.Invoice, int, error) {
	args := m.Called(ctx, status, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.Invoice), args.Int(1), args.Error(2)
}

func (m *MockMatchService) Rematch(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockMatchService) ResolveReview(ctx context.Context, input *service.ResolveReviewInput) (*domain.Invoice, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Invoice), args.Error(1)
}

func (m *MockMatchService) RequeueForPurchaseOrder(ctx context.Context, poNumber string) (int, error) {
	args := m.Called(ctx, poNumber)
	return args.Int(0), args.Error(1)
}

func (m *MockMatchService) RunMatch(ctx context.Context, inv *domain.Invoice) {
	m.Called(ctx, inv)
}

func (m *MockMatchService) TraceArchiveURL(ctx context.Context, id uuid.UUID) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
