package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"trimatch/internal/domain"
)

// MockGoodsReceiptRepo is a mock implementation of port.GoodsReceiptRepository.
type MockGoodsReceiptRepo struct {
	mock.Mock
}

func (m *MockGoodsReceiptRepo) Create(ctx context.Context, grn *domain.GoodsReceiptNote) error {
	args := m.Called(ctx, grn)
	return args.Error(0)
}

func (m *MockGoodsReceiptRepo) GetByNumber(ctx context.Context, grnNumber string) (*domain.GoodsReceiptNote, error) {
	args := m.Called(ctx, grnNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GoodsReceiptNote), args.Error(1)
}

func (m *MockGoodsReceiptRepo) ListByPONumber(ctx context.Context, poNumber string) ([]domain.GoodsReceiptNote, error) {
	args := m.Called(ctx, poNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GoodsReceiptNote), args.Error(1)
}
