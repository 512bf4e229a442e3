package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"trimatch/internal/domain"
)

// MockVendorToleranceRepo is a mock implementation of port.VendorToleranceRepository.
type MockVendorToleranceRepo struct {
	mock.Mock
}

func (m *MockVendorToleranceRepo) Upsert(ctx context.Context, tol *domain.VendorTolerance) error {
	args := m.Called(ctx, tol)
	return args.Error(0)
}

func (m *MockVendorToleranceRepo) GetByVendor(ctx context.Context, vendorName string) (*domain.VendorTolerance, error) {
	args := m.Called(ctx, vendorName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorTolerance), args.Error(1)
}

func (m *MockVendorToleranceRepo) List(ctx context.Context, offset, limit int) ([]domain.VendorTolerance, int, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.VendorTolerance), args.Int(1), args.Error(2)
}

func (m *MockVendorToleranceRepo) Delete(ctx context.Context, vendorName string) error {
	args := m.Called(ctx, vendorName)
	return args.Error(0)
}
