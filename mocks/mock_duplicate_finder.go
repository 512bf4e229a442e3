package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"trimatch/internal/port"
)

// MockDuplicateFinder is a mock implementation of port.DuplicateInvoiceFinder.
type MockDuplicateFinder struct {
	mock.Mock
}

func (m *MockDuplicateFinder) FindDuplicates(ctx context.Context, excludeID uuid.UUID, invoiceNumber, vendorName string) ([]port.DuplicateMatch, error) {
	args := m.Called(ctx, excludeID, invoiceNumber, vendorName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.DuplicateMatch), args.Error(1)
}
