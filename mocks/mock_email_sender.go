package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"trimatch/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendReviewNotification(ctx context.Context, toEmail string, n *port.ReviewNotification) error {
	args := m.Called(ctx, toEmail, n)
	return args.Error(0)
}
