package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rinsetu/internal/port"
)

// MockEmailSender is a mock implementation of port.EmailSender.
type MockEmailSender struct {
	mock.Mock
}

func (m *MockEmailSender) SendDecisionEmail(ctx context.Context, toEmail, toName string, n port.DecisionNotification) error {
	args := m.Called(ctx, toEmail, toName, n)
	return args.Error(0)
}

func (m *MockEmailSender) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	args := m.Called(ctx, toEmail, toName)
	return args.Error(0)
}
