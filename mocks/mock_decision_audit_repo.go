package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rinsetu/internal/domain"
)

// MockDecisionAuditRepo is a mock implementation of port.DecisionAuditRepository.
type MockDecisionAuditRepo struct {
	mock.Mock
}

func (m *MockDecisionAuditRepo) Create(ctx context.Context, entry *domain.DecisionAudit) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockDecisionAuditRepo) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.DecisionAudit, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DecisionAudit), args.Int(1), args.Error(2)
}

func (m *MockDecisionAuditRepo) GetBySessionID(ctx context.Context, sessionID uuid.UUID) (*domain.DecisionAudit, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DecisionAudit), args.Error(1)
}
