package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rinsetu/internal/domain"
	"rinsetu/internal/service"
)

// MockEvaluationService is a mock implementation of service.EvaluationService.
type MockEvaluationService struct {
	mock.Mock
}

func (m *MockEvaluationService) CreateSession(ctx context.Context, userID uuid.UUID, name string) (*domain.Session, error) {
	args := m.Called(ctx, userID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockEvaluationService) GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockEvaluationService) DeleteSession(ctx context.Context, sessionID, userID uuid.UUID) error {
	args := m.Called(ctx, sessionID, userID)
	return args.Error(0)
}

func (m *MockEvaluationService) AddDocument(ctx context.Context, sessionID, userID uuid.UUID, input service.AddDocumentInput) (*domain.ExtractedDocument, error) {
	args := m.Called(ctx, sessionID, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExtractedDocument), args.Error(1)
}

func (m *MockEvaluationService) Evaluate(ctx context.Context, sessionID, userID uuid.UUID) (*domain.Session, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockEvaluationService) GetDecision(ctx context.Context, sessionID, userID uuid.UUID) (*domain.EligibilityDecision, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.EligibilityDecision), args.Error(1)
}

func (m *MockEvaluationService) GetConsistencyReport(ctx context.Context, sessionID, userID uuid.UUID) (*domain.ConsistencyReport, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConsistencyReport), args.Error(1)
}

func (m *MockEvaluationService) GetIncomeProfile(ctx context.Context, sessionID, userID uuid.UUID) (*domain.IncomeProfile, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncomeProfile), args.Error(1)
}

func (m *MockEvaluationService) GetCreditBreakdown(ctx context.Context, sessionID, userID uuid.UUID) (*domain.CreditScoreBreakdown, error) {
	args := m.Called(ctx, sessionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CreditScoreBreakdown), args.Error(1)
}
