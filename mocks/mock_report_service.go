package mocks

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rinsetu/internal/domain"
)

// MockReportService is a mock implementation of service.ReportService.
type MockReportService struct {
	mock.Mock
}

func (m *MockReportService) ExportCSV(ctx context.Context, sessionID, userID uuid.UUID, w io.Writer) (string, error) {
	args := m.Called(ctx, sessionID, userID, w)
	return args.String(0), args.Error(1)
}

func (m *MockReportService) ExportXLSX(ctx context.Context, sessionID, userID uuid.UUID, w io.Writer) (string, error) {
	args := m.Called(ctx, sessionID, userID, w)
	return args.String(0), args.Error(1)
}

func (m *MockReportService) ListAudits(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.DecisionAudit, int, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.DecisionAudit), args.Int(1), args.Error(2)
}
