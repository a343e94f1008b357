package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"

	"rinsetu/internal/domain"
	"rinsetu/internal/export"
	"rinsetu/internal/port"
	"rinsetu/internal/session"
)

// ReportService produces downloadable evaluation reports and serves the
// durable decision audit trail.
type ReportService interface {
	ExportCSV(ctx context.Context, sessionID, userID uuid.UUID, w io.Writer) (filename string, err error)
	ExportXLSX(ctx context.Context, sessionID, userID uuid.UUID, w io.Writer) (filename string, err error)
	ListAudits(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.DecisionAudit, int, error)
}

type reportService struct {
	store     *session.Store
	auditRepo port.DecisionAuditRepository
}

// NewReportService creates a new ReportService implementation.
func NewReportService(store *session.Store, auditRepo port.DecisionAuditRepository) ReportService {
	return &reportService{store: store, auditRepo: auditRepo}
}

func (s *reportService) evaluatedSession(sessionID, userID uuid.UUID) (*domain.Session, error) {
	sess, err := s.store.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.Decision == nil {
		return nil, domain.ErrSessionNotEvaluated
	}
	return sess, nil
}

func (s *reportService) ExportCSV(_ context.Context, sessionID, userID uuid.UUID, w io.Writer) (string, error) {
	sess, err := s.evaluatedSession(sessionID, userID)
	if err != nil {
		return "", err
	}

	if _, err := w.Write(export.BOM); err != nil {
		return "", fmt.Errorf("writing BOM: %w", err)
	}
	cw := export.NewWriter(w)
	if err := cw.WriteHeader(); err != nil {
		return "", fmt.Errorf("writing header: %w", err)
	}
	if err := cw.WriteSession(sess); err != nil {
		return "", fmt.Errorf("writing rows: %w", err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return "", fmt.Errorf("flushing csv: %w", err)
	}

	return export.BuildFilename(sess.Name, "csv"), nil
}

func (s *reportService) ExportXLSX(_ context.Context, sessionID, userID uuid.UUID, w io.Writer) (string, error) {
	sess, err := s.evaluatedSession(sessionID, userID)
	if err != nil {
		return "", err
	}
	if err := export.WriteWorkbook(w, sess); err != nil {
		return "", err
	}
	return export.BuildFilename(sess.Name, "xlsx"), nil
}

func (s *reportService) ListAudits(ctx context.Context, userID uuid.UUID, offset, limit int) ([]domain.DecisionAudit, int, error) {
	return s.auditRepo.ListByUser(ctx, userID, offset, limit)
}
