package service_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rinsetu/internal/domain"
	"rinsetu/internal/export"
	"rinsetu/internal/service"
	"rinsetu/internal/session"
	"rinsetu/mocks"
)

func evaluatedStoreSession(t *testing.T) (*session.Store, *domain.Session, uuid.UUID) {
	t.Helper()
	store := session.NewStore(time.Hour)
	userID := uuid.New()
	sess := store.Create(userID, "March Applicants")
	sess.Documents = []domain.ExtractedDocument{
		{DocumentID: "doc-1", DocumentType: domain.DocTypeAadhaar, Filename: "aadhaar.pdf"},
	}
	sess.Results = []domain.ValidationResult{
		{
			DocumentID:   "doc-1",
			DocumentType: domain.DocTypeAadhaar,
			IsValid:      true,
			Checks: []domain.RuleCheck{{
				RuleKey:  "req.aadhaar.name",
				RuleName: "Required: name",
				Severity: domain.ValidationSeverityError,
				Field:    "name",
				Passed:   true,
				Message:  "Required: name: name is present",
			}},
		},
	}
	sess.Decision = &domain.EligibilityDecision{
		SessionID:        sess.ID,
		RiskTier:         domain.RiskTierLow,
		MaxLoanAmount:    2700000,
		InterestRateBand: domain.RateBandPrime,
		VerdictReasons:   []string{"no major identity conflicts across documents"},
		EvaluatedAt:      time.Now().UTC(),
	}
	store.Update(sess)
	return store, sess, userID
}

func TestExportCSV(t *testing.T) {
	store, sess, userID := evaluatedStoreSession(t)
	svc := service.NewReportService(store, new(mocks.MockDecisionAuditRepo))

	var buf bytes.Buffer
	filename, err := svc.ExportCSV(context.Background(), sess.ID, userID, &buf)
	require.NoError(t, err)

	want := fmt.Sprintf("March_Applicants_%s.csv", time.Now().Format("2006-01-02"))
	assert.Equal(t, want, filename)

	raw := buf.Bytes()
	require.True(t, bytes.HasPrefix(raw, export.BOM))

	rows, err := csv.NewReader(bytes.NewReader(raw[len(export.BOM):])).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "req.aadhaar.name", rows[1][3])
}

func TestExportXLSX(t *testing.T) {
	store, sess, userID := evaluatedStoreSession(t)
	svc := service.NewReportService(store, new(mocks.MockDecisionAuditRepo))

	var buf bytes.Buffer
	filename, err := svc.ExportXLSX(context.Background(), sess.ID, userID, &buf)
	require.NoError(t, err)
	assert.Contains(t, filename, ".xlsx")
	assert.NotZero(t, buf.Len())
}

func TestExportBeforeEvaluation(t *testing.T) {
	store := session.NewStore(time.Hour)
	userID := uuid.New()
	sess := store.Create(userID, "fresh")
	svc := service.NewReportService(store, new(mocks.MockDecisionAuditRepo))

	var buf bytes.Buffer
	_, err := svc.ExportCSV(context.Background(), sess.ID, userID, &buf)
	assert.ErrorIs(t, err, domain.ErrSessionNotEvaluated)
	_, err = svc.ExportXLSX(context.Background(), sess.ID, userID, &buf)
	assert.ErrorIs(t, err, domain.ErrSessionNotEvaluated)
}

func TestExportWrongOwner(t *testing.T) {
	store, sess, _ := evaluatedStoreSession(t)
	svc := service.NewReportService(store, new(mocks.MockDecisionAuditRepo))

	var buf bytes.Buffer
	_, err := svc.ExportCSV(context.Background(), sess.ID, uuid.New(), &buf)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestListAudits(t *testing.T) {
	auditRepo := new(mocks.MockDecisionAuditRepo)
	userID := uuid.New()
	audits := []domain.DecisionAudit{{ID: uuid.New(), UserID: userID, RiskTier: domain.RiskTierLow}}
	auditRepo.On("ListByUser", mock.Anything, userID, 0, 20).Return(audits, 1, nil)

	svc := service.NewReportService(session.NewStore(time.Hour), auditRepo)
	got, total, err := svc.ListAudits(context.Background(), userID, 0, 20)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, got, 1)
	assert.Equal(t, audits[0].ID, got[0].ID)
}
