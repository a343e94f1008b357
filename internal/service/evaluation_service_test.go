package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rinsetu/internal/aggregator"
	"rinsetu/internal/creditscore"
	"rinsetu/internal/domain"
	"rinsetu/internal/engine"
	"rinsetu/internal/port"
	"rinsetu/internal/reconciler"
	"rinsetu/internal/service"
	"rinsetu/internal/session"
	"rinsetu/internal/validator"
	"rinsetu/mocks"
)

type evalFixture struct {
	svc       service.EvaluationService
	store     *session.Store
	extractor *mocks.MockDocumentExtractor
	auditRepo *mocks.MockDecisionAuditRepo
	userRepo  *mocks.MockUserRepo
	email     *mocks.MockEmailSender
	userID    uuid.UUID
}

func newEvalFixture(t *testing.T) *evalFixture {
	t.Helper()

	analyzer, err := creditscore.New(creditscore.Config{
		Weights: map[domain.ScoreComponent]float64{
			domain.ComponentPaymentHistory:    0.35,
			domain.ComponentCreditUtilization: 0.30,
			domain.ComponentCreditAge:         0.15,
			domain.ComponentCreditMix:         0.10,
			domain.ComponentInquiries:         0.10,
		},
		Threshold: 0.70,
	})
	require.NoError(t, err)

	decisionEngine, err := engine.New(engine.Config{
		ScoreFloor:        600,
		ScoreGoodMin:      650,
		ScoreExcellentMin: 750,
		DTILowMax:         0.3,
		DTIMediumMax:      0.5,
		Multipliers: map[domain.RiskTier]float64{
			domain.RiskTierLow:    60,
			domain.RiskTierMedium: 36,
			domain.RiskTierHigh:   18,
		},
		MandatoryDocuments: []domain.DocumentType{domain.DocTypeAadhaar, domain.DocTypePAN},
		RequireIncomeProof: true,
		IdentityFields:     reconciler.IdentityFields(),
	})
	require.NoError(t, err)

	f := &evalFixture{
		store:     session.NewStore(time.Hour),
		extractor: new(mocks.MockDocumentExtractor),
		auditRepo: new(mocks.MockDecisionAuditRepo),
		userRepo:  new(mocks.MockUserRepo),
		email:     new(mocks.MockEmailSender),
		userID:    uuid.New(),
	}
	f.svc = service.NewEvaluationService(
		f.store,
		f.extractor,
		validator.NewEngine(validator.NewDefaultRegistry()),
		reconciler.New(reconciler.Config{NameEditDistance: 2, AddressEditDistance: 5}),
		aggregator.New(aggregator.Config{DeviationTolerance: 0.15}),
		analyzer,
		decisionEngine,
		f.auditRepo,
		f.userRepo,
		f.email,
	)
	return f
}

// expectExtraction registers an extractor response for one filename.
func (f *evalFixture) expectExtraction(filename, docType string, fields map[string]string) {
	f.extractor.On("Extract", mock.Anything, mock.MatchedBy(func(in port.ExtractInput) bool {
		return in.Filename == filename
	})).Return(&port.ExtractOutput{
		DocumentType: docType,
		Fields:       fields,
		ProviderUsed: "remote",
	}, nil)
}

func (f *evalFixture) upload(t *testing.T, sessionID uuid.UUID, filename string, body []byte) *domain.ExtractedDocument {
	t.Helper()
	doc, err := f.svc.AddDocument(context.Background(), sessionID, f.userID, service.AddDocumentInput{
		Filename:    filename,
		ContentType: "application/pdf",
		FileBytes:   body,
	})
	require.NoError(t, err)
	return doc
}

func aadhaarFields() map[string]string {
	return map[string]string{
		"aadhaar_number": "2345 6789 0124",
		"name":           "Priya Sharma",
		"address":        "12 MG Road, Pune",
		"dob":            "15-03-1990",
	}
}

func panFields() map[string]string {
	return map[string]string{
		"pan_number":  "ABCPE1234F",
		"name":        "Priya Sharma",
		"father_name": "Rajesh Sharma",
		"dob":         "1990-03-15",
	}
}

func salarySlipFields() map[string]string {
	return map[string]string{
		"name":         "Priya Sharma",
		"pay_date":     "2024-02-01",
		"net_pay":      "52,000",
		"gross_salary": "65,000",
		"employee_id":  "E-1042",
		"company_name": "Acme Services Pvt Ltd",
	}
}

func cibilFields() map[string]string {
	return map[string]string{
		"cibil_score": "780",
		"name":        "Priya Sharma",
		"pan_number":  "ABCPE1234F",
		"report_date": "2024-01-15",
	}
}

func (f *evalFixture) uploadFullSet(t *testing.T, sessionID uuid.UUID) {
	t.Helper()
	f.expectExtraction("aadhaar.pdf", "aadhaar", aadhaarFields())
	f.expectExtraction("pan.pdf", "pan", panFields())
	f.expectExtraction("slip.pdf", "salary_slip", salarySlipFields())
	f.expectExtraction("cibil.pdf", "cibil_report", cibilFields())

	f.upload(t, sessionID, "aadhaar.pdf", []byte("aadhaar bytes"))
	f.upload(t, sessionID, "pan.pdf", []byte("pan bytes"))
	f.upload(t, sessionID, "slip.pdf", []byte("slip bytes"))
	f.upload(t, sessionID, "cibil.pdf", []byte("cibil bytes"))
}

func TestAddDocument(t *testing.T) {
	f := newEvalFixture(t)
	sess, err := f.svc.CreateSession(context.Background(), f.userID, "march batch")
	require.NoError(t, err)

	f.expectExtraction("aadhaar.pdf", "aadhaar", aadhaarFields())
	doc := f.upload(t, sess.ID, "aadhaar.pdf", []byte("aadhaar bytes"))

	assert.Equal(t, domain.DocTypeAadhaar, doc.DocumentType)
	assert.Equal(t, domain.DocumentContentID([]byte("aadhaar bytes")), doc.DocumentID)
	assert.False(t, doc.Unavailable)

	got, err := f.svc.GetSession(context.Background(), sess.ID, f.userID)
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
}

func TestAddDocumentSameBytesReplaces(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "s")

	f.expectExtraction("aadhaar.pdf", "aadhaar", aadhaarFields())
	f.expectExtraction("rescan.pdf", "aadhaar", aadhaarFields())

	f.upload(t, sess.ID, "aadhaar.pdf", []byte("same bytes"))
	f.upload(t, sess.ID, "rescan.pdf", []byte("same bytes"))

	got, err := f.svc.GetSession(context.Background(), sess.ID, f.userID)
	require.NoError(t, err)
	require.Len(t, got.Documents, 1)
	assert.Equal(t, "rescan.pdf", got.Documents[0].Filename)
}

func TestAddDocumentRejectsUnsupportedContentType(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "s")

	_, err := f.svc.AddDocument(context.Background(), sess.ID, f.userID, service.AddDocumentInput{
		Filename:    "doc.zip",
		ContentType: "application/zip",
		FileBytes:   []byte("zip"),
	})
	assert.ErrorIs(t, err, domain.ErrUnsupportedFileType)
}

func TestAddDocumentRejectsUnknownTypeHint(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "s")

	_, err := f.svc.AddDocument(context.Background(), sess.ID, f.userID, service.AddDocumentInput{
		Filename:     "doc.pdf",
		ContentType:  "application/pdf",
		FileBytes:    []byte("pdf"),
		DocumentType: "passport",
	})
	assert.ErrorIs(t, err, domain.ErrUnknownDocumentType)
}

func TestAddDocumentExtractionFailureKeepsDocumentUnavailable(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "s")

	f.extractor.On("Extract", mock.Anything, mock.Anything).
		Return(nil, errors.New("provider down"))

	doc, err := f.svc.AddDocument(context.Background(), sess.ID, f.userID, service.AddDocumentInput{
		Filename:     "aadhaar.pdf",
		ContentType:  "application/pdf",
		FileBytes:    []byte("scan"),
		DocumentType: "aadhaar",
	})
	require.NoError(t, err)
	assert.True(t, doc.Unavailable)
	assert.Equal(t, domain.DocTypeAadhaar, doc.DocumentType)
}

func TestAddDocumentExtractionFailureWithoutHintRejected(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "s")

	f.extractor.On("Extract", mock.Anything, mock.Anything).
		Return(nil, errors.New("provider down"))

	_, err := f.svc.AddDocument(context.Background(), sess.ID, f.userID, service.AddDocumentInput{
		Filename:    "mystery.pdf",
		ContentType: "application/pdf",
		FileBytes:   []byte("scan"),
	})
	assert.ErrorIs(t, err, domain.ErrUnknownDocumentType)
}

func TestAddDocumentWrongOwner(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "s")

	_, err := f.svc.AddDocument(context.Background(), sess.ID, uuid.New(), service.AddDocumentInput{
		Filename:    "doc.pdf",
		ContentType: "application/pdf",
		FileBytes:   []byte("pdf"),
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestAddDocumentConcurrentUploads(t *testing.T) {
	f := newEvalFixture(t)
	sess, err := f.svc.CreateSession(context.Background(), f.userID, "s")
	require.NoError(t, err)

	f.extractor.On("Extract", mock.Anything, mock.Anything).Return(&port.ExtractOutput{
		DocumentType: "salary_slip",
		Fields:       salarySlipFields(),
		ProviderUsed: "remote",
	}, nil)

	const n = 20
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			_, err := f.svc.AddDocument(context.Background(), sess.ID, f.userID, service.AddDocumentInput{
				Filename:    fmt.Sprintf("slip-%d.pdf", i),
				ContentType: "application/pdf",
				FileBytes:   []byte(fmt.Sprintf("slip body %d", i)),
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := f.svc.GetSession(context.Background(), sess.ID, f.userID)
	require.NoError(t, err)
	assert.Len(t, got.Documents, n)
}

func TestEvaluateHappyPath(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "march batch")
	f.uploadFullSet(t, sess.ID)

	user := &domain.User{ID: f.userID, Email: "analyst@rinsetu.in", FullName: "Asha Rao"}
	f.userRepo.On("GetByID", mock.Anything, f.userID).Return(user, nil)
	f.auditRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.DecisionAudit")).Return(nil)
	f.email.On("SendDecisionEmail", mock.Anything, user.Email, user.FullName,
		mock.AnythingOfType("port.DecisionNotification")).Return(nil)

	got, err := f.svc.Evaluate(context.Background(), sess.ID, f.userID)
	require.NoError(t, err)

	require.Len(t, got.Results, 4)
	for _, res := range got.Results {
		assert.True(t, res.IsValid, "document %s", res.DocumentID)
	}

	require.NotNil(t, got.Consistency)
	assert.Empty(t, got.Consistency.Conflicts)

	require.NotNil(t, got.Income)
	assert.InDelta(t, 52000, got.Income.MonthlyIncome, 1e-9)

	require.NotNil(t, got.Credit)
	assert.Equal(t, 780, got.Credit.OverallScore)
	assert.Equal(t, "Excellent", got.Credit.Band)

	require.NotNil(t, got.Decision)
	assert.Equal(t, domain.RiskTierLow, got.Decision.RiskTier)
	assert.Equal(t, domain.RateBandPrime, got.Decision.InterestRateBand)
	assert.InDelta(t, 52000*60, got.Decision.MaxLoanAmount, 1e-6)

	f.auditRepo.AssertCalled(t, "Create", mock.Anything, mock.MatchedBy(func(e *domain.DecisionAudit) bool {
		return e.SessionID == sess.ID && e.RiskTier == domain.RiskTierLow && e.DocumentCount == 4
	}))
	f.email.AssertExpectations(t)
}

func TestEvaluateNoDocuments(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "empty")

	_, err := f.svc.Evaluate(context.Background(), sess.ID, f.userID)
	assert.ErrorIs(t, err, domain.ErrNoDocuments)
}

func TestEvaluateIneligibleWithoutMandatoryPAN(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "no pan")

	f.expectExtraction("aadhaar.pdf", "aadhaar", aadhaarFields())
	f.expectExtraction("slip.pdf", "salary_slip", salarySlipFields())
	f.expectExtraction("cibil.pdf", "cibil_report", cibilFields())
	f.upload(t, sess.ID, "aadhaar.pdf", []byte("aadhaar bytes"))
	f.upload(t, sess.ID, "slip.pdf", []byte("slip bytes"))
	f.upload(t, sess.ID, "cibil.pdf", []byte("cibil bytes"))

	f.userRepo.On("GetByID", mock.Anything, f.userID).
		Return(&domain.User{ID: f.userID, Email: "a@rinsetu.in"}, nil)
	f.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.email.On("SendDecisionEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	got, err := f.svc.Evaluate(context.Background(), sess.ID, f.userID)
	require.NoError(t, err)

	assert.Equal(t, domain.RiskTierIneligible, got.Decision.RiskTier)
	assert.Contains(t, got.Decision.VerdictReasons, "mandatory document pan was not provided")
}

func TestEvaluateAuditFailureDoesNotFailEvaluation(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "s")
	f.uploadFullSet(t, sess.ID)

	f.userRepo.On("GetByID", mock.Anything, f.userID).
		Return(&domain.User{ID: f.userID, Email: "a@rinsetu.in"}, nil)
	f.auditRepo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))
	f.email.On("SendDecisionEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	got, err := f.svc.Evaluate(context.Background(), sess.ID, f.userID)
	require.NoError(t, err)
	assert.NotNil(t, got.Decision)
}

func TestEvaluateReplacesPriorOutputOnReUpload(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "s")
	f.uploadFullSet(t, sess.ID)

	f.userRepo.On("GetByID", mock.Anything, f.userID).
		Return(&domain.User{ID: f.userID, Email: "a@rinsetu.in"}, nil)
	f.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.email.On("SendDecisionEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Evaluate(context.Background(), sess.ID, f.userID)
	require.NoError(t, err)

	// A new upload invalidates the prior evaluation output.
	f.expectExtraction("pan2.pdf", "pan", panFields())
	f.upload(t, sess.ID, "pan2.pdf", []byte("new pan bytes"))

	_, err = f.svc.GetDecision(context.Background(), sess.ID, f.userID)
	assert.ErrorIs(t, err, domain.ErrSessionNotEvaluated)
}

func TestGetDecisionBeforeEvaluate(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "s")

	_, err := f.svc.GetDecision(context.Background(), sess.ID, f.userID)
	assert.ErrorIs(t, err, domain.ErrSessionNotEvaluated)
	_, err = f.svc.GetConsistencyReport(context.Background(), sess.ID, f.userID)
	assert.ErrorIs(t, err, domain.ErrSessionNotEvaluated)
	_, err = f.svc.GetIncomeProfile(context.Background(), sess.ID, f.userID)
	assert.ErrorIs(t, err, domain.ErrSessionNotEvaluated)
	_, err = f.svc.GetCreditBreakdown(context.Background(), sess.ID, f.userID)
	assert.ErrorIs(t, err, domain.ErrSessionNotEvaluated)
}

func TestGetCreditBreakdownWithoutReport(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "s")

	f.expectExtraction("aadhaar.pdf", "aadhaar", aadhaarFields())
	f.expectExtraction("pan.pdf", "pan", panFields())
	f.expectExtraction("slip.pdf", "salary_slip", salarySlipFields())
	f.upload(t, sess.ID, "aadhaar.pdf", []byte("aadhaar bytes"))
	f.upload(t, sess.ID, "pan.pdf", []byte("pan bytes"))
	f.upload(t, sess.ID, "slip.pdf", []byte("slip bytes"))

	f.userRepo.On("GetByID", mock.Anything, f.userID).
		Return(&domain.User{ID: f.userID, Email: "a@rinsetu.in"}, nil)
	f.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.email.On("SendDecisionEmail", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	_, err := f.svc.Evaluate(context.Background(), sess.ID, f.userID)
	require.NoError(t, err)

	_, err = f.svc.GetCreditBreakdown(context.Background(), sess.ID, f.userID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDeleteSession(t *testing.T) {
	f := newEvalFixture(t)
	sess, _ := f.svc.CreateSession(context.Background(), f.userID, "s")

	require.NoError(t, f.svc.DeleteSession(context.Background(), sess.ID, f.userID))

	_, err := f.svc.GetSession(context.Background(), sess.ID, f.userID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
