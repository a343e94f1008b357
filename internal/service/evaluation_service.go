package service

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"rinsetu/internal/aggregator"
	"rinsetu/internal/creditscore"
	"rinsetu/internal/domain"
	"rinsetu/internal/engine"
	"rinsetu/internal/port"
	"rinsetu/internal/reconciler"
	"rinsetu/internal/session"
	"rinsetu/internal/validator"
)

// validateConcurrency bounds the per-document validation fan-out.
const validateConcurrency = 4

// AddDocumentInput is the DTO for submitting a document into a session.
type AddDocumentInput struct {
	Filename     string
	ContentType  string
	FileBytes    []byte
	DocumentType string // optional; empty lets the extractor classify
}

// EvaluationService orchestrates the full verification pipeline for a
// session: extraction on upload, then validation, reconciliation, income
// aggregation, credit analysis and the eligibility decision on Evaluate.
type EvaluationService interface {
	CreateSession(ctx context.Context, userID uuid.UUID, name string) (*domain.Session, error)
	GetSession(ctx context.Context, sessionID, userID uuid.UUID) (*domain.Session, error)
	DeleteSession(ctx context.Context, sessionID, userID uuid.UUID) error
	AddDocument(ctx context.Context, sessionID, userID uuid.UUID, input AddDocumentInput) (*domain.ExtractedDocument, error)
	Evaluate(ctx context.Context, sessionID, userID uuid.UUID) (*domain.Session, error)
	GetDecision(ctx context.Context, sessionID, userID uuid.UUID) (*domain.EligibilityDecision, error)
	GetConsistencyReport(ctx context.Context, sessionID, userID uuid.UUID) (*domain.ConsistencyReport, error)
	GetIncomeProfile(ctx context.Context, sessionID, userID uuid.UUID) (*domain.IncomeProfile, error)
	GetCreditBreakdown(ctx context.Context, sessionID, userID uuid.UUID) (*domain.CreditScoreBreakdown, error)
}

type evaluationService struct {
	store      *session.Store
	extractor  port.DocumentExtractor
	validator  *validator.Engine
	reconciler *reconciler.Reconciler
	aggregator *aggregator.Aggregator
	analyzer   *creditscore.Analyzer
	engine     *engine.Engine
	auditRepo  port.DecisionAuditRepository
	userRepo   port.UserRepository
	email      port.EmailSender
}

// NewEvaluationService wires the pipeline stages together.
func NewEvaluationService(
	store *session.Store,
	extractor port.DocumentExtractor,
	validatorEngine *validator.Engine,
	rec *reconciler.Reconciler,
	agg *aggregator.Aggregator,
	analyzer *creditscore.Analyzer,
	decisionEngine *engine.Engine,
	auditRepo port.DecisionAuditRepository,
	userRepo port.UserRepository,
	email port.EmailSender,
) EvaluationService {
	return &evaluationService{
		store:      store,
		extractor:  extractor,
		validator:  validatorEngine,
		reconciler: rec,
		aggregator: agg,
		analyzer:   analyzer,
		engine:     decisionEngine,
		auditRepo:  auditRepo,
		userRepo:   userRepo,
		email:      email,
	}
}

func (s *evaluationService) CreateSession(_ context.Context, userID uuid.UUID, name string) (*domain.Session, error) {
	sess := s.store.Create(userID, name)
	log.Printf("service.EvaluationService: session %s created for user %s", sess.ID, userID)
	return sess, nil
}

func (s *evaluationService) GetSession(_ context.Context, sessionID, userID uuid.UUID) (*domain.Session, error) {
	return s.store.Get(sessionID, userID)
}

func (s *evaluationService) DeleteSession(_ context.Context, sessionID, userID uuid.UUID) error {
	if _, err := s.store.Get(sessionID, userID); err != nil {
		return err
	}
	s.store.Delete(sessionID)
	return nil
}

// AddDocument extracts fields from the uploaded bytes and attaches the result
// to the session. Extraction failure does not reject the upload: the document
// joins the session marked unavailable so the decision engine can account for
// it.
func (s *evaluationService) AddDocument(ctx context.Context, sessionID, userID uuid.UUID, input AddDocumentInput) (*domain.ExtractedDocument, error) {
	if _, err := s.store.Get(sessionID, userID); err != nil {
		return nil, err
	}

	if _, ok := domain.AllowedContentTypes[input.ContentType]; !ok && !strings.HasPrefix(input.ContentType, "text/") {
		return nil, domain.ErrUnsupportedFileType
	}
	if input.DocumentType != "" && !domain.KnownDocumentTypes[domain.DocumentType(input.DocumentType)] {
		return nil, domain.ErrUnknownDocumentType
	}

	doc := domain.ExtractedDocument{
		DocumentID:   domain.DocumentContentID(input.FileBytes),
		DocumentType: domain.DocumentType(input.DocumentType),
		Filename:     input.Filename,
		ExtractedAt:  time.Now().UTC(),
	}

	out, err := s.extractor.Extract(ctx, port.ExtractInput{
		FileBytes:    input.FileBytes,
		ContentType:  input.ContentType,
		Filename:     input.Filename,
		DocumentType: input.DocumentType,
	})
	if err != nil {
		log.Printf("service.EvaluationService: extraction failed for %s: %v", input.Filename, err)
		doc.Unavailable = true
	} else {
		doc.Fields = out.Fields
		doc.Confidence = out.Confidence
		if doc.DocumentType == "" {
			doc.DocumentType = domain.DocumentType(out.DocumentType)
		}
	}

	if doc.DocumentType == "" || !domain.KnownDocumentTypes[doc.DocumentType] {
		return nil, domain.ErrUnknownDocumentType
	}

	if _, err := s.store.Mutate(sessionID, userID, func(sess *domain.Session) error {
		// Re-submitting the same bytes replaces the earlier entry instead of
		// double counting it.
		replaced := false
		for i := range sess.Documents {
			if sess.Documents[i].DocumentID == doc.DocumentID {
				sess.Documents[i] = doc
				replaced = true
				break
			}
		}
		if !replaced {
			sess.Documents = append(sess.Documents, doc)
		}

		// Any change to the document set invalidates previous evaluation output.
		sess.Results = nil
		sess.Consistency = nil
		sess.Income = nil
		sess.Credit = nil
		sess.Decision = nil
		return nil
	}); err != nil {
		return nil, err
	}

	return &doc, nil
}

// Evaluate runs the whole pipeline over the session's documents. Documents
// validate concurrently; reconciliation, aggregation and credit analysis then
// run in parallel over the immutable validation results, and the decision
// engine joins them.
func (s *evaluationService) Evaluate(ctx context.Context, sessionID, userID uuid.UUID) (*domain.Session, error) {
	// The whole pipeline runs under the session lock so the document set
	// cannot shift between validation and the stored decision.
	sess, err := s.store.Mutate(sessionID, userID, func(sess *domain.Session) error {
		if len(sess.Documents) == 0 {
			return domain.ErrNoDocuments
		}

		results := s.validateAll(ctx, sess.Documents)

		var (
			wg          sync.WaitGroup
			consistency *domain.ConsistencyReport
			income      *domain.IncomeProfile
			credit      *domain.CreditScoreBreakdown
			creditErr   error
		)

		wg.Add(3)
		go func() {
			defer wg.Done()
			consistency = s.reconciler.Reconcile(results)
		}()
		go func() {
			defer wg.Done()
			income = s.aggregator.Aggregate(results)
		}()
		go func() {
			defer wg.Done()
			credit, creditErr = s.analyzeCredit(results)
		}()
		wg.Wait()

		if creditErr != nil {
			// A malformed credit report downgrades to "no credit report"; the
			// engine turns that into an ineligible verdict with a reason.
			log.Printf("service.EvaluationService: credit analysis for session %s: %v", sessionID, creditErr)
			credit = nil
		}

		decision := s.engine.Decide(sessionID, results, consistency, income, credit)

		sess.Results = results
		sess.Consistency = consistency
		sess.Income = income
		sess.Credit = credit
		sess.Decision = decision
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.recordAudit(ctx, sess, sess.Decision)
	s.notify(ctx, sess, sess.Decision)

	return sess, nil
}

// validateAll fans document validation out over a bounded worker set and
// returns results in the session's document order.
func (s *evaluationService) validateAll(ctx context.Context, docs []domain.ExtractedDocument) []domain.ValidationResult {
	results := make([]domain.ValidationResult, len(docs))
	sem := make(chan struct{}, validateConcurrency)
	var wg sync.WaitGroup

	for i := range docs {
		doc := &docs[i]
		idx := i

		sem <- struct{}{} // acquire
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }() // release
			results[idx] = s.validator.ValidateDocument(ctx, doc)
		}()
	}
	wg.Wait()

	return results
}

// analyzeCredit picks the credit report to score. When several reports are
// present the valid ones win; ties break on document ID for determinism.
func (s *evaluationService) analyzeCredit(results []domain.ValidationResult) (*domain.CreditScoreBreakdown, error) {
	var candidates []*domain.ValidationResult
	for i := range results {
		r := &results[i]
		if r.DocumentType == domain.DocTypeCIBILReport && !r.Unavailable && r.IsValid {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].DocumentID < candidates[j].DocumentID
	})
	return s.analyzer.Analyze(candidates[0])
}

// recordAudit persists the non-sensitive verdict summary. Audit write failure
// is logged, never surfaced: the decision already happened.
func (s *evaluationService) recordAudit(ctx context.Context, sess *domain.Session, decision *domain.EligibilityDecision) {
	entry := &domain.DecisionAudit{
		ID:               uuid.New(),
		SessionID:        sess.ID,
		UserID:           sess.UserID,
		RiskTier:         decision.RiskTier,
		MaxLoanAmount:    decision.MaxLoanAmount,
		InterestRateBand: decision.InterestRateBand,
		ReasonSummary:    strings.Join(decision.VerdictReasons, "; "),
		DocumentCount:    len(sess.Documents),
		CreatedAt:        decision.EvaluatedAt,
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		log.Printf("service.EvaluationService: audit write for session %s failed: %v", sess.ID, err)
	}
}

func (s *evaluationService) notify(ctx context.Context, sess *domain.Session, decision *domain.EligibilityDecision) {
	user, err := s.userRepo.GetByID(ctx, sess.UserID)
	if err != nil {
		log.Printf("service.EvaluationService: notify lookup for user %s failed: %v", sess.UserID, err)
		return
	}
	n := port.DecisionNotification{
		SessionName:      sess.Name,
		RiskTier:         string(decision.RiskTier),
		MaxLoanAmount:    decision.MaxLoanAmount,
		InterestRateBand: string(decision.InterestRateBand),
	}
	if err := s.email.SendDecisionEmail(ctx, user.Email, user.FullName, n); err != nil {
		log.Printf("service.EvaluationService: decision email to %s failed: %v", user.Email, err)
	}
}

func (s *evaluationService) GetDecision(_ context.Context, sessionID, userID uuid.UUID) (*domain.EligibilityDecision, error) {
	sess, err := s.store.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.Decision == nil {
		return nil, domain.ErrSessionNotEvaluated
	}
	return sess.Decision, nil
}

func (s *evaluationService) GetConsistencyReport(_ context.Context, sessionID, userID uuid.UUID) (*domain.ConsistencyReport, error) {
	sess, err := s.store.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.Consistency == nil {
		return nil, domain.ErrSessionNotEvaluated
	}
	return sess.Consistency, nil
}

func (s *evaluationService) GetIncomeProfile(_ context.Context, sessionID, userID uuid.UUID) (*domain.IncomeProfile, error) {
	sess, err := s.store.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.Income == nil {
		return nil, domain.ErrSessionNotEvaluated
	}
	return sess.Income, nil
}

func (s *evaluationService) GetCreditBreakdown(_ context.Context, sessionID, userID uuid.UUID) (*domain.CreditScoreBreakdown, error) {
	sess, err := s.store.Get(sessionID, userID)
	if err != nil {
		return nil, err
	}
	if sess.Decision == nil {
		return nil, domain.ErrSessionNotEvaluated
	}
	if sess.Credit == nil {
		return nil, fmt.Errorf("%w: no credit report in session", domain.ErrNotFound)
	}
	return sess.Credit, nil
}
