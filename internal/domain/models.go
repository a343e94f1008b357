package domain

import (
	"crypto/sha256"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// ExtractedDocument is the structured field set the extraction collaborator
// returns for one uploaded file. It is immutable once produced.
type ExtractedDocument struct {
	DocumentID   string             `json:"document_id"`
	DocumentType DocumentType       `json:"document_type"`
	Filename     string             `json:"filename"`
	Fields       map[string]string  `json:"fields"`
	Confidence   map[string]float64 `json:"confidence"`
	Unavailable  bool               `json:"unavailable"`
	ExtractedAt  time.Time          `json:"extracted_at"`
}

// DocumentContentID computes the stable document ID as the SHA-256 of the raw
// file bytes, so re-uploads of the same file map to the same ID.
func DocumentContentID(raw []byte) string {
	sum := sha256.Sum256(raw)
	return fmt.Sprintf("%x", sum)
}

// RuleCheck is the outcome of a single validation rule against one field.
type RuleCheck struct {
	RuleKey       string             `json:"rule_key"`
	RuleName      string             `json:"rule_name"`
	RuleType      ValidationRuleType `json:"rule_type"`
	Severity      ValidationSeverity `json:"severity"`
	Passed        bool               `json:"passed"`
	Field         string             `json:"field"`
	ExpectedValue string             `json:"expected_value"`
	ActualValue   string             `json:"actual_value"`
	Message       string             `json:"message"`
}

// ValidationFailure is one entry in a ValidationResult's ordered failure list.
type ValidationFailure struct {
	Field  string      `json:"field"`
	Rule   string      `json:"rule"`
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
}

// ValidationResult is the complete, never-partial outcome of validating one
// document. All applicable rules run even after the first failure.
type ValidationResult struct {
	DocumentID       string              `json:"document_id"`
	DocumentType     DocumentType        `json:"document_type"`
	IsValid          bool                `json:"is_valid"`
	Unavailable      bool                `json:"unavailable"`
	Checks           []RuleCheck         `json:"checks"`
	Failures         []ValidationFailure `json:"failures"`
	NormalizedFields map[string]string   `json:"normalized_fields"`
}

// Conflict records a cross-document disagreement on a logical field.
type Conflict struct {
	Field    string            `json:"field"`
	Values   map[string]string `json:"values"` // documentID → normalized value
	Severity ConflictSeverity  `json:"severity"`
	Detail   string            `json:"detail"`
}

// ConsistencyReport is the result of reconciling all documents of a session.
type ConsistencyReport struct {
	MatchedFields map[string][]string `json:"matched_fields"` // logical field → agreeing documentIDs
	Unverified    []string            `json:"unverified"`     // fields present in only one document
	Conflicts     []Conflict          `json:"conflicts"`
}

// HasMajorIdentityConflict reports whether any Major conflict touches an
// identity field (name, dob, or an identifier).
func (r *ConsistencyReport) HasMajorIdentityConflict(identityFields map[string]bool) bool {
	for _, c := range r.Conflicts {
		if c.Severity == ConflictSeverityMajor && identityFields[c.Field] {
			return true
		}
	}
	return false
}

// IncomeSource is one income-confirming document's contribution.
type IncomeSource struct {
	DocumentID         string           `json:"document_id"`
	SourceType         IncomeSourceType `json:"source_type"`
	ContributionAmount float64          `json:"contribution_amount"` // monthly, INR
}

// IncomeProfile is the merged monthly income and obligation picture.
type IncomeProfile struct {
	MonthlyIncome      float64        `json:"monthly_income"`
	IncomeSources      []IncomeSource `json:"income_sources"`
	MonthlyObligations float64        `json:"monthly_obligations"`
	DebtToIncomeRatio  *float64       `json:"debt_to_income_ratio"` // nil when income is zero
	LowConfidence      bool           `json:"low_confidence"`
}

// ComponentScore is one weighted CIBIL score component with guidance.
type ComponentScore struct {
	Component  ScoreComponent `json:"component"`
	Weight     float64        `json:"weight"`
	RawScore   float64        `json:"raw_score"` // 0–100
	Weighted   float64        `json:"weighted"`
	Suggestion string         `json:"suggestion,omitempty"`
}

// CreditScoreBreakdown decomposes a CIBIL score into weighted components.
type CreditScoreBreakdown struct {
	DocumentID   string           `json:"document_id"`
	OverallScore int              `json:"overall_score"` // 300–900 inclusive
	Band         string           `json:"band"`          // Excellent / Good / Fair / Poor
	Components   []ComponentScore `json:"components"`
}

// EligibilityDecision is the terminal, fully regenerated output of a session
// evaluation. Ineligible is a successfully computed decision, not an error.
type EligibilityDecision struct {
	SessionID        uuid.UUID        `json:"session_id"`
	RiskTier         RiskTier         `json:"risk_tier"`
	MaxLoanAmount    float64          `json:"max_loan_amount"`
	InterestRateBand InterestRateBand `json:"interest_rate_band"`
	VerdictReasons   []string         `json:"verdict_reasons"`
	EvaluatedAt      time.Time        `json:"evaluated_at"`
}

// Session owns every entity of one applicant evaluation. Nothing in it is
// shared across sessions or persisted beyond the session lifetime.
type Session struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	Documents []ExtractedDocument `json:"documents"`

	// Populated by Evaluate; regenerated in full on every run.
	Results     []ValidationResult    `json:"results,omitempty"`
	Consistency *ConsistencyReport    `json:"consistency,omitempty"`
	Income      *IncomeProfile        `json:"income,omitempty"`
	Credit      *CreditScoreBreakdown `json:"credit,omitempty"`
	Decision    *EligibilityDecision  `json:"decision,omitempty"`
}

// User represents an authenticated platform user.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	FullName     string    `db:"full_name" json:"full_name"`
	Role         UserRole  `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// DecisionAudit is the durable, non-sensitive record of one evaluation.
// It carries the verdict and reason summaries only, never extracted field
// values, which stay in the in-memory session.
type DecisionAudit struct {
	ID               uuid.UUID        `db:"id" json:"id"`
	SessionID        uuid.UUID        `db:"session_id" json:"session_id"`
	UserID           uuid.UUID        `db:"user_id" json:"user_id"`
	RiskTier         RiskTier         `db:"risk_tier" json:"risk_tier"`
	MaxLoanAmount    float64          `db:"max_loan_amount" json:"max_loan_amount"`
	InterestRateBand InterestRateBand `db:"interest_rate_band" json:"interest_rate_band"`
	ReasonSummary    string           `db:"reason_summary" json:"reason_summary"`
	DocumentCount    int              `db:"document_count" json:"document_count"`
	CreatedAt        time.Time        `db:"created_at" json:"created_at"`
}
