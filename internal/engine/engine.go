// Package engine computes the final loan eligibility decision from the
// validation, consistency, income, and credit signals of one session. It is
// pure and side-effect-free; re-invoking it on the same snapshot yields the
// same decision.
package engine

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"rinsetu/internal/domain"
)

// Config carries the decision rule tables. Construction rejects invalid
// tables; a business-rule "Ineligible" is never an error, bad configuration
// always is.
type Config struct {
	ScoreFloor        int
	ScoreExcellentMin int
	ScoreGoodMin      int
	DTILowMax         float64
	DTIMediumMax      float64

	Multipliers map[domain.RiskTier]float64

	MandatoryDocuments []domain.DocumentType
	RequireIncomeProof bool

	// IdentityFields marks which logical fields disqualify on a Major
	// conflict (supplied by the reconciler's field table).
	IdentityFields map[string]bool
}

// Engine computes eligibility decisions.
type Engine struct {
	cfg Config
}

// New validates the rule tables eagerly and returns the engine.
func New(cfg Config) (*Engine, error) {
	if cfg.ScoreFloor < 300 || cfg.ScoreFloor > 900 {
		return nil, fmt.Errorf("%w: score floor %d outside [300,900]",
			domain.ErrInvalidConfiguration, cfg.ScoreFloor)
	}
	if cfg.ScoreGoodMin <= cfg.ScoreFloor || cfg.ScoreExcellentMin <= cfg.ScoreGoodMin {
		return nil, fmt.Errorf("%w: score bands must satisfy floor < good < excellent",
			domain.ErrInvalidConfiguration)
	}
	if cfg.DTILowMax <= 0 || cfg.DTIMediumMax <= cfg.DTILowMax {
		return nil, fmt.Errorf("%w: DTI bands must satisfy 0 < low_max < medium_max",
			domain.ErrInvalidConfiguration)
	}
	for _, tier := range []domain.RiskTier{domain.RiskTierLow, domain.RiskTierMedium, domain.RiskTierHigh} {
		if cfg.Multipliers[tier] <= 0 {
			return nil, fmt.Errorf("%w: missing or non-positive income multiplier for tier %s",
				domain.ErrInvalidConfiguration, tier)
		}
	}
	for _, d := range cfg.MandatoryDocuments {
		if !domain.KnownDocumentTypes[d] {
			return nil, fmt.Errorf("%w: unknown mandatory document type %q",
				domain.ErrInvalidConfiguration, d)
		}
	}
	return &Engine{cfg: cfg}, nil
}

var incomeProofTypes = []domain.DocumentType{
	domain.DocTypeSalarySlip,
	domain.DocTypeITR,
	domain.DocTypeBankStatement,
}

// Decide applies the decision rules in order. The first disqualifying rule
// wins for Ineligible; otherwise every rule contributes to the tier and
// amount. Every contributing fact is appended to VerdictReasons in evaluation
// order, so the decision is auditable without re-running the engine.
func (e *Engine) Decide(
	sessionID uuid.UUID,
	results []domain.ValidationResult,
	consistency *domain.ConsistencyReport,
	income *domain.IncomeProfile,
	credit *domain.CreditScoreBreakdown,
) *domain.EligibilityDecision {
	d := &domain.EligibilityDecision{
		SessionID:   sessionID,
		EvaluatedAt: time.Now().UTC(),
	}

	// Rule 1: Major conflict on an identity field disqualifies outright.
	if reason, conflicted := e.identityConflict(consistency); conflicted {
		return e.ineligible(d, reason)
	}
	d.VerdictReasons = append(d.VerdictReasons, "no major identity conflicts across documents")

	// Rule 2: every mandatory document must be present and valid.
	if reason, missing := e.mandatoryDocumentProblem(results); missing {
		return e.ineligible(d, reason)
	}
	d.VerdictReasons = append(d.VerdictReasons, "all mandatory documents present and valid")

	// Rule 3: credit score floor.
	if credit == nil {
		return e.ineligible(d, "no valid credit report available to establish a credit score")
	}
	if credit.OverallScore < e.cfg.ScoreFloor {
		return e.ineligible(d, fmt.Sprintf(
			"credit score %d is below the eligibility floor of %d",
			credit.OverallScore, e.cfg.ScoreFloor))
	}
	d.VerdictReasons = append(d.VerdictReasons, fmt.Sprintf(
		"credit score %d (%s band) meets the floor of %d",
		credit.OverallScore, credit.Band, e.cfg.ScoreFloor))

	// Rule 4: risk tier from the 2-D score × DTI table.
	dti := 0.0
	if income != nil && income.DebtToIncomeRatio != nil {
		dti = *income.DebtToIncomeRatio
	}
	tier := riskTierTable[e.scoreBandOf(credit.OverallScore)][e.dtiBandOf(dti)]
	d.RiskTier = tier
	d.VerdictReasons = append(d.VerdictReasons, fmt.Sprintf(
		"debt-to-income ratio %.2f and credit score %d place the applicant in the %s risk tier",
		dti, credit.OverallScore, tier))
	if income != nil && income.LowConfidence {
		d.VerdictReasons = append(d.VerdictReasons,
			"income sources disagree beyond tolerance; profile flagged low-confidence")
	}

	// Rule 5: maximum loan amount, floored at zero.
	monthlyIncome := 0.0
	if income != nil {
		monthlyIncome = income.MonthlyIncome
	}
	multiplier := e.cfg.Multipliers[tier]
	amount := monthlyIncome * multiplier * (1 - dti)
	if amount < 0 {
		amount = 0
	}
	d.MaxLoanAmount = amount
	d.VerdictReasons = append(d.VerdictReasons, fmt.Sprintf(
		"maximum loan amount %.0f = monthly income %.0f × %.0f (tier multiplier) × %.2f (1 − DTI)",
		amount, monthlyIncome, multiplier, 1-dti))

	// Rule 6: interest band follows the tier.
	d.InterestRateBand = rateBandByTier[tier]
	d.VerdictReasons = append(d.VerdictReasons, fmt.Sprintf(
		"%s risk tier maps to the %s interest rate band", tier, d.InterestRateBand))

	return d
}

func (e *Engine) ineligible(d *domain.EligibilityDecision, reason string) *domain.EligibilityDecision {
	d.RiskTier = domain.RiskTierIneligible
	d.MaxLoanAmount = 0
	d.InterestRateBand = rateBandByTier[domain.RiskTierIneligible]
	d.VerdictReasons = append(d.VerdictReasons, reason)
	return d
}

func (e *Engine) identityConflict(report *domain.ConsistencyReport) (string, bool) {
	if report == nil {
		return "", false
	}
	for _, c := range report.Conflicts {
		if c.Severity == domain.ConflictSeverityMajor && e.cfg.IdentityFields[c.Field] {
			return fmt.Sprintf(
				"major consistency conflict on identity field %q: %s", c.Field, c.Detail), true
		}
	}
	return "", false
}

// mandatoryDocumentProblem checks the configured mandatory set plus, when
// required, at least one valid income proof. Documents whose extraction was
// unavailable count as missing.
func (e *Engine) mandatoryDocumentProblem(results []domain.ValidationResult) (string, bool) {
	byType := make(map[domain.DocumentType]*domain.ValidationResult, len(results))
	for i := range results {
		res := &results[i]
		// A later valid document of the same type supersedes an invalid one.
		if existing, ok := byType[res.DocumentType]; !ok || (!existing.IsValid && res.IsValid) {
			byType[res.DocumentType] = res
		}
	}

	for _, t := range e.cfg.MandatoryDocuments {
		res, ok := byType[t]
		if !ok {
			return fmt.Sprintf("mandatory document %s was not provided", t), true
		}
		if res.Unavailable {
			return fmt.Sprintf("mandatory document %s could not be extracted", t), true
		}
		if !res.IsValid {
			return fmt.Sprintf("mandatory document %s failed validation: %s",
				t, firstFailure(res)), true
		}
	}

	if e.cfg.RequireIncomeProof {
		for _, t := range incomeProofTypes {
			if res, ok := byType[t]; ok && res.IsValid {
				return "", false
			}
		}
		return "no valid income proof (salary slip, ITR, or bank statement) was provided", true
	}
	return "", false
}

func firstFailure(res *domain.ValidationResult) string {
	if len(res.Failures) == 0 {
		return "validation failed"
	}
	return res.Failures[0].Reason
}
