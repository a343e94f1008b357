// Package aggregator merges income and obligation signals from salary slips,
// income tax returns, and bank statements into a single monthly profile.
package aggregator

import (
	"math"
	"sort"

	"rinsetu/internal/domain"
	"rinsetu/internal/validator/loandoc"
)

// Config carries the aggregation tolerances.
type Config struct {
	// DeviationTolerance is the relative deviation from the median beyond
	// which a source marks the profile low-confidence (default 0.15).
	DeviationTolerance float64
}

// Aggregator computes income profiles. It is stateless and safe for
// concurrent use across sessions.
type Aggregator struct {
	cfg Config
}

// New creates an Aggregator.
func New(cfg Config) *Aggregator {
	return &Aggregator{cfg: cfg}
}

// Aggregate builds the income profile from validated documents. Sources that
// disagree with the median beyond the tolerance flag the profile
// low-confidence; they are never silently averaged away. The debt-to-income
// ratio is nil, not zero, when no income is established.
func (a *Aggregator) Aggregate(results []domain.ValidationResult) *domain.IncomeProfile {
	profile := &domain.IncomeProfile{}

	for _, res := range results {
		if res.Unavailable {
			continue
		}
		if src, ok := monthlyContribution(&res); ok {
			profile.IncomeSources = append(profile.IncomeSources, src)
		}
		profile.MonthlyObligations += obligations(&res)
	}

	if len(profile.IncomeSources) == 0 {
		return profile
	}

	amounts := make([]float64, len(profile.IncomeSources))
	for i, s := range profile.IncomeSources {
		amounts[i] = s.ContributionAmount
	}
	profile.MonthlyIncome = median(amounts)

	for _, s := range profile.IncomeSources {
		if deviates(s.ContributionAmount, profile.MonthlyIncome, a.cfg.DeviationTolerance) {
			profile.LowConfidence = true
			break
		}
	}

	if profile.MonthlyIncome > 0 {
		ratio := profile.MonthlyObligations / profile.MonthlyIncome
		profile.DebtToIncomeRatio = &ratio
	}

	return profile
}

// monthlyContribution normalizes one document's income figure to a monthly
// amount: salary slips directly, ITR annual figures divided by 12, bank
// statements via the collaborator-computed recurring monthly credit.
func monthlyContribution(res *domain.ValidationResult) (domain.IncomeSource, bool) {
	switch res.DocumentType {
	case domain.DocTypeSalarySlip:
		if v, err := loandoc.ParseAmount(res.NormalizedFields["net_pay"]); err == nil && v > 0 {
			return domain.IncomeSource{
				DocumentID:         res.DocumentID,
				SourceType:         domain.IncomeSourceSalarySlip,
				ContributionAmount: v,
			}, true
		}
	case domain.DocTypeITR:
		if v, err := loandoc.ParseAmount(res.NormalizedFields["total_income"]); err == nil && v > 0 {
			return domain.IncomeSource{
				DocumentID:         res.DocumentID,
				SourceType:         domain.IncomeSourceITR,
				ContributionAmount: v / 12,
			}, true
		}
	case domain.DocTypeBankStatement:
		if v, err := loandoc.ParseAmount(res.NormalizedFields["average_monthly_credit"]); err == nil && v > 0 {
			return domain.IncomeSource{
				DocumentID:         res.DocumentID,
				SourceType:         domain.IncomeSourceBankStatement,
				ContributionAmount: v,
			}, true
		}
	}
	return domain.IncomeSource{}, false
}

// obligations sums the recurring debit patterns (EMIs, loan repayments) the
// extraction collaborator tagged on a document.
func obligations(res *domain.ValidationResult) float64 {
	total := 0.0
	for _, field := range []string{"recurring_emi_debit", "monthly_emi"} {
		if v, err := loandoc.ParseAmount(res.NormalizedFields[field]); err == nil {
			total += v
		}
	}
	return total
}

// median of values; the mean of the two middle values for even counts.
func median(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

func deviates(value, reference, tolerance float64) bool {
	if reference == 0 {
		return value != 0
	}
	return math.Abs(value-reference)/reference > tolerance
}
