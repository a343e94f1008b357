package aggregator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinsetu/internal/domain"
)

func newTestAggregator() *Aggregator {
	return New(Config{DeviationTolerance: 0.15})
}

func incomeResult(id string, docType domain.DocumentType, fields map[string]string) domain.ValidationResult {
	return domain.ValidationResult{
		DocumentID:       id,
		DocumentType:     docType,
		IsValid:          true,
		NormalizedFields: fields,
	}
}

func TestAggregateSingleSalarySlip(t *testing.T) {
	profile := newTestAggregator().Aggregate([]domain.ValidationResult{
		incomeResult("doc-a", domain.DocTypeSalarySlip, map[string]string{"net_pay": "52000"}),
	})

	require.Len(t, profile.IncomeSources, 1)
	assert.Equal(t, domain.IncomeSourceSalarySlip, profile.IncomeSources[0].SourceType)
	assert.InDelta(t, 52000, profile.MonthlyIncome, 1e-9)
	assert.False(t, profile.LowConfidence)
	require.NotNil(t, profile.DebtToIncomeRatio)
	assert.Zero(t, *profile.DebtToIncomeRatio)
}

func TestAggregateITRDividedByTwelve(t *testing.T) {
	profile := newTestAggregator().Aggregate([]domain.ValidationResult{
		incomeResult("doc-itr", domain.DocTypeITR, map[string]string{"total_income": "9,60,000"}),
	})

	require.Len(t, profile.IncomeSources, 1)
	assert.Equal(t, domain.IncomeSourceITR, profile.IncomeSources[0].SourceType)
	assert.InDelta(t, 80000, profile.MonthlyIncome, 1e-9)
}

func TestAggregateMedianAcrossSources(t *testing.T) {
	profile := newTestAggregator().Aggregate([]domain.ValidationResult{
		incomeResult("doc-slip", domain.DocTypeSalarySlip, map[string]string{"net_pay": "50000"}),
		incomeResult("doc-itr", domain.DocTypeITR, map[string]string{"total_income": "624000"}), // 52000/month
		incomeResult("doc-bank", domain.DocTypeBankStatement, map[string]string{
			"average_monthly_credit": "54000",
		}),
	})

	require.Len(t, profile.IncomeSources, 3)
	assert.InDelta(t, 52000, profile.MonthlyIncome, 1e-9)
	assert.False(t, profile.LowConfidence)
}

func TestAggregateEvenCountUsesMiddleMean(t *testing.T) {
	profile := newTestAggregator().Aggregate([]domain.ValidationResult{
		incomeResult("doc-slip", domain.DocTypeSalarySlip, map[string]string{"net_pay": "50000"}),
		incomeResult("doc-bank", domain.DocTypeBankStatement, map[string]string{
			"average_monthly_credit": "54000",
		}),
	})

	assert.InDelta(t, 52000, profile.MonthlyIncome, 1e-9)
}

func TestAggregateAgreeingSourceNeverWeakensProfile(t *testing.T) {
	// A third source that agrees with the running median must not lower the
	// income estimate or introduce a low-confidence flag.
	agg := newTestAggregator()

	two := []domain.ValidationResult{
		incomeResult("doc-slip", domain.DocTypeSalarySlip, map[string]string{"net_pay": "50000"}),
		incomeResult("doc-itr", domain.DocTypeITR, map[string]string{"total_income": "624000"}), // 52000/month
	}
	baseline := agg.Aggregate(two)
	require.False(t, baseline.LowConfidence)

	three := append(two, incomeResult("doc-bank", domain.DocTypeBankStatement, map[string]string{
		"average_monthly_credit": "51000", // the two-source median
	}))
	profile := agg.Aggregate(three)

	assert.GreaterOrEqual(t, profile.MonthlyIncome, baseline.MonthlyIncome)
	assert.False(t, profile.LowConfidence)
	assert.Len(t, profile.IncomeSources, 3)
}

func TestAggregateDeviationFlagsLowConfidence(t *testing.T) {
	profile := newTestAggregator().Aggregate([]domain.ValidationResult{
		incomeResult("doc-slip", domain.DocTypeSalarySlip, map[string]string{"net_pay": "50000"}),
		incomeResult("doc-slip2", domain.DocTypeSalarySlip, map[string]string{"net_pay": "51000"}),
		incomeResult("doc-bank", domain.DocTypeBankStatement, map[string]string{
			"average_monthly_credit": "90000",
		}),
	})

	assert.True(t, profile.LowConfidence)
	// The outlier is kept in the sources, never averaged away.
	assert.Len(t, profile.IncomeSources, 3)
	assert.InDelta(t, 51000, profile.MonthlyIncome, 1e-9)
}

func TestAggregateObligationsAndDTI(t *testing.T) {
	profile := newTestAggregator().Aggregate([]domain.ValidationResult{
		incomeResult("doc-slip", domain.DocTypeSalarySlip, map[string]string{"net_pay": "50000"}),
		incomeResult("doc-bank", domain.DocTypeBankStatement, map[string]string{
			"average_monthly_credit": "50000",
			"recurring_emi_debit":    "12500",
		}),
	})

	assert.InDelta(t, 12500, profile.MonthlyObligations, 1e-9)
	require.NotNil(t, profile.DebtToIncomeRatio)
	assert.InDelta(t, 0.25, *profile.DebtToIncomeRatio, 1e-9)
}

func TestAggregateNoIncomeYieldsNilDTI(t *testing.T) {
	profile := newTestAggregator().Aggregate([]domain.ValidationResult{
		incomeResult("doc-aadhaar", domain.DocTypeAadhaar, map[string]string{
			"aadhaar_number": "234567890124",
		}),
	})

	assert.Empty(t, profile.IncomeSources)
	assert.Zero(t, profile.MonthlyIncome)
	assert.Nil(t, profile.DebtToIncomeRatio)
}

func TestAggregateSkipsUnavailableDocuments(t *testing.T) {
	profile := newTestAggregator().Aggregate([]domain.ValidationResult{
		{
			DocumentID:   "doc-slip",
			DocumentType: domain.DocTypeSalarySlip,
			Unavailable:  true,
			NormalizedFields: map[string]string{
				"net_pay": "50000",
			},
		},
	})

	assert.Empty(t, profile.IncomeSources)
}
