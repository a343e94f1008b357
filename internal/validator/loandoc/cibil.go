package loandoc

import (
	"fmt"
	"math"
	"strconv"

	"rinsetu/internal/domain"
)

// CIBIL scores live in [300,900] inclusive. Out-of-range scores are rejected
// as invalid input, never clamped.
const (
	CIBILScoreMin = 300
	CIBILScoreMax = 900
)

// weightFields are the optional per-report component weight overrides a CIBIL
// report may carry. When present they must sum to 1.0 within 0.01.
var weightFields = []string{
	"weight_payment_history",
	"weight_credit_utilization",
	"weight_credit_age",
	"weight_credit_mix",
	"weight_inquiries",
}

// CIBILScore parses the normalized cibil_score field of a document.
func CIBILScore(d *Document) (int, error) {
	return strconv.Atoi(d.Get("cibil_score"))
}

// CIBILRules returns the rule set for CIBIL credit reports.
func CIBILRules() []*fieldRule {
	rules := requiredRules("cibil",
		[]string{"cibil_score", "name", "pan_number", "report_date"},
		domain.ValidationSeverityError)

	rules = append(rules, &fieldRule{
		ruleKey:  "rng.cibil.score",
		ruleName: "Range: CIBIL Score",
		ruleType: domain.ValidationRuleRange,
		severity: domain.ValidationSeverityError,
		validate: func(d *Document) []CheckResult {
			val := d.Get("cibil_score")
			if val == "" {
				return []CheckResult{{
					Passed: true, Field: "cibil_score",
					ExpectedValue: "integer in [300,900]", ActualValue: val,
					Message: "Range: CIBIL Score: field is empty, skipping range check",
				}}
			}
			score, err := strconv.Atoi(val)
			passed := err == nil && score >= CIBILScoreMin && score <= CIBILScoreMax
			msg := fmt.Sprintf("Range: CIBIL Score: %d is within [300,900]", score)
			kind := domain.FailureKind("")
			if !passed {
				msg = fmt.Sprintf("Range: CIBIL Score: %q is not an integer in [300,900]", val)
				kind = domain.FailureScoreOutOfRange
			}
			return []CheckResult{{
				Passed: passed, Field: "cibil_score",
				ExpectedValue: "integer in [300,900]", ActualValue: val,
				Message: msg, Kind: kind,
			}}
		},
	})

	rules = append(rules, &fieldRule{
		ruleKey:  "rng.cibil.weight_sum",
		ruleName: "Range: Component Weight Sum",
		ruleType: domain.ValidationRuleRange,
		severity: domain.ValidationSeverityError,
		validate: func(d *Document) []CheckResult {
			sum := 0.0
			present := 0
			for _, f := range weightFields {
				val := d.Get(f)
				if val == "" {
					continue
				}
				w, err := strconv.ParseFloat(val, 64)
				if err != nil {
					return []CheckResult{{
						Passed: false, Field: f,
						ExpectedValue: "decimal weight", ActualValue: val,
						Message: fmt.Sprintf("Range: Component Weight Sum: %s is not a decimal", f),
						Kind:    domain.FailureWeightSumInvalid,
					}}
				}
				sum += w
				present++
			}
			if present == 0 {
				// Reports without explicit weights use the configured table.
				return []CheckResult{{
					Passed: true, Field: "weights",
					Message: "Range: Component Weight Sum: no per-report weights, skipping",
				}}
			}
			passed := present == len(weightFields) && math.Abs(sum-1.0) <= 0.01
			msg := fmt.Sprintf("Range: Component Weight Sum: weights sum to %.3f", sum)
			kind := domain.FailureKind("")
			if !passed {
				msg = fmt.Sprintf("Range: Component Weight Sum: weights sum to %.3f, want 1.0 ± 0.01 across all five components", sum)
				kind = domain.FailureWeightSumInvalid
			}
			return []CheckResult{{
				Passed: passed, Field: "weights",
				ExpectedValue: "1.0 ± 0.01", ActualValue: fmt.Sprintf("%.3f", sum),
				Message: msg, Kind: kind,
			}}
		},
	})

	return rules
}
