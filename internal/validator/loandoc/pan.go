package loandoc

import (
	"fmt"
	"regexp"

	"rinsetu/internal/domain"
)

var panPattern = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// PANHolderCategory maps the fourth letter of a normalized PAN to its holder
// category, or PANCategoryUnrecognized for letters outside the known set.
func PANHolderCategory(pan string) domain.PANCategory {
	if len(pan) < 4 {
		return domain.PANCategoryUnrecognized
	}
	if cat, ok := domain.PANCategoryByLetter[pan[3]]; ok {
		return cat
	}
	return domain.PANCategoryUnrecognized
}

// PANRules returns the rule set for PAN cards.
func PANRules() []*fieldRule {
	rules := requiredRules("pan",
		[]string{"pan_number", "name", "father_name", "dob"},
		domain.ValidationSeverityError)

	rules = append(rules, &fieldRule{
		ruleKey:  "fmt.pan.number",
		ruleName: "Format: PAN Number",
		ruleType: domain.ValidationRuleRegex,
		severity: domain.ValidationSeverityError,
		validate: func(d *Document) []CheckResult {
			return []CheckResult{regexCheck("pan_number",
				"AAAAA9999A", "Format: PAN Number", panPattern, d)}
		},
	})

	rules = append(rules, &fieldRule{
		ruleKey:  "fmt.pan.category",
		ruleName: "Format: PAN Holder Category",
		ruleType: domain.ValidationRuleRegex,
		severity: domain.ValidationSeverityWarning,
		validate: func(d *Document) []CheckResult {
			val := d.Get("pan_number")
			if val == "" || !panPattern.MatchString(val) {
				return []CheckResult{{
					Passed: true, Field: "pan_number",
					Message: "Format: PAN Holder Category: number absent or malformed, skipping",
				}}
			}
			cat := PANHolderCategory(val)
			passed := cat != domain.PANCategoryUnrecognized
			msg := fmt.Sprintf("Format: PAN Holder Category: fourth letter maps to %s", cat)
			kind := domain.FailureKind("")
			if !passed {
				msg = fmt.Sprintf("Format: PAN Holder Category: fourth letter %q is not a known holder category", val[3])
				kind = domain.FailureCategoryUnrecognized
			}
			return []CheckResult{{
				Passed: passed, Field: "pan_number",
				ExpectedValue: "one of P,C,H,F,T,A,B,L,J,G",
				ActualValue:   string(val[3]),
				Message:       msg, Kind: kind,
			}}
		},
	})

	return rules
}
