package loandoc

import (
	"fmt"
	"regexp"

	"rinsetu/internal/domain"
)

// Aadhaar numbers are 12 digits, never starting 0 or 1, with a Verhoeff
// checksum as the final digit.
var aadhaarPattern = regexp.MustCompile(`^[2-9][0-9]{11}$`)

// AadhaarRules returns the rule set for Aadhaar cards.
func AadhaarRules() []*fieldRule {
	rules := requiredRules("aadhaar",
		[]string{"aadhaar_number", "name", "address", "dob"},
		domain.ValidationSeverityError)

	rules = append(rules, &fieldRule{
		ruleKey:  "fmt.aadhaar.number",
		ruleName: "Format: Aadhaar Number",
		ruleType: domain.ValidationRuleRegex,
		severity: domain.ValidationSeverityError,
		validate: func(d *Document) []CheckResult {
			return []CheckResult{regexCheck("aadhaar_number",
				"12 digits starting with 2-9", "Format: Aadhaar Number",
				aadhaarPattern, d)}
		},
	})

	rules = append(rules, &fieldRule{
		ruleKey:  "chk.aadhaar.verhoeff",
		ruleName: "Checksum: Aadhaar Verhoeff",
		ruleType: domain.ValidationRuleChecksum,
		severity: domain.ValidationSeverityError,
		validate: func(d *Document) []CheckResult {
			val := d.Get("aadhaar_number")
			if val == "" || !aadhaarPattern.MatchString(val) {
				// Format rule already reports malformed numbers.
				return []CheckResult{{
					Passed: true, Field: "aadhaar_number",
					Message: "Checksum: Aadhaar Verhoeff: number absent or malformed, skipping",
				}}
			}
			passed := VerhoeffValid(val)
			msg := "Checksum: Aadhaar Verhoeff: checksum digit is valid"
			kind := domain.FailureKind("")
			if !passed {
				msg = "Checksum: Aadhaar Verhoeff: last digit is not the Verhoeff checksum of the first 11"
				kind = domain.FailureChecksumMismatch
			}
			return []CheckResult{{
				Passed: passed, Field: "aadhaar_number",
				ExpectedValue: fmt.Sprintf("checksum digit %d", VerhoeffDigit(val[:11])),
				ActualValue:   val[11:],
				Message:       msg, Kind: kind,
			}}
		},
	})

	rules = append(rules, &fieldRule{
		ruleKey:  "fmt.aadhaar.dob",
		ruleName: "Format: Date of Birth",
		ruleType: domain.ValidationRuleRegex,
		severity: domain.ValidationSeverityWarning,
		validate: func(d *Document) []CheckResult {
			val := d.Get("dob")
			if val == "" {
				return []CheckResult{{
					Passed: true, Field: "dob",
					ExpectedValue: "parseable date", ActualValue: val,
					Message: "Format: Date of Birth: field is empty, skipping date check",
				}}
			}
			_, err := ParseDate(val)
			passed := err == nil
			msg := "Format: Date of Birth: dob is a valid date"
			kind := domain.FailureKind("")
			if !passed {
				msg = "Format: Date of Birth: dob is not a parseable date"
				kind = domain.FailureFormatMismatch
			}
			return []CheckResult{{
				Passed: passed, Field: "dob",
				ExpectedValue: "parseable date", ActualValue: val,
				Message: msg, Kind: kind,
			}}
		},
	})

	return rules
}
