package loandoc

import (
	"context"
	"fmt"
	"regexp"

	"rinsetu/internal/domain"
)

// fieldRule is one table-driven validation rule over a normalized document.
type fieldRule struct {
	ruleKey  string
	ruleName string
	ruleType domain.ValidationRuleType
	severity domain.ValidationSeverity
	validate func(*Document) []CheckResult
}

func (r *fieldRule) RuleKey() string                     { return r.ruleKey }
func (r *fieldRule) RuleName() string                    { return r.ruleName }
func (r *fieldRule) RuleType() domain.ValidationRuleType { return r.ruleType }
func (r *fieldRule) Severity() domain.ValidationSeverity { return r.severity }

func (r *fieldRule) Validate(_ context.Context, doc *Document) []CheckResult {
	return r.validate(doc)
}

func requiredCheck(field, ruleName string, doc *Document) CheckResult {
	val := doc.Get(field)
	passed := val != ""
	msg := fmt.Sprintf("%s: %s is present", ruleName, field)
	kind := domain.FailureKind("")
	if !passed {
		msg = fmt.Sprintf("%s: %s is missing or empty", ruleName, field)
		kind = domain.FailureRequiredMissing
	}
	return CheckResult{
		Passed: passed, Field: field,
		ExpectedValue: "non-empty value", ActualValue: val,
		Message: msg, Kind: kind,
	}
}

// regexCheck passes on empty values; presence is the required rules' job.
func regexCheck(field, pattern, ruleName string, re *regexp.Regexp, doc *Document) CheckResult {
	val := doc.Get(field)
	if val == "" {
		return CheckResult{
			Passed: true, Field: field,
			ExpectedValue: pattern, ActualValue: val,
			Message: fmt.Sprintf("%s: field is empty, skipping format check", ruleName),
		}
	}
	passed := re.MatchString(val)
	msg := fmt.Sprintf("%s: %s matches expected format", ruleName, field)
	kind := domain.FailureKind("")
	if !passed {
		msg = fmt.Sprintf("%s: %s does not match expected format", ruleName, field)
		kind = domain.FailureFormatMismatch
	}
	return CheckResult{
		Passed: passed, Field: field,
		ExpectedValue: pattern, ActualValue: val,
		Message: msg, Kind: kind,
	}
}

// amountCheck passes on empty values and fails with AmountParseError on
// anything that does not parse as a non-negative decimal.
func amountCheck(field, ruleName string, doc *Document) CheckResult {
	val := doc.Get(field)
	if val == "" {
		return CheckResult{
			Passed: true, Field: field,
			ExpectedValue: "non-negative decimal", ActualValue: val,
			Message: fmt.Sprintf("%s: field is empty, skipping amount check", ruleName),
		}
	}
	_, err := ParseAmount(val)
	passed := err == nil
	msg := fmt.Sprintf("%s: %s parses as a non-negative amount", ruleName, field)
	kind := domain.FailureKind("")
	if !passed {
		msg = fmt.Sprintf("%s: %s is not a non-negative decimal amount", ruleName, field)
		kind = domain.FailureAmountParseError
	}
	return CheckResult{
		Passed: passed, Field: field,
		ExpectedValue: "non-negative decimal", ActualValue: val,
		Message: msg, Kind: kind,
	}
}

func requiredRules(docType string, fields []string, severity domain.ValidationSeverity) []*fieldRule {
	rules := make([]*fieldRule, 0, len(fields))
	for _, f := range fields {
		field := f
		name := fmt.Sprintf("Required: %s", field)
		rules = append(rules, &fieldRule{
			ruleKey:  fmt.Sprintf("req.%s.%s", docType, field),
			ruleName: name,
			ruleType: domain.ValidationRuleRequired,
			severity: severity,
			validate: func(d *Document) []CheckResult {
				return []CheckResult{requiredCheck(field, name, d)}
			},
		})
	}
	return rules
}

func amountRules(docType string, fields []string) []*fieldRule {
	rules := make([]*fieldRule, 0, len(fields))
	for _, f := range fields {
		field := f
		name := fmt.Sprintf("Amount: %s", field)
		rules = append(rules, &fieldRule{
			ruleKey:  fmt.Sprintf("amt.%s.%s", docType, field),
			ruleName: name,
			ruleType: domain.ValidationRuleRange,
			severity: domain.ValidationSeverityError,
			validate: func(d *Document) []CheckResult {
				return []CheckResult{amountCheck(field, name, d)}
			},
		})
	}
	return rules
}
