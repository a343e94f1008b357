package validator

import (
	"context"

	"rinsetu/internal/domain"
	"rinsetu/internal/validator/loandoc"
)

// Validator is the interface for a single built-in validation rule.
type Validator interface {
	Validate(ctx context.Context, doc *loandoc.Document) []loandoc.CheckResult
	RuleKey() string
	RuleName() string
	RuleType() domain.ValidationRuleType
	Severity() domain.ValidationSeverity
}
