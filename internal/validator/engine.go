package validator

import (
	"context"

	"rinsetu/internal/domain"
	"rinsetu/internal/validator/loandoc"
)

// Engine runs every applicable rule against a document and assembles the
// complete validation result. Validation is deterministic and total: it never
// blocks, never errors, and never short-circuits on the first failure.
type Engine struct {
	registry *Registry
}

// NewEngine creates a validation engine over a rule registry.
func NewEngine(registry *Registry) *Engine {
	return &Engine{registry: registry}
}

// ValidateDocument validates one extracted document. A document marked
// unavailable (extraction collaborator failure) yields an invalid result with
// no rule checks; the eligibility engine decides what that means.
func (e *Engine) ValidateDocument(ctx context.Context, doc *domain.ExtractedDocument) domain.ValidationResult {
	result := domain.ValidationResult{
		DocumentID:   doc.DocumentID,
		DocumentType: doc.DocumentType,
		IsValid:      true,
	}

	if doc.Unavailable {
		result.IsValid = false
		result.Unavailable = true
		return result
	}

	normalized := loandoc.Normalize(doc)
	result.NormalizedFields = normalized.Fields

	for _, rule := range e.registry.ForType(doc.DocumentType) {
		for _, cr := range rule.Validate(ctx, normalized) {
			result.Checks = append(result.Checks, domain.RuleCheck{
				RuleKey:       rule.RuleKey(),
				RuleName:      rule.RuleName(),
				RuleType:      rule.RuleType(),
				Severity:      rule.Severity(),
				Passed:        cr.Passed,
				Field:         cr.Field,
				ExpectedValue: cr.ExpectedValue,
				ActualValue:   cr.ActualValue,
				Message:       cr.Message,
			})
			if !cr.Passed {
				result.Failures = append(result.Failures, domain.ValidationFailure{
					Field:  cr.Field,
					Rule:   rule.RuleKey(),
					Kind:   cr.Kind,
					Reason: cr.Message,
				})
				if rule.Severity() == domain.ValidationSeverityError {
					result.IsValid = false
				}
			}
		}
	}

	return result
}
