package loandoc

import (
	"rinsetu/internal/domain"
)

// Document is the normalized view of an extracted document that validation
// rules operate over: canonical snake_case field names mapped to canonical
// values (uppercase PAN, digits-only Aadhaar, collapsed whitespace).
type Document struct {
	ID         string
	Type       domain.DocumentType
	Fields     map[string]string
	Confidence map[string]float64
}

// Get returns the normalized value for a canonical field name, or "".
func (d *Document) Get(field string) string {
	return d.Fields[field]
}

// CheckResult is the outcome of one rule against one field. Kind is set only
// on failures and classifies them for the ordered failure report.
type CheckResult struct {
	Passed        bool
	Field         string
	ExpectedValue string
	ActualValue   string
	Message       string
	Kind          domain.FailureKind
}
