package validator

import (
	"rinsetu/internal/domain"
	"rinsetu/internal/validator/loandoc"
)

// Registry maps document types to their ordered rule sets. Rule order is
// registration order, so failure reports are deterministic.
type Registry struct {
	byType map[domain.DocumentType][]Validator
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byType: make(map[domain.DocumentType][]Validator)}
}

// Register appends validators to a document type's rule set.
func (r *Registry) Register(docType domain.DocumentType, vs ...Validator) {
	r.byType[docType] = append(r.byType[docType], vs...)
}

// ForType returns the ordered rule set for a document type.
func (r *Registry) ForType(docType domain.DocumentType) []Validator {
	return r.byType[docType]
}

// NewDefaultRegistry builds a Registry with every built-in rule set.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for _, v := range loandoc.AadhaarRules() {
		r.Register(domain.DocTypeAadhaar, v)
	}
	for _, v := range loandoc.PANRules() {
		r.Register(domain.DocTypePAN, v)
	}
	for _, v := range loandoc.CIBILRules() {
		r.Register(domain.DocTypeCIBILReport, v)
	}
	for _, v := range loandoc.SalarySlipRules() {
		r.Register(domain.DocTypeSalarySlip, v)
	}
	for _, v := range loandoc.ITRRules() {
		r.Register(domain.DocTypeITR, v)
	}
	for _, v := range loandoc.BankStatementRules() {
		r.Register(domain.DocTypeBankStatement, v)
	}
	return r
}
