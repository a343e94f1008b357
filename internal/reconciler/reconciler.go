// Package reconciler cross-checks logical fields (name, date of birth,
// address, identifiers) across every document of a session. It surfaces
// conflicts but never resolves them; weighing conflicts is the eligibility
// engine's job.
package reconciler

import (
	"fmt"
	"sort"
	"strings"

	"rinsetu/internal/domain"
	"rinsetu/internal/validator/loandoc"
)

// Config carries the per-field edit-distance thresholds.
type Config struct {
	NameEditDistance    int
	AddressEditDistance int
}

// logicalField describes how one cross-document field is compared.
type logicalField struct {
	name       string
	identity   bool // identity fields make Major conflicts disqualifying
	threshold  func(Config) int
	normalize  func(string) string
	exactMatch bool // identifiers and dates require exact equality
}

func lowerFold(s string) string {
	return strings.ToLower(loandoc.CollapseWhitespace(s))
}

func normalizeDOB(s string) string {
	if t, err := loandoc.ParseDate(s); err == nil {
		return t.Format("2006-01-02")
	}
	return lowerFold(s)
}

// logicalFields is the field-indexed comparison table. Documents are never
// linked to each other; every comparison goes through this table.
var logicalFields = []logicalField{
	{name: "full_name", identity: true,
		threshold: func(c Config) int { return c.NameEditDistance },
		normalize: lowerFold},
	{name: "dob", identity: true, exactMatch: true, normalize: normalizeDOB},
	{name: "pan_number", identity: true, exactMatch: true, normalize: strings.ToUpper},
	{name: "aadhaar_number", identity: true, exactMatch: true, normalize: lowerFold},
	{name: "address",
		threshold: func(c Config) int { return c.AddressEditDistance },
		normalize: lowerFold},
	{name: "phone", exactMatch: true, normalize: lowerFold},
}

// sourceFieldNames maps a logical field to the normalized document fields
// that can contribute a value for it.
var sourceFieldNames = map[string][]string{
	"full_name":      {"name"},
	"dob":            {"dob"},
	"pan_number":     {"pan_number"},
	"aadhaar_number": {"aadhaar_number"},
	"address":        {"address"},
	"phone":          {"phone"},
}

// IdentityFields reports which logical fields are identity fields, for the
// eligibility engine's disqualification rule.
func IdentityFields() map[string]bool {
	out := make(map[string]bool, len(logicalFields))
	for _, lf := range logicalFields {
		if lf.identity {
			out[lf.name] = true
		}
	}
	return out
}

// Reconciler compares validated documents field by field.
type Reconciler struct {
	cfg Config
}

// New creates a Reconciler with the given thresholds.
func New(cfg Config) *Reconciler {
	return &Reconciler{cfg: cfg}
}

// contribution is one document's value for a logical field.
type contribution struct {
	documentID string
	raw        string
	normalized string
}

// Reconcile builds the session's consistency report from the validated
// results. A field present in fewer than two documents is unverified, never
// a conflict. Unavailable documents contribute nothing.
func (r *Reconciler) Reconcile(results []domain.ValidationResult) *domain.ConsistencyReport {
	report := &domain.ConsistencyReport{
		MatchedFields: make(map[string][]string),
	}

	for _, lf := range logicalFields {
		contribs := collect(results, lf)
		switch {
		case len(contribs) == 0:
			continue
		case len(contribs) == 1:
			report.Unverified = append(report.Unverified, lf.name)
			continue
		}

		if agreed(contribs) {
			ids := make([]string, 0, len(contribs))
			for _, c := range contribs {
				ids = append(ids, c.documentID)
			}
			sort.Strings(ids)
			report.MatchedFields[lf.name] = ids
			continue
		}

		report.Conflicts = append(report.Conflicts, r.conflict(lf, contribs))
	}

	sort.Strings(report.Unverified)
	return report
}

func collect(results []domain.ValidationResult, lf logicalField) []contribution {
	var contribs []contribution
	for _, res := range results {
		if res.Unavailable {
			continue
		}
		for _, src := range sourceFieldNames[lf.name] {
			raw := res.NormalizedFields[src]
			if raw == "" {
				continue
			}
			contribs = append(contribs, contribution{
				documentID: res.DocumentID,
				raw:        raw,
				normalized: lf.normalize(raw),
			})
			break
		}
	}
	return contribs
}

func agreed(contribs []contribution) bool {
	for _, c := range contribs[1:] {
		if c.normalized != contribs[0].normalized {
			return false
		}
	}
	return true
}

// conflict grades a disagreement: identifier or exact-match fields are always
// Major; tolerant fields are Minor within the edit-distance threshold and
// Major beyond it.
func (r *Reconciler) conflict(lf logicalField, contribs []contribution) domain.Conflict {
	values := make(map[string]string, len(contribs))
	for _, c := range contribs {
		values[c.documentID] = c.raw
	}

	if lf.exactMatch {
		return domain.Conflict{
			Field:    lf.name,
			Values:   values,
			Severity: domain.ConflictSeverityMajor,
			Detail:   fmt.Sprintf("%s requires exact agreement across documents", lf.name),
		}
	}

	threshold := lf.threshold(r.cfg)
	maxDist := 0
	for i := 0; i < len(contribs); i++ {
		for j := i + 1; j < len(contribs); j++ {
			d := boundedLevenshtein(contribs[i].normalized, contribs[j].normalized, threshold)
			if d > maxDist {
				maxDist = d
			}
		}
	}

	severity := domain.ConflictSeverityMinor
	detail := fmt.Sprintf("%s values differ by edit distance %d (threshold %d)", lf.name, maxDist, threshold)
	if maxDist > threshold {
		severity = domain.ConflictSeverityMajor
		detail = fmt.Sprintf("%s values differ beyond edit distance threshold %d", lf.name, threshold)
	}
	return domain.Conflict{
		Field:    lf.name,
		Values:   values,
		Severity: severity,
		Detail:   detail,
	}
}
