// Package regexfb is a last-resort extractor that works on plain text with
// fixed regular expressions. It recovers only the high-signal identifiers and
// amounts; everything it cannot match is simply absent from the field map.
package regexfb

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"rinsetu/internal/port"
)

// typeSignals maps a document type to text patterns whose presence votes for
// that type. The type with the most hits wins; zero hits means unclassified.
var typeSignals = map[string][]*regexp.Regexp{
	"aadhaar": {
		regexp.MustCompile(`\d{4}\s?\d{4}\s?\d{4}`),
		regexp.MustCompile(`(?i)aadhaar`),
		regexp.MustCompile(`(?i)uidai`),
	},
	"pan": {
		regexp.MustCompile(`[A-Z]{5}[0-9]{4}[A-Z]`),
		regexp.MustCompile(`(?i)permanent account number`),
		regexp.MustCompile(`(?i)income tax department`),
	},
	"salary_slip": {
		regexp.MustCompile(`(?i)salary slip`),
		regexp.MustCompile(`(?i)pay\s?slip`),
		regexp.MustCompile(`(?i)net pay`),
		regexp.MustCompile(`(?i)gross salary`),
	},
	"itr": {
		regexp.MustCompile(`(?i)income tax return`),
		regexp.MustCompile(`(?i)assessment year`),
		regexp.MustCompile(`(?i)total income`),
	},
	"bank_statement": {
		regexp.MustCompile(`(?i)bank statement`),
		regexp.MustCompile(`(?i)account statement`),
		regexp.MustCompile(`(?i)current balance`),
	},
	"cibil_report": {
		regexp.MustCompile(`(?i)cibil`),
		regexp.MustCompile(`(?i)credit score`),
		regexp.MustCompile(`(?i)credit report`),
	},
}

// fieldPatterns extract individual fields. Each pattern's first capture group
// (or whole match when there is none) becomes the field value.
var fieldPatterns = []struct {
	field   string
	pattern *regexp.Regexp
}{
	{"aadhaar_number", regexp.MustCompile(`\b(\d{4}[\s-]?\d{4}[\s-]?\d{4})\b`)},
	{"pan_number", regexp.MustCompile(`\b([A-Z]{5}[0-9]{4}[A-Z])\b`)},
	{"phone", regexp.MustCompile(`(\+91[-\s]?\d{10}|\b\d{10}\b)`)},
	{"dob", regexp.MustCompile(`(?i)(?:dob|date of birth)[:\s]*(\d{1,2}[/-]\d{1,2}[/-]\d{2,4})`)},
	{"cibil_score", regexp.MustCompile(`(?i)(?:cibil|credit)\s*score[:\s]*(\d{3})\b`)},
	{"net_pay", regexp.MustCompile(`(?i)net\s*(?:pay|salary)[:\s]*₹?\s*([\d,]+)`)},
	{"gross_salary", regexp.MustCompile(`(?i)gross\s*(?:pay|salary)[:\s]*₹?\s*([\d,]+)`)},
	{"total_income", regexp.MustCompile(`(?i)total\s*income[:\s]*₹?\s*([\d,]+)`)},
	{"account_number", regexp.MustCompile(`(?i)(?:account\s*no|a/c\s*no)[.:\s]*(\d{9,18})`)},
}

// regexConfidence is reported uniformly for every recovered field. Regex
// recovery has no per-field signal, so downstream treats it as low-trust.
const regexConfidence = 0.40

// Extractor implements port.DocumentExtractor over plain text input.
type Extractor struct{}

// New creates a regex fallback extractor.
func New() *Extractor {
	return &Extractor{}
}

func (e *Extractor) Extract(_ context.Context, input port.ExtractInput) (*port.ExtractOutput, error) {
	if !strings.HasPrefix(input.ContentType, "text/") {
		return nil, fmt.Errorf("regex extraction requires text input, got %s", input.ContentType)
	}
	text := string(input.FileBytes)

	docType := input.DocumentType
	if docType == "" {
		docType = ClassifyText(text)
	}

	fields := make(map[string]string)
	confidence := make(map[string]float64)
	for _, fp := range fieldPatterns {
		m := fp.pattern.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		val := m[0]
		if len(m) > 1 && m[1] != "" {
			val = m[1]
		}
		fields[fp.field] = strings.TrimSpace(val)
		confidence[fp.field] = regexConfidence
	}

	if len(fields) == 0 {
		return nil, fmt.Errorf("no recognizable fields in text")
	}

	return &port.ExtractOutput{
		DocumentType: docType,
		Fields:       fields,
		Confidence:   confidence,
		ProviderUsed: "regex",
	}, nil
}

// ClassifyText scores each document type by pattern hits and returns the
// winner, or empty string when nothing matches.
func ClassifyText(text string) string {
	best := ""
	bestScore := 0
	for docType, signals := range typeSignals {
		score := 0
		for _, re := range signals {
			if re.MatchString(text) {
				score++
			}
		}
		// Ties resolve lexicographically so classification is deterministic.
		if score > bestScore || (score == bestScore && score > 0 && docType < best) {
			best = docType
			bestScore = score
		}
	}
	return best
}
