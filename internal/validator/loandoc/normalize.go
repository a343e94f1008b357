package loandoc

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	"rinsetu/internal/domain"
)

// fieldSynonyms maps the field names extraction collaborators actually emit
// (title-cased, spaced, abbreviated) to the canonical snake_case names the
// rule tables use.
var fieldSynonyms = map[string]string{
	"aadhaar_no":          "aadhaar_number",
	"uid":                 "aadhaar_number",
	"pan_no":              "pan_number",
	"permanent_account_number": "pan_number",
	"date_of_birth":       "dob",
	"phone_number":        "phone",
	"mobile":              "phone",
	"mobile_number":       "phone",
	"employee_name":       "name",
	"account_holder_name": "name",
	"full_name":           "name",
	"net_salary":          "net_pay",
	"gross_pay":           "gross_salary",
	"cibil":               "cibil_score",
	"credit_score":        "cibil_score",
	"account_no":          "account_number",
	"a_c_no":              "account_number",
}

// CanonicalFieldName folds an extractor-emitted field name to its canonical
// snake_case form ("Aadhaar Number" → "aadhaar_number").
func CanonicalFieldName(name string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
		} else if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	key := strings.Trim(b.String(), "_")
	if canonical, ok := fieldSynonyms[key]; ok {
		return canonical
	}
	return key
}

// CollapseWhitespace trims and folds runs of whitespace to single spaces.
func CollapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

var nonDigits = regexp.MustCompile(`\D`)

// NormalizeAadhaar strips everything but digits ("2345 6789 0123" → "234567890123").
func NormalizeAadhaar(s string) string {
	return nonDigits.ReplaceAllString(s, "")
}

// NormalizePAN uppercases and strips spaces.
func NormalizePAN(s string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(s), " ", ""))
}

var amountJunk = regexp.MustCompile(`[₹,\s]|(?i)^(rs\.?|inr)`)

// ParseAmount parses a currency-denominated value, tolerating the rupee sign,
// "Rs." prefixes, and thousands separators. Negative amounts are errors.
func ParseAmount(s string) (float64, error) {
	clean := amountJunk.ReplaceAllString(strings.TrimSpace(s), "")
	if clean == "" {
		return 0, fmt.Errorf("empty amount")
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount: %s", s)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative amount: %s", s)
	}
	return v, nil
}

// ParseDate tries the date formats Indian financial documents commonly carry.
func ParseDate(s string) (time.Time, error) {
	formats := []string{
		"2006-01-02",
		"02-01-2006",
		"02/01/2006",
		"2006/01/02",
		"02 Jan 2006",
		"2 Jan 2006",
		"Jan 02, 2006",
		"January 02, 2006",
		"02-01-06",
		"02/01/06",
		"2006-01-02T15:04:05Z07:00",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, strings.TrimSpace(s)); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date: %s", s)
}

// identifierFields get aggressive canonicalization; everything else only gets
// whitespace folding.
var identifierNormalizers = map[string]func(string) string{
	"aadhaar_number": NormalizeAadhaar,
	"pan_number":     NormalizePAN,
	"phone":          NormalizeAadhaar, // digits-only works for phone numbers too
	"account_number": NormalizeAadhaar,
}

// Normalize converts an extracted document into the canonical view the rule
// tables operate over. The input is never mutated.
func Normalize(doc *domain.ExtractedDocument) *Document {
	fields := make(map[string]string, len(doc.Fields))
	confidence := make(map[string]float64, len(doc.Confidence))
	for name, value := range doc.Fields {
		key := CanonicalFieldName(name)
		v := CollapseWhitespace(value)
		if norm, ok := identifierNormalizers[key]; ok {
			v = norm(v)
		}
		fields[key] = v
	}
	for name, c := range doc.Confidence {
		confidence[CanonicalFieldName(name)] = c
	}
	return &Document{
		ID:         doc.DocumentID,
		Type:       doc.DocumentType,
		Fields:     fields,
		Confidence: confidence,
	}
}
