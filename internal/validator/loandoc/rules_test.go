package loandoc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rinsetu/internal/domain"
)

func runRules(rules []*fieldRule, d *Document) map[string][]CheckResult {
	out := make(map[string][]CheckResult)
	for _, r := range rules {
		out[r.ruleKey] = append(out[r.ruleKey], r.validate(d)...)
	}
	return out
}

func singleCheck(t *testing.T, results map[string][]CheckResult, key string) CheckResult {
	t.Helper()
	require.Len(t, results[key], 1, "rule %s", key)
	return results[key][0]
}

func aadhaarDoc(number string) *Document {
	return &Document{
		Type: domain.DocTypeAadhaar,
		Fields: map[string]string{
			"aadhaar_number": number,
			"name":           "Priya Sharma",
			"address":        "12 MG Road, Pune",
			"dob":            "15-03-1990",
		},
	}
}

func TestAadhaarRulesPass(t *testing.T) {
	results := runRules(AadhaarRules(), aadhaarDoc("234567890124"))

	for key, checks := range results {
		for _, c := range checks {
			assert.True(t, c.Passed, "rule %s: %s", key, c.Message)
		}
	}
	chk := singleCheck(t, results, "chk.aadhaar.verhoeff")
	assert.Equal(t, "checksum digit 4", chk.ExpectedValue)
	assert.Equal(t, "4", chk.ActualValue)
}

func TestAadhaarChecksumMismatch(t *testing.T) {
	results := runRules(AadhaarRules(), aadhaarDoc("234567890123"))

	fmtCheck := singleCheck(t, results, "fmt.aadhaar.number")
	assert.True(t, fmtCheck.Passed)

	chk := singleCheck(t, results, "chk.aadhaar.verhoeff")
	assert.False(t, chk.Passed)
	assert.Equal(t, domain.FailureChecksumMismatch, chk.Kind)
}

func TestAadhaarMalformedNumberSkipsChecksum(t *testing.T) {
	// Leading 0 or 1 is never issued.
	results := runRules(AadhaarRules(), aadhaarDoc("123456789012"))

	fmtCheck := singleCheck(t, results, "fmt.aadhaar.number")
	assert.False(t, fmtCheck.Passed)
	assert.Equal(t, domain.FailureFormatMismatch, fmtCheck.Kind)

	// Checksum rule defers to the format rule for malformed input.
	chk := singleCheck(t, results, "chk.aadhaar.verhoeff")
	assert.True(t, chk.Passed)
}

func TestAadhaarMissingFields(t *testing.T) {
	results := runRules(AadhaarRules(), &Document{Type: domain.DocTypeAadhaar, Fields: map[string]string{}})

	for _, field := range []string{"aadhaar_number", "name", "address", "dob"} {
		c := singleCheck(t, results, "req.aadhaar."+field)
		assert.False(t, c.Passed, "field %s", field)
		assert.Equal(t, domain.FailureRequiredMissing, c.Kind)
	}
	// Format and checksum rules skip when the field is empty.
	assert.True(t, singleCheck(t, results, "fmt.aadhaar.number").Passed)
	assert.True(t, singleCheck(t, results, "chk.aadhaar.verhoeff").Passed)
}

func panDoc(pan string) *Document {
	return &Document{
		Type: domain.DocTypePAN,
		Fields: map[string]string{
			"pan_number":  pan,
			"name":        "Priya Sharma",
			"father_name": "Rajesh Sharma",
			"dob":         "15/03/1990",
		},
	}
}

func TestPANRulesPass(t *testing.T) {
	results := runRules(PANRules(), panDoc("ABCPE1234F"))
	for key, checks := range results {
		for _, c := range checks {
			assert.True(t, c.Passed, "rule %s: %s", key, c.Message)
		}
	}
}

func TestPANFormatMismatch(t *testing.T) {
	results := runRules(PANRules(), panDoc("AB1PE1234F"))

	c := singleCheck(t, results, "fmt.pan.number")
	assert.False(t, c.Passed)
	assert.Equal(t, domain.FailureFormatMismatch, c.Kind)

	// Category rule skips malformed numbers.
	assert.True(t, singleCheck(t, results, "fmt.pan.category").Passed)
}

func TestPANCategoryUnrecognized(t *testing.T) {
	// Fourth letter Z is not a known holder category.
	results := runRules(PANRules(), panDoc("ABCZE1234F"))

	c := singleCheck(t, results, "fmt.pan.category")
	assert.False(t, c.Passed)
	assert.Equal(t, domain.FailureCategoryUnrecognized, c.Kind)
	assert.Equal(t, "Z", c.ActualValue)
}

func TestPANHolderCategory(t *testing.T) {
	assert.Equal(t, domain.PANCategoryIndividual, PANHolderCategory("ABCPE1234F"))
	assert.Equal(t, domain.PANCategoryCompany, PANHolderCategory("ABCCE1234F"))
	assert.Equal(t, domain.PANCategoryHUF, PANHolderCategory("ABCHE1234F"))
	assert.Equal(t, domain.PANCategoryUnrecognized, PANHolderCategory("ABCZE1234F"))
	assert.Equal(t, domain.PANCategoryUnrecognized, PANHolderCategory("AB"))
}

func cibilDoc(fields map[string]string) *Document {
	base := map[string]string{
		"cibil_score": "760",
		"name":        "Priya Sharma",
		"pan_number":  "ABCPE1234F",
		"report_date": "2024-01-15",
	}
	for k, v := range fields {
		base[k] = v
	}
	return &Document{Type: domain.DocTypeCIBILReport, Fields: base}
}

func TestCIBILRulesPass(t *testing.T) {
	results := runRules(CIBILRules(), cibilDoc(nil))
	for key, checks := range results {
		for _, c := range checks {
			assert.True(t, c.Passed, "rule %s: %s", key, c.Message)
		}
	}
}

func TestCIBILScoreOutOfRange(t *testing.T) {
	for _, score := range []string{"250", "950", "7x0"} {
		results := runRules(CIBILRules(), cibilDoc(map[string]string{"cibil_score": score}))
		c := singleCheck(t, results, "rng.cibil.score")
		assert.False(t, c.Passed, "score %s", score)
		assert.Equal(t, domain.FailureScoreOutOfRange, c.Kind)
	}
}

func TestCIBILScoreBoundariesInclusive(t *testing.T) {
	for _, score := range []string{"300", "900"} {
		results := runRules(CIBILRules(), cibilDoc(map[string]string{"cibil_score": score}))
		assert.True(t, singleCheck(t, results, "rng.cibil.score").Passed, "score %s", score)
	}
}

func TestCIBILWeightSum(t *testing.T) {
	allWeights := map[string]string{
		"weight_payment_history":    "0.35",
		"weight_credit_utilization": "0.30",
		"weight_credit_age":         "0.15",
		"weight_credit_mix":         "0.10",
		"weight_inquiries":          "0.10",
	}
	results := runRules(CIBILRules(), cibilDoc(allWeights))
	assert.True(t, singleCheck(t, results, "rng.cibil.weight_sum").Passed)

	// Sum off by more than the tolerance fails.
	bad := map[string]string{}
	for k, v := range allWeights {
		bad[k] = v
	}
	bad["weight_inquiries"] = "0.20"
	results = runRules(CIBILRules(), cibilDoc(bad))
	c := singleCheck(t, results, "rng.cibil.weight_sum")
	assert.False(t, c.Passed)
	assert.Equal(t, domain.FailureWeightSumInvalid, c.Kind)

	// A partial weight set is also invalid.
	results = runRules(CIBILRules(), cibilDoc(map[string]string{"weight_payment_history": "1.0"}))
	assert.False(t, singleCheck(t, results, "rng.cibil.weight_sum").Passed)

	// No weights at all uses the configured table and passes.
	results = runRules(CIBILRules(), cibilDoc(nil))
	assert.True(t, singleCheck(t, results, "rng.cibil.weight_sum").Passed)
}

func TestSalarySlipRules(t *testing.T) {
	doc := &Document{
		Type: domain.DocTypeSalarySlip,
		Fields: map[string]string{
			"name":     "Priya Sharma",
			"pay_date": "2024-02-01",
			"net_pay":  "₹52,000",
		},
	}
	results := runRules(SalarySlipRules(), doc)

	assert.True(t, singleCheck(t, results, "req.salary_slip.net_pay").Passed)
	assert.True(t, singleCheck(t, results, "amt.salary_slip.net_pay").Passed)

	// Optional fields missing are warnings, reported by the required rules.
	assert.False(t, singleCheck(t, results, "req.salary_slip.employee_id").Passed)
	assert.False(t, singleCheck(t, results, "req.salary_slip.company_name").Passed)

	// Amount rules skip fields that are absent.
	assert.True(t, singleCheck(t, results, "amt.salary_slip.gross_salary").Passed)

	doc.Fields["net_pay"] = "fifty thousand"
	results = runRules(SalarySlipRules(), doc)
	c := singleCheck(t, results, "amt.salary_slip.net_pay")
	assert.False(t, c.Passed)
	assert.Equal(t, domain.FailureAmountParseError, c.Kind)
}

func TestITRRules(t *testing.T) {
	doc := &Document{
		Type: domain.DocTypeITR,
		Fields: map[string]string{
			"name":            "Priya Sharma",
			"pan_number":      "ABCPE1234F",
			"assessment_year": "2024-25",
			"total_income":    "9,60,000",
		},
	}
	results := runRules(ITRRules(), doc)
	for key, checks := range results {
		for _, c := range checks {
			assert.True(t, c.Passed, "rule %s: %s", key, c.Message)
		}
	}

	doc.Fields["pan_number"] = "BADPAN"
	results = runRules(ITRRules(), doc)
	assert.False(t, singleCheck(t, results, "fmt.itr.pan").Passed)
}

func TestBankStatementRules(t *testing.T) {
	doc := &Document{
		Type: domain.DocTypeBankStatement,
		Fields: map[string]string{
			"account_number":   "123456789012",
			"bank_name":        "State Bank of India",
			"name":             "Priya Sharma",
			"statement_period": "Jan 2024 - Mar 2024",
		},
	}
	results := runRules(BankStatementRules(), doc)
	for key, checks := range results {
		for _, c := range checks {
			assert.True(t, c.Passed, "rule %s: %s", key, c.Message)
		}
	}

	doc.Fields["account_number"] = "12345"
	results = runRules(BankStatementRules(), doc)
	c := singleCheck(t, results, "fmt.bank_statement.account_number")
	assert.False(t, c.Passed)
	assert.Equal(t, domain.FailureFormatMismatch, c.Kind)
}
