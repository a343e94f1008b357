package loandoc

import (
	"regexp"

	"rinsetu/internal/domain"
)

var accountNumberPattern = regexp.MustCompile(`^\d{9,18}$`)

// SalarySlipRules returns the rule set for salary slips.
func SalarySlipRules() []*fieldRule {
	rules := requiredRules("salary_slip",
		[]string{"name", "pay_date", "net_pay"},
		domain.ValidationSeverityError)
	rules = append(rules, requiredRules("salary_slip",
		[]string{"employee_id", "company_name", "gross_salary"},
		domain.ValidationSeverityWarning)...)
	rules = append(rules, amountRules("salary_slip",
		[]string{"net_pay", "gross_salary", "basic_pay", "deductions"})...)
	return rules
}

// ITRRules returns the rule set for income tax returns.
func ITRRules() []*fieldRule {
	rules := requiredRules("itr",
		[]string{"name", "pan_number", "assessment_year", "total_income"},
		domain.ValidationSeverityError)
	rules = append(rules, amountRules("itr",
		[]string{"total_income", "tax_paid"})...)
	rules = append(rules, &fieldRule{
		ruleKey:  "fmt.itr.pan",
		ruleName: "Format: ITR PAN",
		ruleType: domain.ValidationRuleRegex,
		severity: domain.ValidationSeverityError,
		validate: func(d *Document) []CheckResult {
			return []CheckResult{regexCheck("pan_number",
				"AAAAA9999A", "Format: ITR PAN", panPattern, d)}
		},
	})
	return rules
}

// BankStatementRules returns the rule set for bank statements.
func BankStatementRules() []*fieldRule {
	rules := requiredRules("bank_statement",
		[]string{"account_number", "bank_name", "name", "statement_period"},
		domain.ValidationSeverityError)
	rules = append(rules, amountRules("bank_statement",
		[]string{"balance", "average_monthly_credit", "recurring_emi_debit"})...)
	rules = append(rules, &fieldRule{
		ruleKey:  "fmt.bank_statement.account_number",
		ruleName: "Format: Account Number",
		ruleType: domain.ValidationRuleRegex,
		severity: domain.ValidationSeverityWarning,
		validate: func(d *Document) []CheckResult {
			return []CheckResult{regexCheck("account_number",
				"9-18 digit account number", "Format: Account Number",
				accountNumberPattern, d)}
		},
	})
	return rules
}
