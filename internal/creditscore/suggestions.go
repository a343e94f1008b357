package creditscore

import "rinsetu/internal/domain"

// scoreBand buckets a 0–100 component sub-score for suggestion templates.
func scoreBand(raw float64) string {
	if raw < 40 {
		return "low"
	}
	return "mid"
}

// suggestionTemplates are deterministic, keyed by component and band.
var suggestionTemplates = map[domain.ScoreComponent]map[string]string{
	domain.ComponentPaymentHistory: {
		"low": "Several payments were late or missed. Set up auto-debit for every EMI and credit card bill; payment history is the largest score factor.",
		"mid": "Pay all EMIs and card bills on or before the due date for the next six months to strengthen payment history.",
	},
	domain.ComponentCreditUtilization: {
		"low": "Credit utilization is very high. Bring balances below 30% of the combined limit, starting with the card closest to its limit.",
		"mid": "Reduce revolving balances or request a credit-limit increase to bring utilization under 30%.",
	},
	domain.ComponentCreditAge: {
		"low": "Credit history is short. Keep the oldest account open and avoid closing long-standing cards.",
		"mid": "Keep existing accounts open; average account age improves the score as accounts mature.",
	},
	domain.ComponentCreditMix: {
		"low": "The credit file is concentrated in one product type. A mix of secured and unsecured credit, repaid on time, improves this component.",
		"mid": "Maintain a balanced mix of secured and unsecured accounts.",
	},
	domain.ComponentInquiries: {
		"low": "Many recent hard inquiries. Avoid new credit applications for at least six months.",
		"mid": "Space out new credit applications; each hard inquiry lowers this component temporarily.",
	},
}

// suggestion returns the template for a component scoring below threshold.
func suggestion(comp domain.ScoreComponent, raw float64) string {
	return suggestionTemplates[comp][scoreBand(raw)]
}
