package port

import "context"

// DecisionNotification summarizes an eligibility outcome for email delivery.
// It deliberately excludes every extracted document field.
type DecisionNotification struct {
	SessionName      string
	RiskTier         string
	MaxLoanAmount    float64
	InterestRateBand string
}

// EmailSender defines the contract for sending emails.
type EmailSender interface {
	SendDecisionEmail(ctx context.Context, toEmail, toName string, n DecisionNotification) error
	SendWelcomeEmail(ctx context.Context, toEmail, toName string) error
}
