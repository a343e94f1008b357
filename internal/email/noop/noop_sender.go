package noop

import (
	"context"
	"log"

	"rinsetu/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs instead of sending.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendDecisionEmail(_ context.Context, toEmail, toName string, n port.DecisionNotification) error {
	log.Printf("[NOOP EMAIL] Decision for %s (%s): session=%q tier=%s max=%.2f rate=%s",
		toName, toEmail, n.SessionName, n.RiskTier, n.MaxLoanAmount, n.InterestRateBand)
	return nil
}

func (s *noopSender) SendWelcomeEmail(_ context.Context, toEmail, toName string) error {
	log.Printf("[NOOP EMAIL] Welcome email for %s (%s)", toName, toEmail)
	return nil
}
