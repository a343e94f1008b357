package ses

import (
	"context"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"rinsetu/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
	frontendURL string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName, frontendURL string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
		frontendURL: frontendURL,
	}, nil
}

func (s *sesSender) send(ctx context.Context, toEmail, subject, htmlBody, textBody string) error {
	from := fmt.Sprintf("%s <%s>", s.fromName, s.fromAddress)

	_, err := s.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: &from,
		Destination: &types.Destination{
			ToAddresses: []string{toEmail},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: &subject},
				Body: &types.Body{
					Html: &types.Content{Data: &htmlBody},
					Text: &types.Content{Data: &textBody},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("SES SendEmail: %w", err)
	}
	return nil
}

func (s *sesSender) SendDecisionEmail(ctx context.Context, toEmail, toName string, n port.DecisionNotification) error {
	subject := fmt.Sprintf("Loan eligibility decision ready: %s", n.SessionName)
	htmlBody := buildDecisionHTML(toName, n, s.frontendURL)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nThe evaluation for %q has completed.\n\nRisk tier: %s\nMaximum loan amount: INR %.2f\nInterest rate band: %s\n\nSign in to %s to review the full verification report. The session data expires automatically.\n\nRinSetu Team",
		toName, n.SessionName, tierLabel(n.RiskTier), n.MaxLoanAmount, n.InterestRateBand, s.frontendURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func (s *sesSender) SendWelcomeEmail(ctx context.Context, toEmail, toName string) error {
	subject := "Welcome to RinSetu"
	htmlBody := buildWelcomeHTML(toName, s.frontendURL)
	textBody := fmt.Sprintf(
		"Hi %s,\n\nYour RinSetu account is ready. Sign in at %s to start a verification session.\n\nRinSetu Team",
		toName, s.frontendURL)

	return s.send(ctx, toEmail, subject, htmlBody, textBody)
}

func tierLabel(tier string) string {
	return strings.ToUpper(tier[:1]) + tier[1:]
}

func buildDecisionHTML(name string, n port.DecisionNotification, frontendURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Eligibility decision ready</h2>
  <p>Hi %s,</p>
  <p>The evaluation for <strong>%s</strong> has completed.</p>
  <table style="border-collapse: collapse; margin: 20px 0;">
    <tr><td style="padding: 6px 16px 6px 0; color: #666;">Risk tier</td><td style="padding: 6px 0;"><strong>%s</strong></td></tr>
    <tr><td style="padding: 6px 16px 6px 0; color: #666;">Maximum loan amount</td><td style="padding: 6px 0;"><strong>&#8377;%.2f</strong></td></tr>
    <tr><td style="padding: 6px 16px 6px 0; color: #666;">Interest rate band</td><td style="padding: 6px 0;"><strong>%s</strong></td></tr>
  </table>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">View Full Report</a>
  </p>
  <p style="color: #999; font-size: 12px;">Session data is held in memory only and expires automatically. This email contains no document contents.</p>
</body>
</html>`, name, n.SessionName, tierLabel(n.RiskTier), n.MaxLoanAmount, n.InterestRateBand, frontendURL)
}

func buildWelcomeHTML(name, frontendURL string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Welcome to RinSetu</h2>
  <p>Hi %s,</p>
  <p>Your account is ready. Sign in to start a verification session and upload applicant documents.</p>
  <p style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #4F46E5; color: white; padding: 12px 24px; text-decoration: none; border-radius: 6px; display: inline-block;">Sign In</a>
  </p>
</body>
</html>`, name, frontendURL)
}
