package ses

import (
	"context"
	"fmt"
	"html"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"

	"trimatch/internal/port"
)

type sesSender struct {
	client      *sesv2.Client
	fromAddress string
	fromName    string
}

// NewSESSender creates a new SES-backed EmailSender.
func NewSESSender(region, fromAddress, fromName string) (port.EmailSender, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for SES: %w", err)
	}
	client := sesv2.NewFromConfig(cfg)
	return &sesSender{
		client:      client,
		fromAddress: fromAddress,
		fromName:    fromName,
	}, nil
}

func (s *sesSender) SendReviewNotification(ctx context.Context, toEmail string, n *port.ReviewNotification) error {
	subject := fmt.Sprintf("Invoice %s needs review (%s)", n.InvoiceNumber, n.Category)
	if n.Urgent {
		subject = "[URGENT] " + subject
	}

	htmlBody := buildReviewHTML(n)
	textBody := buildReviewText(n)
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

func buildReviewText(n *port.ReviewNotification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Invoice %s from %s failed automatic matching.\n\n", n.InvoiceNumber, n.VendorName)
	fmt.Fprintf(&b, "Review category: %s\n", n.Category)
	if n.Urgent {
		b.WriteString("This invoice is flagged URGENT.\n")
	}
	if len(n.FailedChecks) > 0 {
		b.WriteString("\nFailed checks:\n")
		for _, c := range n.FailedChecks {
			fmt.Fprintf(&b, "  - %s\n", c)
		}
	}
	b.WriteString("\nTriMatch")
	return b.String()
}

func buildReviewHTML(n *port.ReviewNotification) string {
	var checks strings.Builder
	for _, c := range n.FailedChecks {
		fmt.Fprintf(&checks, "<li>%s</li>", html.EscapeString(c))
	}
	urgentBanner := ""
	if n.Urgent {
		urgentBanner = `<p style="color: #B91C1C; font-weight: bold;">This invoice is flagged URGENT.</p>`
	}
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h2 style="color: #333;">Invoice needs review</h2>
  <p>Invoice <strong>%s</strong> from <strong>%s</strong> failed automatic matching.</p>
  <p>Review category: <strong>%s</strong></p>
  %s
  <p>Failed checks:</p>
  <ul>%s</ul>
  <hr style="border: none; border-top: 1px solid #eee; margin: 20px 0;">
  <p style="color: #999; font-size: 12px;">TriMatch - Invoice Reconciliation</p>
</body>
</html>`,
		html.EscapeString(n.InvoiceNumber), html.EscapeString(n.VendorName),
		html.EscapeString(n.Category), urgentBanner, checks.String())
}
