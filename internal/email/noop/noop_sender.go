package noop

import (
	"context"
	"log"
	"strings"

	"trimatch/internal/port"
)

type noopSender struct{}

// NewNoopSender creates a no-op EmailSender that logs notifications to stdout.
func NewNoopSender() port.EmailSender {
	return &noopSender{}
}

func (s *noopSender) SendReviewNotification(_ context.Context, toEmail string, n *port.ReviewNotification) error {
	log.Printf("[NOOP EMAIL] Review notification to %s: invoice %s from %s, category=%s urgent=%t failed=[%s]",
		toEmail, n.InvoiceNumber, n.VendorName, n.Category, n.Urgent, strings.Join(n.FailedChecks, ", "))
	return nil
}
