package service

import (
	"context"
	"log"

	"trimatch/internal/domain"
	"trimatch/internal/match"
	"trimatch/internal/port"
)

// Notifier mails reviewers when a match run routes an invoice for review.
type Notifier struct {
	sender port.EmailSender
	to     string
}

// NewNotifier creates a Notifier. An empty recipient disables delivery.
func NewNotifier(sender port.EmailSender, to string) *Notifier {
	return &Notifier{sender: sender, to: to}
}

// NotifyNeedsReview sends the review notification. Delivery failure is
// logged, never propagated; the review queue is the source of truth.
func (n *Notifier) NotifyNeedsReview(ctx context.Context, inv *domain.Invoice, res *match.Result, urgent bool) {
	if n.to == "" {
		return
	}

	category := ""
	if res.ReviewCategory != nil {
		category = string(*res.ReviewCategory)
	}
	notification := &port.ReviewNotification{
		InvoiceNumber: inv.InvoiceNumber,
		VendorName:    inv.VendorName,
		Category:      category,
		Urgent:        urgent,
		FailedChecks:  failedChecks(res.Trace),
	}
	if err := n.sender.SendReviewNotification(ctx, n.to, notification); err != nil {
		log.Printf("notifier: review notification for invoice %s failed: %v", inv.ID, err)
		return
	}
	log.Printf("notifier: review notification sent for invoice %s (urgent=%t)", inv.ID, urgent)
}
