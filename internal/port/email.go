package port

import "context"

// ReviewNotification describes a needs-review outcome for notification mail.
type ReviewNotification struct {
	InvoiceNumber string
	VendorName    string
	Category      string
	Urgent        bool
	FailedChecks  []string
}

// EmailSender defines the contract for sending review notifications.
type EmailSender interface {
	SendReviewNotification(ctx context.Context, toEmail string, n *ReviewNotification) error
}
