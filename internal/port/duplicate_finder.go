package port

import (
	"context"
	"time"

	"github.com/google/uuid"

	"trimatch/internal/domain"
)

// DuplicateMatch holds enough information about a colliding invoice for an
// actionable trace message.
type DuplicateMatch struct {
	ID            uuid.UUID            `db:"id"`
	InvoiceNumber string               `db:"invoice_number"`
	Status        domain.InvoiceStatus `db:"status"`
	CreatedAt     time.Time            `db:"created_at"`
}

// DuplicateInvoiceFinder looks for other invoices with the same vendor and
// invoice number that have already cleared matching (matched, approved,
// pending_payment, or paid). Any hit is a policy violation.
type DuplicateInvoiceFinder interface {
	FindDuplicates(ctx context.Context, excludeID uuid.UUID, invoiceNumber, vendorName string) ([]DuplicateMatch, error)
}
