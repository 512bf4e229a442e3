package postgres

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"trimatch/internal/port"
)

type duplicateFinderRepo struct {
	db *sqlx.DB
}

// NewDuplicateFinderRepo creates a new PostgreSQL-backed DuplicateInvoiceFinder.
func NewDuplicateFinderRepo(db *sqlx.DB) port.DuplicateInvoiceFinder {
	return &duplicateFinderRepo{db: db}
}

func (r *duplicateFinderRepo) FindDuplicates(
	ctx context.Context,
	excludeID uuid.UUID,
	invoiceNumber, vendorName string,
) ([]port.DuplicateMatch, error) {
	var matches []port.DuplicateMatch
	err := r.db.SelectContext(ctx, &matches, `
		SELECT id, invoice_number, status, created_at
		FROM invoices
		WHERE invoice_number = $1
		  AND vendor_name = $2
		  AND id != $3
		  AND status IN ('matched', 'approved', 'pending_payment', 'paid')
		ORDER BY created_at DESC
		LIMIT 5`,
		invoiceNumber, vendorName, excludeID,
	)
	if err != nil {
		return nil, err
	}
	return matches, nil
}
