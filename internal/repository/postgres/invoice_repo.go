package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"trimatch/internal/domain"
	"trimatch/internal/port"
)

type invoiceRepo struct {
	db *sqlx.DB
}

// NewInvoiceRepo creates a new PostgreSQL-backed InvoiceRepository.
func NewInvoiceRepo(db *sqlx.DB) port.InvoiceRepository {
	return &invoiceRepo{db: db}
}

func (r *invoiceRepo) Create(ctx context.Context, inv *domain.Invoice) error {
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	if inv.Status == "" {
		inv.Status = domain.StatusPending
	}
	if inv.Version == 0 {
		inv.Version = 1
	}

	query := `INSERT INTO invoices (
		id, invoice_number, vendor_name, invoice_date, due_date,
		grand_total, currency, related_po_numbers, line_items,
		status, review_category, reviewer_notes, match_trace,
		linked_po_numbers, linked_grn_numbers, matched_at,
		version, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5,
		$6, $7, $8, $9,
		$10, $11, $12, $13,
		$14, $15, $16,
		$17, $18, $19
	)`

	_, err := r.db.ExecContext(ctx, query,
		inv.ID, inv.InvoiceNumber, inv.VendorName, inv.InvoiceDate, inv.DueDate,
		inv.GrandTotal, inv.Currency, inv.RelatedPONumbers, inv.LineItems,
		inv.Status, inv.ReviewCategory, inv.ReviewerNotes, inv.MatchTrace,
		inv.LinkedPONumbers, inv.LinkedGRNNumbers, inv.MatchedAt,
		inv.Version, inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Create: %w", err)
	}
	return nil
}

func (r *invoiceRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var inv domain.Invoice
	err := r.db.GetContext(ctx, &inv, "SELECT * FROM invoices WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("invoiceRepo.GetByID: %w", err)
	}
	return &inv, nil
}

func (r *invoiceRepo) ListByStatus(ctx context.Context, status domain.InvoiceStatus, category *domain.ReviewCategory, offset, limit int) ([]domain.Invoice, int, error) {
	where := "WHERE status = $1"
	args := []interface{}{status}
	if category != nil {
		where += " AND review_category = $2"
		args = append(args, *category)
	}

	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM invoices "+where, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByStatus count: %w", err)
	}

	query := fmt.Sprintf("SELECT * FROM invoices %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var invs []domain.Invoice
	if err := r.db.SelectContext(ctx, &invs, query, args...); err != nil {
		return nil, 0, fmt.Errorf("invoiceRepo.ListByStatus: %w", err)
	}
	return invs, total, nil
}

func (r *invoiceRepo) ListByRelatedPONumber(ctx context.Context, poNumber string) ([]domain.Invoice, error) {
	var invs []domain.Invoice
	err := r.db.SelectContext(ctx, &invs,
		`SELECT * FROM invoices
		 WHERE related_po_numbers @> jsonb_build_array($1::text)
		 ORDER BY created_at DESC`, poNumber)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ListByRelatedPONumber: %w", err)
	}
	return invs, nil
}

func (r *invoiceRepo) ClaimPending(ctx context.Context, limit int) ([]domain.Invoice, error) {
	var invs []domain.Invoice
	err := r.db.SelectContext(ctx, &invs,
		`UPDATE invoices SET status = $1, updated_at = $2
		 WHERE id IN (
		   SELECT id FROM invoices WHERE status = $3
		   ORDER BY created_at LIMIT $4
		   FOR UPDATE SKIP LOCKED
		 )
		 RETURNING *`,
		domain.StatusMatching, time.Now().UTC(), domain.StatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("invoiceRepo.ClaimPending: %w", err)
	}
	return invs, nil
}

func (r *invoiceRepo) Requeue(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $1, updated_at = $2 WHERE id = $3`,
		domain.StatusPending, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.Requeue: %w", err)
	}
	return requireRow(result, domain.ErrInvoiceNotFound)
}

// CommitMatchResult writes the whole run outcome in one statement guarded by
// the version the run loaded. A lost race reports ErrVersionConflict so the
// caller can retry against fresh state instead of silently overwriting.
func (r *invoiceRepo) CommitMatchResult(ctx context.Context, id uuid.UUID, commit *port.MatchCommit) error {
	now := time.Now().UTC()
	var matchedAt *time.Time
	if commit.Status == domain.StatusMatched {
		matchedAt = &now
	}
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET
			status = $1, review_category = $2, match_trace = $3,
			linked_po_numbers = $4, linked_grn_numbers = $5,
			matched_at = $6, version = version + 1, updated_at = $7
		 WHERE id = $8 AND version = $9`,
		commit.Status, commit.ReviewCategory, commit.MatchTrace,
		commit.LinkedPONumbers, commit.LinkedGRNNumbers,
		matchedAt, now, id, commit.Version)
	if err != nil {
		return fmt.Errorf("invoiceRepo.CommitMatchResult: %w", err)
	}
	return requireRow(result, domain.ErrVersionConflict)
}

func (r *invoiceRepo) UpdateReview(ctx context.Context, id uuid.UUID, status domain.InvoiceStatus, notes string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = $1, reviewer_notes = $2, version = version + 1, updated_at = $3
		 WHERE id = $4`,
		status, notes, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.UpdateReview: %w", err)
	}
	return requireRow(result, domain.ErrInvoiceNotFound)
}

func (r *invoiceRepo) SetTraceArchiveKey(ctx context.Context, id uuid.UUID, key string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET trace_archive_key = $1, updated_at = $2 WHERE id = $3`,
		key, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("invoiceRepo.SetTraceArchiveKey: %w", err)
	}
	return requireRow(result, domain.ErrInvoiceNotFound)
}

func requireRow(result sql.Result, missing error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return missing
	}
	return nil
}
